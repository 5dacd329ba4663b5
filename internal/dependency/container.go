// Package dependency wires the findesktop core services using go.uber.org/dig.
package dependency

import (
	"context"
	"log/slog"

	"go.uber.org/dig"

	"github.com/bhushanpoojary/findesktop/internal/agent"
	"github.com/bhushanpoojary/findesktop/internal/broadcast"
	"github.com/bhushanpoojary/findesktop/internal/channels"
	"github.com/bhushanpoojary/findesktop/internal/config"
	"github.com/bhushanpoojary/findesktop/internal/contextbus"
	"github.com/bhushanpoojary/findesktop/internal/directory"
	"github.com/bhushanpoojary/findesktop/internal/intents"
	"github.com/bhushanpoojary/findesktop/internal/scheduler"
	"github.com/bhushanpoojary/findesktop/internal/transport"
)

// Options lets the shell replace the external collaborators. Zero values
// fall back to an in-process bus, a log-only opener and the no-UI
// directory policy.
type Options struct {
	// Bus carries cross-window traffic; nil means in-process only.
	Bus transport.Bus
	// Opener activates apps; nil logs activations instead of opening.
	Opener intents.AppOpener
	// Policy resolves multi-candidate intents; nil uses the directory
	// default, else first match.
	Policy intents.ResolutionPolicy
}

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	agent    *agent.DesktopAgent
	registry *channels.Registry
	router   *broadcast.Router
	dir      *directory.Directory
	bus      transport.Bus
	schedSvc *scheduler.Service
}

func (c *Container) Agent() *agent.DesktopAgent      { return c.agent }
func (c *Container) Registry() *channels.Registry    { return c.registry }
func (c *Container) Router() *broadcast.Router       { return c.router }
func (c *Container) Directory() *directory.Directory { return c.dir }
func (c *Container) Bus() transport.Bus              { return c.bus }
func (c *Container) Scheduler() *scheduler.Service   { return c.schedSvc }

// New builds and wires all core services from cfg and opts.
func New(cfg *config.Config, opts Options) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() Options { return opts }); err != nil {
		return nil, err
	}
	if err := d.Provide(newBus); err != nil {
		return nil, err
	}
	if err := d.Provide(newDirectory); err != nil {
		return nil, err
	}
	if err := d.Provide(newRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newRouter); err != nil {
		return nil, err
	}
	if err := d.Provide(newContextBus); err != nil {
		return nil, err
	}
	if err := d.Provide(newResolver); err != nil {
		return nil, err
	}
	if err := d.Provide(newAgent); err != nil {
		return nil, err
	}
	if err := d.Provide(newScheduler); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		a *agent.DesktopAgent,
		registry *channels.Registry,
		router *broadcast.Router,
		dir *directory.Directory,
		bus transport.Bus,
		schedSvc *scheduler.Service,
	) {
		result = &Container{
			agent:    a,
			registry: registry,
			router:   router,
			dir:      dir,
			bus:      bus,
			schedSvc: schedSvc,
		}
	})
	return result, err
}

func newBus(opts Options) transport.Bus {
	if opts.Bus != nil {
		return opts.Bus
	}
	return transport.NewMemoryBus()
}

func newDirectory(cfg *config.Config) *directory.Directory {
	return directory.New(cfg.Apps)
}

// newRegistry seeds the channel set from config. Re-seeding an id is
// last-write-wins, so repeated container builds over one registry config
// are harmless.
func newRegistry(cfg *config.Config) *channels.Registry {
	r := channels.NewRegistry()
	for _, ch := range cfg.Channels {
		r.CreateChannel(ch)
	}
	return r
}

func newRouter(r *channels.Registry) *broadcast.Router {
	return broadcast.NewRouter(r)
}

func newContextBus() *contextbus.Bus {
	return contextbus.New()
}

func newResolver(dir *directory.Directory, opts Options, bus transport.Bus) *intents.Resolver {
	opener := opts.Opener
	if opener == nil {
		opener = intents.OpenerFunc(func(_ context.Context, appID string) error {
			slog.Info("app activated", "app", appID)
			return nil
		})
	}
	return intents.NewResolver(dir, opener, bus, opts.Policy)
}

func newAgent(
	dir *directory.Directory,
	registry *channels.Registry,
	router *broadcast.Router,
	ctxBus *contextbus.Bus,
	resolver *intents.Resolver,
	bus transport.Bus,
) *agent.DesktopAgent {
	return agent.New(dir, registry, router, ctxBus, resolver, bus)
}

func newScheduler(cfg *config.Config, a *agent.DesktopAgent) *scheduler.Service {
	return scheduler.NewService(cfg.Schedules, a)
}
