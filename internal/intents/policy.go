package intents

import (
	"context"

	"github.com/bhushanpoojary/findesktop/internal/directory"
	"github.com/bhushanpoojary/findesktop/internal/schema"
)

// ResolutionPolicy picks one app id when an intent has multiple
// candidates. Implementations may block on user input; a dismissed
// picker returns ErrUserCancelled.
type ResolutionPolicy interface {
	Resolve(ctx context.Context, intent string, candidates []schema.AppDefinition) (string, error)
}

// PolicyFunc adapts a function to ResolutionPolicy.
type PolicyFunc func(ctx context.Context, intent string, candidates []schema.AppDefinition) (string, error)

func (f PolicyFunc) Resolve(ctx context.Context, intent string, candidates []schema.AppDefinition) (string, error) {
	return f(ctx, intent, candidates)
}

// DirectoryPolicy is the no-UI default: the directory-declared default
// app when one exists, else the first candidate in directory order.
// Deterministic, never random.
type DirectoryPolicy struct {
	dir *directory.Directory
}

// NewDirectoryPolicy creates the default policy over dir.
func NewDirectoryPolicy(dir *directory.Directory) DirectoryPolicy {
	return DirectoryPolicy{dir: dir}
}

func (p DirectoryPolicy) Resolve(_ context.Context, intent string, candidates []schema.AppDefinition) (string, error) {
	if app, ok := p.dir.DefaultAppForIntent(intent); ok {
		return app.ID, nil
	}
	return candidates[0].ID, nil
}
