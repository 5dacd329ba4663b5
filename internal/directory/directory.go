// Package directory holds the static app registry: which applications
// exist and which intents each can fulfil.
package directory

import (
	"github.com/bhushanpoojary/findesktop/internal/schema"
)

// Directory is the read-only app registry. It is built once from config
// and shared by reference; lookups preserve registration order, which is
// the tiebreak order for intent resolution.
type Directory struct {
	apps []schema.AppDefinition
}

// New builds a Directory from the given definitions. The slice is copied
// so later mutation of the caller's slice cannot change the registry.
func New(apps []schema.AppDefinition) *Directory {
	cp := make([]schema.AppDefinition, len(apps))
	copy(cp, apps)
	return &Directory{apps: cp}
}

// Apps returns all registered definitions in registration order.
func (d *Directory) Apps() []schema.AppDefinition {
	out := make([]schema.AppDefinition, len(d.apps))
	copy(out, d.apps)
	return out
}

// AppsForIntent returns every app whose Intents list contains intent,
// in registration order. Unknown intents yield an empty slice.
func (d *Directory) AppsForIntent(intent string) []schema.AppDefinition {
	var out []schema.AppDefinition
	for _, app := range d.apps {
		if app.HandlesIntent(intent) {
			out = append(out, app)
		}
	}
	return out
}

// DefaultAppForIntent returns the first app declaring intent in its
// DefaultForIntents list.
func (d *Directory) DefaultAppForIntent(intent string) (schema.AppDefinition, bool) {
	for _, app := range d.apps {
		if app.DefaultForIntent(intent) {
			return app, true
		}
	}
	return schema.AppDefinition{}, false
}

// AppByID returns the app with the given id.
func (d *Directory) AppByID(id string) (schema.AppDefinition, bool) {
	for _, app := range d.apps {
		if app.ID == id {
			return app, true
		}
	}
	return schema.AppDefinition{}, false
}
