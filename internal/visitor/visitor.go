// Package visitor resolves how the landing page greets someone.
package visitor

import (
	"context"
	"strings"
	"time"

	"github.com/Clawzd/portfolio/internal/storage"
)

// Name returns the name left through the contact form, falling back to the
// one typed on the landing page. Empty when neither exists.
func Name(ctx context.Context, store storage.Store) string {
	if name, ok := storage.Lookup(ctx, store, storage.KeyVisitorName); ok && name != "" {
		return name
	}
	if name, ok := storage.Lookup(ctx, store, storage.KeyPortfolioUser); ok && name != "" {
		return name
	}
	return ""
}

// SaveManualName stores a name typed on the landing page. Blank input is
// ignored and reported as false.
func SaveManualName(ctx context.Context, store storage.Store, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	storage.Put(ctx, store, storage.KeyPortfolioUser, name)
	return true
}

// Greeting depends on the hour of t.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Good Morning"
	case h < 18:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}

// Welcome is the headline of the landing page.
func Welcome(name string, t time.Time) string {
	if name != "" {
		return "Welcome back, " + name + "!"
	}
	return Greeting(t) + "!"
}
