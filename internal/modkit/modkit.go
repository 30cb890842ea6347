// Package modkit provides building blocks for the API modules
package modkit

import (
	"net/http"

	"remindme/internal/modkit/httpkit"
	"remindme/internal/modkit/module"
	str "remindme/internal/platform/strings"
)

// Module is the surface every API module exposes
type Module = module.Module

// Option mutates build configuration for a module
type Option func(*Built)

// Built is what the options resolve to
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
}

// WithName sets a module name used in logs
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPrefix mounts a module under a path prefix
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.Prefix = prefix }
}

// WithMiddlewares attaches per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// Build applies opts in order, later options win
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Mount opens the module scope under Prefix, applies Mw and hands the scoped
// router to register. Name and Prefix must be set
func (b Built) Mount(r httpkit.Router, register func(httpkit.Router)) {
	str.MustString(b.Name, "module name")
	r.Route(str.MustPrefix(b.Prefix), func(rr httpkit.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		register(rr)
	})
}
