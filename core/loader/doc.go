// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps the registry: Register adds a feature and LoadAll loads the
// enabled ones in registration order.
package loader
