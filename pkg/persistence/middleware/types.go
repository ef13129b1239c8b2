// Package middleware wraps schema stores with extra behavior.
package middleware

import "github.com/aretw0/jsonpattern/pkg/ports"

// Middleware allows wrapping a SchemaStore to add behavior.
type Middleware func(ports.SchemaStore) ports.SchemaStore

// Chain applies mws so that the first one is the outermost.
func Chain(store ports.SchemaStore, mws ...Middleware) ports.SchemaStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
