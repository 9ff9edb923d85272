package middleware

import "github.com/aretw0/patrol/pkg/ports"

// Middleware allows wrapping a ReportStore to add behavior.
type Middleware func(ports.ReportStore) ports.ReportStore

// Chain applies middlewares so that the first one is outermost.
func Chain(store ports.ReportStore, mws ...Middleware) ports.ReportStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
