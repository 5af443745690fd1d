// Package middleware decorates report stores with behaviour such as
// encryption at rest and redaction of object names.
package middleware

import "github.com/aretw0/wayfinder/pkg/ports"

// Middleware allows wrapping a ReportStore to add behavior.
type Middleware func(ports.ReportStore) ports.ReportStore

// Wrap applies mws to store. The first middleware is the outermost one, so
// it sees a report first on Save and last on Load.
func Wrap(store ports.ReportStore, mws ...Middleware) ports.ReportStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
