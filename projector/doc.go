// Package projector is the runtime support of generated projections.
//
// A projection target declares its source with a blank marker field:
//
//	type OrderView struct {
//		_ projector.From[store.Order]
//
//		ID     string
//		Status string
//	}
//
// or, when generated code needs a context value for conversion methods:
//
//	type OrderView struct {
//		_ projector.FromContext[store.Order, *Formatter]
//		...
//	}
//
// Everything else in this package is called from generated code: nil-safe
// pointer helpers, numeric casts with fallbacks, primitive conversions and
// sequence helpers.
package projector
