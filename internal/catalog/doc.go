// Package catalog models the registered-pan catalog for a restaurant/date
// scope and resolves detector identifiers against it.
//
// Catalog rows arrive from the backend with loosely typed fields: the
// canonical id may be a JSON string or number, the shape enum may be an
// integer or an empty string, and physical dimensions may sit at the top
// level, under a dimensions object, or inside a serialized Data blob. All
// identifier comparison happens on coerced strings so the looseness never
// leaks past this package.
package catalog
