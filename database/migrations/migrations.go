// Package migrations holds the schema migrations for the SQL store drivers.
// Each migration registers itself from init(); cmd/dinehub imports this
// package for that side effect.
package migrations
