// Package generics holds the specialization tables that bind a blueprint's
// generic parameters to concrete port types.
//
// An operator owns one mutable Table created from the parameters its blueprint
// declares. The blueprint's own delegates use a read-only Placeholder table:
// they describe the blueprint's shape, never an instantiation.
package generics
