// Package order stores fixed-width order records in slab slots.
//
// Scalar fields are written inline. Variable-length fields are interned in a
// pool and only their keys are written inline, encoded as key+1 so that a
// zeroed slot reads as "no value" for every pooled field.
//
// A View is a rebindable cursor over one slot. It owns nothing and must not
// be retained across calls that rebind it.
package order
