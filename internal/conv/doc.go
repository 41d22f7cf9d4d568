// Package conv provides bounds-checked integer conversions for sizes that
// come from configuration.
package conv
