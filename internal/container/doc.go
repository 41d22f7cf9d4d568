// Package container implements container data structures.
package container
