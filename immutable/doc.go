// Package immutable provides the byte types shared between callers and the
// interning pool.
//
// Interned content is addressed by its hash, so it must never change after
// it has been pooled. Bytes enforces this in the type system: it is backed by
// a Go string and has no mutating methods. Builder is the owned, mutable
// counterpart used only while a value is being assembled; Freeze hands its
// content over as Bytes without copying.
//
//	var b immutable.Builder
//	b.WriteString("Fishery")
//	b.WriteByte(' ')
//	b.WriteString("Road")
//	street := b.Freeze()
//
// Bytes values are cheap to pass by value and safe to retain.
package immutable
