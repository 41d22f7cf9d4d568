// Package hash provides the content hash functions used to address pooled
// byte sequences.
//
// # Functions
//
// All hash functions take the content as a string (the pool keeps interned
// content as immutable strings) and return 32 bits:
//
//   - XXHash: xxhash64 folded to 32 bits. The default.
//   - CRC32C: hardware accelerated CRC32-Castagnoli on x86 (SSE4.2) and ARM.
//   - Polynomial: the classic 31-multiplier array hash. It is weak on
//     purpose and mostly useful in tests, where known collisions such as
//     {1, 0} and {0, 31} exercise the probe path.
//
// # Probe start
//
// Fold31 mixes the high half into the low half and clears the sign bit, so
// the result can be reduced modulo a table capacity without going negative:
//
//	start := hash.Fold31(hash.XXHash(s)) % capacity
package hash
