// Package driven defines the interfaces core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces; adapters implement them.
//
// # Required Interfaces
//
//   - Tokenizer: subword token counting/encoding, shared by every chunker.
//   - Chunker: the common strategy contract all chunker implementations share.
//
// # Optional Interfaces
//
//   - Sink: forwards produced chunks to an embedding service. Can be a
//     no-op implementation when no embedding service is configured; the
//     job processor degrades gracefully either way.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or chunker implementation package
package driven
