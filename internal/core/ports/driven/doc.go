// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: Durable document/section/chunk persistence
//   - VectorIndex: Vector storage and top-K cosine search
//   - EmbeddingService: Text to vector conversion
//   - ContentCache: Content-addressed artifact cache
//   - PageExtractor: Page text extraction from source files
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
