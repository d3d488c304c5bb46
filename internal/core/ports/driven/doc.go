// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CorpusScanner: Lists the source documents of a rebuild
//   - TextExtractor: Produces per-page text from a document
//   - PostProcessorPipeline: Turns page text into chunks
//   - EmbeddingService: Generates vector embeddings
//   - IndexStore: Owns the vector index and its position-aligned chunk table
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PageRenderer and OCREngine: Without them, pages lacking a text layer
//     are skipped instead of recognised.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
