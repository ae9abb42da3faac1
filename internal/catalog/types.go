package catalog

// VectorDimension is the embedding dimension stored in the workflows table.
// gemini-embedding-001 supports truncation to 768 dimensions via
// OutputDimensionality; the pgvector column is declared vector(768) to match.
const VectorDimension int32 = 768

// WorkflowRecord is a catalog entry for one workflow template.
type WorkflowRecord struct {
	Name        string    // Short title; unique within the catalog
	Description string    // Free text; the only content that is embedded and searched
	Link        string    // Reference URL to the full workflow definition; opaque to retrieval
	Embedding   []float32 // Derived from Description by the embedding provider
}

// SearchResult is a WorkflowRecord ranked by similarity to a query vector.
type SearchResult struct {
	WorkflowRecord
	Similarity float32 // Cosine similarity score (0-1)
}
