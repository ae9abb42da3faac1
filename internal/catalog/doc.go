// Package catalog persists workflow templates with vector embeddings and
// exposes similarity search over them.
//
// The store is backed by PostgreSQL + pgvector. Each catalog entry is a
// WorkflowRecord keyed by its name; the name is the natural dedup key used by
// the ingestion pipeline, enforced with a unique index. Records are inserted
// once and never mutated in place.
//
// Similarity search ranks entries by cosine similarity between the stored
// embedding and a query vector, returning only entries above a caller-supplied
// similarity floor. Ordering ties are resolved by the database's native sort,
// which this package treats as authoritative.
package catalog
