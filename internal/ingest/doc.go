// Package ingest loads workflow catalog entries from CSV and writes them to
// the catalog store, embedding each description on the way in.
//
// Ingestion is idempotent: names already present in the store are skipped
// before any embedding work happens, so re-running after a partial failure
// only processes the remainder. Individual record failures are counted, not
// fatal.
package ingest
