// Package recommend implements the retrieval-augmented recommendation
// pipeline: embed the query, find the most similar catalog entries, and ask a
// language model to explain which workflows fit and why.
//
// The pipeline depends on small consumer-defined interfaces (Embedder,
// Searcher, Generator) so it can be exercised without a database or a model
// provider. Answers are available in two forms: Answer collects the full
// response, AnswerStream yields it incrementally as a sequence of events with
// a fixed ordering (source documents first, content fragments next, a done
// marker last).
package recommend
