// Package llm adapts Genkit's Google AI provider to the narrow embedding and
// generation interfaces consumed by the recommend and ingest pipelines.
//
// The pipelines depend only on small consumer-defined interfaces; this package
// supplies the production implementations. Tests substitute in-package fakes
// instead of going through Genkit.
package llm
