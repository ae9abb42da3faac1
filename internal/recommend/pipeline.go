package recommend

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/flowfind/flowfind/internal/catalog"
)

// Sentinel errors for the pipeline stages. Callers classify failures with
// errors.Is to choose an HTTP status or a log level.
var (
	ErrEmptyQuery = errors.New("query is empty")
	ErrEmbedding  = errors.New("embedding query")
	ErrSearch     = errors.New("searching catalog")
	ErrGeneration = errors.New("generating answer")
)

// errStreamStopped signals that the stream consumer stopped iterating. It
// never escapes AnswerStream.
var errStreamStopped = errors.New("stream consumer stopped")

// Defaults applied when Config leaves the tunables zero.
const (
	DefaultTopK          = 5
	DefaultMinSimilarity = 0.1
)

// Embedder turns text into a query vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher retrieves the catalog entries most similar to a query vector.
type Searcher interface {
	SimilaritySearch(ctx context.Context, vec []float32, minSimilarity float32, limit int) ([]catalog.SearchResult, error)
}

// Generator produces model text for a prompt, collected or streamed.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateStream(ctx context.Context, prompt string, fn func(ctx context.Context, fragment string) error) error
}

// Config carries the dependencies and tunables for a Pipeline.
type Config struct {
	Embedder  Embedder
	Searcher  Searcher
	Generator Generator
	Logger    *slog.Logger

	// TopK caps how many catalog entries ground an answer. Defaults to
	// DefaultTopK.
	TopK int
	// MinSimilarity excludes entries at or below this cosine similarity.
	// Defaults to DefaultMinSimilarity.
	MinSimilarity float32
}

// Pipeline answers catalog queries with retrieval-grounded model responses.
//
// Pipeline is safe for concurrent use by multiple goroutines.
type Pipeline struct {
	embedder      Embedder
	searcher      Searcher
	generator     Generator
	logger        *slog.Logger
	topK          int
	minSimilarity float32
}

// New creates a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if cfg.Searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.MinSimilarity <= 0 {
		cfg.MinSimilarity = DefaultMinSimilarity
	}
	return &Pipeline{
		embedder:      cfg.Embedder,
		searcher:      cfg.Searcher,
		generator:     cfg.Generator,
		logger:        cfg.Logger,
		topK:          cfg.TopK,
		minSimilarity: cfg.MinSimilarity,
	}, nil
}

// Answer runs the full pipeline and returns the collected response.
func (p *Pipeline) Answer(ctx context.Context, query string) (*Recommendation, error) {
	docs, prompt, err := p.retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	text, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	return &Recommendation{Result: text, SourceDocuments: docs}, nil
}

// AnswerStream runs the pipeline and yields the response incrementally.
//
// A successful stream yields exactly one EventSourceDocuments event, then
// zero or more EventContent events in generation order, then one EventDone
// event. On failure the error is yielded in place of further events; a
// failed stream never yields EventDone. Stopping iteration early aborts the
// underlying generation.
func (p *Pipeline) AnswerStream(ctx context.Context, query string) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		docs, prompt, err := p.retrieve(ctx, query)
		if err != nil {
			yield(Event{}, err)
			return
		}

		if !yield(Event{Type: EventSourceDocuments, Documents: docs}, nil) {
			return
		}

		err = p.generator.GenerateStream(ctx, prompt, func(ctx context.Context, fragment string) error {
			if !yield(Event{Type: EventContent, Fragment: fragment}, nil) {
				return errStreamStopped
			}
			return nil
		})
		if errors.Is(err, errStreamStopped) {
			return
		}
		if err != nil {
			yield(Event{}, fmt.Errorf("%w: %w", ErrGeneration, err))
			return
		}

		yield(Event{Type: EventDone}, nil)
	}
}

// retrieve performs the shared front half of both answer forms: validate the
// query, embed it, search the catalog, and build the grounding prompt.
func (p *Pipeline) retrieve(ctx context.Context, query string) ([]Document, string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, "", ErrEmptyQuery
	}

	vec, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrEmbedding, err)
	}

	results, err := p.searcher.SimilaritySearch(ctx, vec, p.minSimilarity, p.topK)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrSearch, err)
	}

	p.logger.Debug("retrieved workflows", "query_len", len(query), "results", len(results))

	docs := make([]Document, 0, len(results))
	for _, r := range results {
		docs = append(docs, Document{
			Name:        r.Name,
			Description: r.Description,
			Link:        r.Link,
			Similarity:  r.Similarity,
		})
	}

	return docs, buildPrompt(query, results), nil
}
