package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"
)

// Generator produces text from prompts via Genkit, either collected or as an
// incremental stream of fragments.
type Generator struct {
	g           *genkit.Genkit
	modelName   string // Provider-qualified model name (e.g. "googleai/gemini-2.5-flash")
	temperature float32
}

// NewGenerator creates a Generator for the given model.
// The model name is qualified with the googleai provider prefix if the caller
// passed a bare model identifier.
func NewGenerator(g *genkit.Genkit, model string, temperature float32) *Generator {
	return &Generator{
		g:           g,
		modelName:   qualifyModelName(model),
		temperature: temperature,
	}
}

// Generate runs one blocking generation and returns the full response text.
func (x *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := genkit.Generate(ctx, x.g, x.options(prompt)...)
	if err != nil {
		return "", fmt.Errorf("generating response: %w", err)
	}
	return resp.Text(), nil
}

// GenerateStream runs a streaming generation, invoking fn once per text
// fragment in arrival order. An error returned by fn aborts the stream and is
// propagated to the caller.
func (x *Generator) GenerateStream(ctx context.Context, prompt string, fn func(ctx context.Context, fragment string) error) error {
	opts := append(x.options(prompt),
		ai.WithStreaming(func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
			for _, part := range chunk.Content {
				if part.Text == "" {
					continue
				}
				if err := fn(ctx, part.Text); err != nil {
					return err
				}
			}
			return nil
		}))

	if _, err := genkit.Generate(ctx, x.g, opts...); err != nil {
		return fmt.Errorf("streaming generation: %w", err)
	}
	return nil
}

func (x *Generator) options(prompt string) []ai.GenerateOption {
	temp := x.temperature
	return []ai.GenerateOption{
		ai.WithModelName(x.modelName),
		ai.WithPrompt(prompt),
		ai.WithConfig(&genai.GenerateContentConfig{Temperature: &temp}),
	}
}

func qualifyModelName(model string) string {
	if strings.Contains(model, "/") {
		return model
	}
	return "googleai/" + model
}
