package recommend

// EventType identifies a stream event kind. The values double as the wire
// type tags emitted over SSE.
type EventType string

const (
	// EventSourceDocuments carries the retrieved catalog entries. Always the
	// first event of a stream.
	EventSourceDocuments EventType = "source_documents"
	// EventContent carries one response fragment. Zero or more per stream, in
	// generation order.
	EventContent EventType = "content"
	// EventDone marks a successfully completed stream. Always last, never
	// emitted after a failure.
	EventDone EventType = "done"
)

// Event is one element of a recommendation stream.
type Event struct {
	Type      EventType
	Documents []Document // set when Type is EventSourceDocuments
	Fragment  string     // set when Type is EventContent
}

// Document is a retrieved catalog entry as delivered to clients. The link is
// included so clients can render it even though the model is told to keep
// URLs out of its prose.
type Document struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Link        string  `json:"link"`
	Similarity  float32 `json:"similarity"`
}

// Recommendation is the collected (non-streaming) form of an answer.
type Recommendation struct {
	Result          string     `json:"result"`
	SourceDocuments []Document `json:"source_documents"`
}
