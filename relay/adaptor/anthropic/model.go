// Package anthropic translates between the gateway's OpenAI-compatible
// shape and the Anthropic Messages API, for both single responses and
// event-typed SSE streams.
package anthropic

// DefaultMaxTokens is supplied when the client sets no max_tokens: the
// Messages API requires the field, the OpenAI shape does not.
const DefaultMaxTokens = 4096

// Request is the Messages API request body.
type Request struct {
	Model         string    `json:"model"`
	System        string    `json:"system,omitempty"`
	Messages      []Message `json:"messages"`
	MaxTokens     int       `json:"max_tokens"`
	Temperature   *float64  `json:"temperature,omitempty"`
	TopP          *float64  `json:"top_p,omitempty"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
	Stream        bool      `json:"stream,omitempty"`
}

// Message is one Messages API turn; role is user or assistant only.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response is the non-streaming Messages API response body.
type Response struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

// ContentBlock is one typed content element; this gateway consumes text blocks.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Usage is Anthropic's token accounting. Totals are derived.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Stream event types.
const (
	EventMessageStart      = "message_start"
	EventContentBlockDelta = "content_block_delta"
	EventMessageDelta      = "message_delta"
	EventMessageStop       = "message_stop"
	EventError             = "error"
)

// StreamResponse is one event of the Messages SSE stream. Fields are
// populated per event type.
type StreamResponse struct {
	Type      string       `json:"type"`
	Message   *Response    `json:"message,omitempty"`
	Index     int          `json:"index,omitempty"`
	Delta     *StreamDelta `json:"delta,omitempty"`
	Usage     *Usage       `json:"usage,omitempty"`
	Error     *Error       `json:"error,omitempty"`
	RequestId string       `json:"request_id,omitempty"`
}

// StreamDelta carries the incremental payload of delta events.
type StreamDelta struct {
	Type       string  `json:"type,omitempty"`
	Text       string  `json:"text,omitempty"`
	StopReason *string `json:"stop_reason,omitempty"`
}

// Error is the payload of an error stream event.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// TranslateStopReason maps Anthropic stop reasons to OpenAI finish reasons.
// end_turn becomes stop; everything else passes through raw.
func TranslateStopReason(reason string) string {
	if reason == "end_turn" {
		return "stop"
	}
	return reason
}
