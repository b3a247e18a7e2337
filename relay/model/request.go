package model

import "github.com/go-playground/validator/v10"

// requestValidator checks the same binding tags gin enforces on bound
// requests; the relay path reads bodies reusably and validates explicitly.
var requestValidator = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

// GeneralChatRequest is the normalized OpenAI-style chat completion request.
// SessionID is gateway-private: consumed for billing correlation and
// stripped before the request goes upstream.
type GeneralChatRequest struct {
	Model            string    `json:"model" binding:"required"`
	Messages         []Message `json:"messages" binding:"required,min=1"`
	Temperature      *float64  `json:"temperature,omitempty"`
	TopP             *float64  `json:"top_p,omitempty"`
	MaxTokens        *int      `json:"max_tokens,omitempty"`
	Stream           bool      `json:"stream,omitempty"`
	Tools            any       `json:"tools,omitempty"`
	ToolChoice       any       `json:"tool_choice,omitempty"`
	Stop             any       `json:"stop,omitempty"`
	PresencePenalty  *float64  `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64  `json:"frequency_penalty,omitempty"`
	User             string    `json:"user,omitempty"`
	SessionID        string    `json:"session_id,omitempty"`
}

// Validate enforces the request's binding tags.
func (r *GeneralChatRequest) Validate() error {
	return requestValidator.Struct(r)
}

// StopSequences normalizes the stop field to a string slice. OpenAI accepts
// a single string or an array; Anthropic only accepts the array form.
func (r *GeneralChatRequest) StopSequences() []string {
	switch stop := r.Stop.(type) {
	case string:
		if stop == "" {
			return nil
		}
		return []string{stop}
	case []any:
		var sequences []string
		for _, raw := range stop {
			if s, ok := raw.(string); ok {
				sequences = append(sequences, s)
			}
		}
		return sequences
	case []string:
		return stop
	default:
		return nil
	}
}
