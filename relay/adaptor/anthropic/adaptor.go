package anthropic

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/kortix-ai/gateway/common/helper"
	"github.com/kortix-ai/gateway/relay/adaptor"
	"github.com/kortix-ai/gateway/relay/meta"
	relaymodel "github.com/kortix-ai/gateway/relay/model"
)

type Adaptor struct{}

var _ adaptor.Adaptor = (*Adaptor)(nil)

func (a *Adaptor) GetRequestURL(m *meta.Meta) (string, error) {
	if m.Binding == nil || m.Binding.BaseURL == "" {
		return "", errors.New("binding has no base url")
	}
	return strings.TrimSuffix(m.Binding.BaseURL, "/") + "/v1/messages", nil
}

func (a *Adaptor) SetupRequestHeader(c *gin.Context, req *http.Request, m *meta.Meta) error {
	req.Header.Set("Content-Type", "application/json")
	if m.IsStream {
		req.Header.Set("Accept", "text/event-stream")
	}
	// x-api-key plus anthropic-version, not bearer.
	m.Binding.ApplyAuth(req)
	return nil
}

// ConvertRequest maps the OpenAI shape onto the Messages API. System
// messages are joined into the top-level system field; tool-role turns fold
// into user content; the required max_tokens defaults when unset.
func (a *Adaptor) ConvertRequest(c *gin.Context, request *relaymodel.GeneralChatRequest, m *meta.Meta) (any, error) {
	converted := Request{
		Model:         m.ActualModel,
		MaxTokens:     DefaultMaxTokens,
		Temperature:   request.Temperature,
		TopP:          request.TopP,
		StopSequences: request.StopSequences(),
		Stream:        request.Stream,
	}
	if request.MaxTokens != nil && *request.MaxTokens > 0 {
		converted.MaxTokens = *request.MaxTokens
	}

	var systemParts []string
	for _, msg := range request.Messages {
		switch msg.Role {
		case relaymodel.RoleSystem:
			systemParts = append(systemParts, msg.StringContent())
		case relaymodel.RoleAssistant:
			converted.Messages = append(converted.Messages, Message{
				Role:    relaymodel.RoleAssistant,
				Content: msg.StringContent(),
			})
		default:
			// user and tool roles both become user turns.
			converted.Messages = append(converted.Messages, Message{
				Role:    relaymodel.RoleUser,
				Content: msg.StringContent(),
			})
		}
	}
	converted.System = strings.Join(systemParts, "\n")

	if len(converted.Messages) == 0 {
		return nil, errors.New("no user or assistant messages after conversion")
	}
	return &converted, nil
}

func (a *Adaptor) DoRequest(c *gin.Context, m *meta.Meta, requestBody io.Reader) (*http.Response, error) {
	return adaptor.DoRequestHelper(a, c, m, requestBody)
}

func (a *Adaptor) DoResponse(c *gin.Context, resp *http.Response, m *meta.Meta) (*relaymodel.Usage, *relaymodel.ErrorWithStatusCode) {
	if m.IsStream {
		return StreamHandler(c, resp, m)
	}
	return Handler(c, resp, m)
}

// Handler translates a non-streaming Messages response into the OpenAI
// chat-completion shape with a single choice.
func Handler(c *gin.Context, resp *http.Response, m *meta.Meta) (*relaymodel.Usage, *relaymodel.ErrorWithStatusCode) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, relaymodel.NewError(http.StatusBadGateway, "read upstream response: %v", err)
	}

	var upstream Response
	if err := json.Unmarshal(body, &upstream); err != nil {
		return nil, relaymodel.NewError(http.StatusBadGateway, "parse upstream response: %v", err)
	}

	translated := TranslateResponse(&upstream, m.RequestedModel)
	usage := translated.Usage

	c.JSON(http.StatusOK, translated)
	return &usage, nil
}

// TranslateResponse converts a Messages response body into the OpenAI
// chat-completion shape.
func TranslateResponse(upstream *Response, modelName string) *relaymodel.ChatCompletionResponse {
	var text string
	if len(upstream.Content) > 0 {
		text = upstream.Content[0].Text
	}
	finishReason := TranslateStopReason(upstream.StopReason)

	id := upstream.ID
	if id == "" {
		id = "chatcmpl-" + helper.GenRequestID()
	}

	return &relaymodel.ChatCompletionResponse{
		ID:      id,
		Object:  relaymodel.ObjectChatCompletion,
		Created: helper.GetTimestamp(),
		Model:   modelName,
		Choices: []relaymodel.Choice{{
			Index: 0,
			Message: relaymodel.Message{
				Role:    relaymodel.RoleAssistant,
				Content: text,
			},
			FinishReason: &finishReason,
		}},
		Usage: relaymodel.Usage{
			PromptTokens:     upstream.Usage.InputTokens,
			CompletionTokens: upstream.Usage.OutputTokens,
			TotalTokens:      upstream.Usage.InputTokens + upstream.Usage.OutputTokens,
		},
	}
}
