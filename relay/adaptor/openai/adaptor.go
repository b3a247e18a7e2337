// Package openai relays requests to OpenAI-compatible upstreams: OpenAI
// itself, the aggregator, xAI, and Groq. The wire shape passes through
// unchanged apart from model rewriting and gateway-private field stripping.
package openai

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

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
	return strings.TrimSuffix(m.Binding.BaseURL, "/") + "/chat/completions", nil
}

func (a *Adaptor) SetupRequestHeader(c *gin.Context, req *http.Request, m *meta.Meta) error {
	req.Header.Set("Content-Type", "application/json")
	if m.IsStream {
		req.Header.Set("Accept", "text/event-stream")
	}
	m.Binding.ApplyAuth(req)
	return nil
}

// ConvertRequest passes the body through, rewriting the model to the
// provider-local id and stripping session_id.
func (a *Adaptor) ConvertRequest(c *gin.Context, request *relaymodel.GeneralChatRequest, m *meta.Meta) (any, error) {
	converted := *request
	converted.Model = m.ActualModel
	converted.SessionID = ""
	return &converted, nil
}

func (a *Adaptor) DoRequest(c *gin.Context, m *meta.Meta, requestBody io.Reader) (*http.Response, error) {
	return adaptor.DoRequestHelper(a, c, m, requestBody)
}

func (a *Adaptor) DoResponse(c *gin.Context, resp *http.Response, m *meta.Meta) (*relaymodel.Usage, *relaymodel.ErrorWithStatusCode) {
	if m.IsStream {
		return StreamHandler(c, resp)
	}
	return Handler(c, resp)
}

// Handler relays a non-streaming upstream body verbatim and extracts the
// usage block for billing. Missing usage bills as zeros.
func Handler(c *gin.Context, resp *http.Response) (*relaymodel.Usage, *relaymodel.ErrorWithStatusCode) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, relaymodel.NewError(http.StatusBadGateway, "read upstream response: %v", err)
	}

	var parsed struct {
		Usage relaymodel.Usage `json:"usage"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, relaymodel.NewError(http.StatusBadGateway, "parse upstream response: %v", err)
	}
	if parsed.Usage.TotalTokens == 0 {
		parsed.Usage.TotalTokens = parsed.Usage.PromptTokens + parsed.Usage.CompletionTokens
	}

	c.Writer.Header().Set("Content-Type", "application/json")
	c.Writer.WriteHeader(resp.StatusCode)
	if _, err := c.Writer.Write(body); err != nil {
		return &parsed.Usage, relaymodel.NewError(http.StatusInternalServerError, "write client response: %v", err)
	}

	return &parsed.Usage, nil
}
