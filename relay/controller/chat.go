// Package controller orchestrates one chat-completion relay: resolve the
// provider, gate on credits, execute upstream, and settle billing.
package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/kortix-ai/gateway/billing"
	"github.com/kortix-ai/gateway/common"
	"github.com/kortix-ai/gateway/common/ctxkey"
	"github.com/kortix-ai/gateway/common/metrics"
	"github.com/kortix-ai/gateway/relay/adaptor"
	"github.com/kortix-ai/gateway/relay/adaptor/anthropic"
	"github.com/kortix-ai/gateway/relay/adaptor/openai"
	"github.com/kortix-ai/gateway/relay/meta"
	relaymodel "github.com/kortix-ai/gateway/relay/model"
	"github.com/kortix-ai/gateway/relay/provider"
)

// ProviderHeader identifies the upstream provider that actually served the
// request.
const ProviderHeader = "X-Kortix-Provider"

var (
	registry   *provider.Registry
	billingSvc *billing.Service
)

// Setup wires the controller's collaborators. Call once at startup, before
// the router starts serving.
func Setup(r *provider.Registry, b *billing.Service) {
	registry = r
	billingSvc = b
}

// adaptorFor selects the adaptor matching a binding's dialect.
func adaptorFor(binding *provider.Binding) adaptor.Adaptor {
	if binding.Dialect == provider.DialectAnthropic {
		return &anthropic.Adaptor{}
	}
	return &openai.Adaptor{}
}

// RelayChatHelper handles POST /v1/chat/completions. The returned error, if
// any, has not been written to the client yet; the caller maps it onto the
// error envelope. A nil return means the response (or stream) is complete.
func RelayChatHelper(c *gin.Context) *relaymodel.ErrorWithStatusCode {
	lg := gmw.GetLogger(c)
	ctx := gmw.Ctx(c)

	request := &relaymodel.GeneralChatRequest{}
	if err := common.UnmarshalBodyReusable(c, request); err != nil {
		return relaymodel.NewError(http.StatusBadRequest, "invalid request: %v", err)
	}
	if err := request.Validate(); err != nil {
		return relaymodel.NewError(http.StatusBadRequest, "invalid request: %v", err)
	}

	accountID := c.GetString(ctxkey.AccountID)
	sessionID := request.SessionID

	resolution, err := registry.Resolve(request.Model)
	if err != nil {
		return relaymodel.NewError(http.StatusBadGateway, "no provider available: %v", err)
	}
	binding := resolution.Binding

	check := billingSvc.CheckCredits(ctx, accountID, billing.DefaultMinimumCredits)
	if !check.HasCredits {
		message := check.Message
		if message == "" {
			message = "Insufficient credits"
		}
		return relaymodel.NewError(http.StatusPaymentRequired, "%s", message)
	}

	m := &meta.Meta{
		Binding:        binding,
		ActualModel:    resolution.Model,
		RequestedModel: request.Model,
		AccountID:      accountID,
		SessionID:      sessionID,
		IsStream:       request.Stream,
	}
	a := adaptorFor(binding)

	converted, err := a.ConvertRequest(c, request, m)
	if err != nil {
		return relaymodel.NewError(http.StatusBadRequest, "convert request: %v", err)
	}
	body, err := json.Marshal(converted)
	if err != nil {
		return relaymodel.NewError(http.StatusInternalServerError, "marshal upstream request: %v", err)
	}

	lg.Debug("relaying chat completion",
		zap.String("provider", binding.Name),
		zap.String("requested_model", request.Model),
		zap.String("actual_model", resolution.Model),
		zap.Bool("stream", request.Stream))

	start := time.Now()
	resp, err := a.DoRequest(c, m, bytes.NewReader(body))
	if err != nil {
		metrics.RecordRelayRequest(binding.Name, request.Stream, start, false)
		return relaymodel.NewError(http.StatusBadGateway, "upstream request failed: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordRelayRequest(binding.Name, request.Stream, start, false)
		return adaptor.RelayErrorHandler(resp)
	}

	c.Header(ProviderHeader, binding.Name)

	usage, relayErr := a.DoResponse(c, resp, m)
	if relayErr != nil {
		metrics.RecordRelayRequest(binding.Name, request.Stream, start, false)
		return relayErr
	}
	metrics.RecordRelayRequest(binding.Name, request.Stream, start, true)

	if usage != nil {
		metrics.RecordTokens(binding.Name, usage.PromptTokens, usage.CompletionTokens)
		settleLLMDebit(ctx, m, usage)
	}
	return nil
}

// settleLLMDebit computes the call's cost and debits it. It runs on a
// context detached from the client connection: the stream may already be
// closed (or cancelled) by the time billing settles, and a debit must not
// be lost to that. Debit failure is logged, never surfaced.
func settleLLMDebit(ctx context.Context, m *meta.Meta, usage *relaymodel.Usage) {
	cost := provider.CalculateLLMCost(m.Binding.Name, m.RequestedModel, *usage)
	// Fail-open on billing: the outcome never affects the user's response.
	// The service logs failures.
	_ = billingSvc.DeductLLMCredits(
		context.WithoutCancel(ctx),
		m.AccountID, cost, m.RequestedModel,
		usage.PromptTokens, usage.CompletionTokens, m.SessionID)
}
