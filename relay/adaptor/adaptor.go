// Package adaptor defines the provider adaptor contract and shared request
// plumbing. Each upstream dialect implements Adaptor; the controller stays
// dialect-agnostic.
package adaptor

import (
	"io"
	"net/http"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/gin-gonic/gin"

	"github.com/kortix-ai/gateway/common/client"
	"github.com/kortix-ai/gateway/relay/meta"
	relaymodel "github.com/kortix-ai/gateway/relay/model"
)

// Adaptor translates between the gateway's normalized shape and one
// provider dialect.
type Adaptor interface {
	// GetRequestURL returns the absolute upstream endpoint for this request.
	GetRequestURL(m *meta.Meta) (string, error)
	// SetupRequestHeader sets authentication and content headers on req.
	SetupRequestHeader(c *gin.Context, req *http.Request, m *meta.Meta) error
	// ConvertRequest transforms the normalized request into the provider's
	// wire shape. The returned value is marshaled to JSON as the body.
	ConvertRequest(c *gin.Context, request *relaymodel.GeneralChatRequest, m *meta.Meta) (any, error)
	// DoRequest sends the request upstream. Cancellation follows the
	// client's context; there is no gateway-imposed timeout.
	DoRequest(c *gin.Context, m *meta.Meta, requestBody io.Reader) (*http.Response, error)
	// DoResponse consumes a 2xx upstream response: it writes the client
	// response (translating and streaming as needed) and returns the token
	// usage for billing.
	DoResponse(c *gin.Context, resp *http.Response, m *meta.Meta) (*relaymodel.Usage, *relaymodel.ErrorWithStatusCode)
}

// DoRequestHelper performs the shared request construction and dispatch for
// all adaptors.
func DoRequestHelper(a Adaptor, c *gin.Context, m *meta.Meta, requestBody io.Reader) (*http.Response, error) {
	fullRequestURL, err := a.GetRequestURL(m)
	if err != nil {
		return nil, errors.Wrap(err, "get request url")
	}

	req, err := http.NewRequestWithContext(gmw.Ctx(c), http.MethodPost, fullRequestURL, requestBody)
	if err != nil {
		return nil, errors.Wrap(err, "new upstream request")
	}
	if err := a.SetupRequestHeader(c, req, m); err != nil {
		return nil, errors.Wrap(err, "setup request header")
	}

	resp, err := client.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do upstream request")
	}
	return resp, nil
}

// UpstreamErrorSnippetLimit bounds how much of an upstream error body is
// echoed back to clients.
const UpstreamErrorSnippetLimit = 500

// RelayErrorHandler converts a non-2xx upstream response into the 502 error
// the client sees, capturing a bounded body snippet.
func RelayErrorHandler(resp *http.Response) *relaymodel.ErrorWithStatusCode {
	defer func() { _ = resp.Body.Close() }()
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, UpstreamErrorSnippetLimit))
	return relaymodel.NewError(http.StatusBadGateway,
		"upstream returned status %d: %s", resp.StatusCode, snippet)
}
