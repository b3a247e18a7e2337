// Package meta carries per-request relay metadata from the controller into
// the adaptors.
package meta

import "github.com/kortix-ai/gateway/relay/provider"

// Meta describes one relay request. Owned by the handler; released when the
// response completes.
type Meta struct {
	Binding *provider.Binding
	// ActualModel is the provider-local model id sent upstream.
	ActualModel string
	// RequestedModel is the client's original model id, used for pricing.
	RequestedModel string
	AccountID      string
	SessionID      string
	IsStream       bool
}
