// Package client builds the shared outbound HTTP clients.
package client

import (
	"net"
	"net/http"
	"time"
)

// HTTPClient is the default outbound client used for relay requests. It has
// no overall timeout: LLM streams may legitimately run for minutes, so
// cancellation is driven solely by the caller's context.
var HTTPClient *http.Client

// ImpatientHTTPClient is a short-timeout client for quick health checks or metadata requests.
var ImpatientHTTPClient *http.Client

// SearchHTTPClient bounds search upstream calls, which should never stream.
var SearchHTTPClient *http.Client

// Init builds the shared HTTP clients. Call once at startup.
func Init() {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConnsPerHost: 32,
	}

	HTTPClient = &http.Client{
		Transport: transport,
	}
	ImpatientHTTPClient = &http.Client{
		Timeout:   5 * time.Second,
		Transport: transport,
	}
	SearchHTTPClient = &http.Client{
		Timeout:   15 * time.Second,
		Transport: transport,
	}
}
