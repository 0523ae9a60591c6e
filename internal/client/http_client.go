package client

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient creates the shared outbound HTTP client. The pool must hold
// many concurrent open requests per upstream host since all fan-out branches
// fire at once.
func NewHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     90 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		ForceAttemptHTTP2: true,
	}

	// No client-level timeout: the executor applies its own per-attempt
	// deadline and probes run under their own short context.
	return &http.Client{
		Transport: transport,
	}
}
