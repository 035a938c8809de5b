// Package solidityscan is the transport to the SolidityScan REST API. It
// issues authenticated GET requests, retries transport timeouts with
// exponential backoff and classifies every other failure as terminal. It does
// not parse response bodies; that is left to the normalizers.
package solidityscan

import (
	"context"
	"net/url"
)

// Response is a 200 answer from the scanning service.
type Response struct {
	StatusCode int    // StatusCode is always http.StatusOK for returned responses.
	Body       []byte // Body is the raw, unparsed response body.
	Attempts   int    // Attempts is how many requests were sent, retries included.
}

// Caller is the abstraction the scan orchestrator depends on.
//
//go:generate mockgen -package mocksolidityscan -source=interface.go -destination=mock/mocksolidityscan.go *
type Caller interface {
	// Get sends a GET request for the given API path and returns the response
	// when the service answered 200. Failures are *serrors.Error values of
	// kind ErrTransport or ErrUpstream carrying a diagnostic.
	Get(ctx context.Context, path string) (*Response, error)
	// HasToken reports whether an API key is configured.
	HasToken() bool
}

// QuickScanPath is the path of the synchronous vulnerability (v1) endpoint.
func QuickScanPath(platformID, chainID, contractAddress string) string {
	return "/api/v1/quickscan/" + segments(platformID, chainID, contractAddress)
}

// ThreatScanPath is the path of the threat (v2) endpoint.
func ThreatScanPath(platformID, chainID, contractAddress string) string {
	return "/api/v2/threatscan/" + segments(platformID, chainID, contractAddress)
}

func segments(platformID, chainID, contractAddress string) string {
	return url.PathEscape(platformID) + "/" + url.PathEscape(chainID) + "/" + url.PathEscape(contractAddress)
}
