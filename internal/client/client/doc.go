// Package client talks to the todo HTTP API.
//
// Client is the transport surface the services layer depends on; HTTPClient
// implements it over JSON and bearer tokens. Transport failures are reported
// as ErrUnavailable and API error envelopes as *APIError, which unwraps to
// the sentinel matching its status code.
package client
