// Package api is the client side of the vid2blog backend HTTP API.
//
// Every endpoint is reachable through the Client interface; HTTPClient is the
// production implementation. Bearer endpoints read the current session token
// from a caller supplied function so the client never caches credentials.
package api
