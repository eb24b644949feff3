// Package common contains shared constants and small helpers used by the
// vid2blog client, the development backend and their tests.
package common

// AuthorizationHeaderName carries the bearer session token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName carries the per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// BearerPrefix precedes the session token in the Authorization header.
const BearerPrefix = "Bearer "

// MaxVideoSize is the largest video the backend accepts (500 MiB).
const MaxVideoSize int64 = 500 * 1024 * 1024

// OTPLength is the number of digits in a one-time passcode.
const OTPLength = 6
