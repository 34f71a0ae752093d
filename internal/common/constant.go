// Package common contains shared constants and sentinel errors used across
// learnjournal components.
package common

// AuthorizationHeaderName carries the bearer access token on API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "
