package auth

import (
	"net/http"
	"strings"
)

// ExtractBearerTokenFromHeader returns the token portion of an Authorization
// header value, or "" when no bearer token is present.
func ExtractBearerTokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	const bearerPrefix = "bearer "
	if strings.HasPrefix(strings.ToLower(header), bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return ""
}

// ExtractToken pulls the credential presented at handshake time, preferring
// the Authorization header and falling back to a query parameter (browsers
// cannot set headers on websocket upgrades).
func ExtractToken(r *http.Request, queryParam string) string {
	if r == nil {
		return ""
	}
	if token := ExtractBearerTokenFromHeader(r.Header.Get("Authorization")); token != "" {
		return token
	}
	if queryParam == "" {
		queryParam = "token"
	}
	if r.URL == nil {
		return ""
	}
	return strings.TrimSpace(r.URL.Query().Get(queryParam))
}
