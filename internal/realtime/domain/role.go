package domain

import "strings"

// Role is the access level resolved for a subject at connect time. The role
// is read fresh from the store during the handshake and cached on the
// connection for its whole lifetime; a promotion or demotion only takes
// effect after a reconnect.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// NormalizeRole maps arbitrary store values onto a known role. Unknown
// values degrade to the least-privileged role.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "administrator":
		return RoleAdmin
	default:
		return RoleUser
	}
}
