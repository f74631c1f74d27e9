package jwt

import "github.com/golang-jwt/jwt"

// Token kinds carried in Payload.Kind.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Payload defines the JWT claims issued by the backend.
type Payload struct {
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the numeric account identifier.
	UserID int64 `json:"uid"`

	Email string `json:"email"`
	Role  string `json:"role"`

	// Kind distinguishes access tokens from refresh tokens. A refresh token is never
	// accepted as a bearer credential.
	Kind string `json:"kind"`

	// Version is the account's session version at issue time. Bumping the version on
	// the account revokes every token issued before it.
	Version int `json:"ver"`
}
