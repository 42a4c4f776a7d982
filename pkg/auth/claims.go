package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/takuma-ones/ec-app/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	SubjectID int
	Role      enums.ActorRole
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	SubjectID int             `json:"subject_id"`
	Role      enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
