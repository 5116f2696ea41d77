package auth

import "time"

// AccessClaims carries the identity embedded in a verified access token.
type AccessClaims struct {
	UserID     string
	Email      string
	Issuer     string
	Subject    string
	Audience   string
	Expiration time.Time
	NotBefore  time.Time
	IssuedAt   time.Time
	TokenID    string
}

// VerificationClaims carries the identity embedded in a verified email
// verification token. TokenID is matched against the outstanding token id
// stored on the user record so each token can be redeemed at most once.
type VerificationClaims struct {
	UserID     string
	Email      string
	TokenID    string
	Expiration time.Time
}
