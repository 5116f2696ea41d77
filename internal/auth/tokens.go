package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

const (
	tokenIssuer   = "leaflist-server"
	tokenAudience = "leaflist-client"

	purposeClaim          = "purpose"
	purposeEmailVerify    = "email-verification"
	defaultAccessDuration = 24 * time.Hour
	defaultVerifyDuration = 48 * time.Hour
)

// TokenService issues and verifies PASETO v4.local tokens. The same symmetric
// key signs both access tokens and email verification tokens, with a purpose
// claim keeping the two kinds from being interchangeable.
type TokenService struct {
	key            paseto.V4SymmetricKey
	accessDuration time.Duration
	verifyDuration time.Duration
}

// NewTokenService creates a token service with the given 32-byte symmetric
// key. Durations of zero fall back to the defaults.
func NewTokenService(keyBytes []byte, accessDuration, verifyDuration time.Duration) (*TokenService, error) {
	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	if accessDuration <= 0 {
		accessDuration = defaultAccessDuration
	}
	if verifyDuration <= 0 {
		verifyDuration = defaultVerifyDuration
	}
	return &TokenService{
		key:            key,
		accessDuration: accessDuration,
		verifyDuration: verifyDuration,
	}, nil
}

// GenerateAccessToken creates a signed access token for the user.
func (s *TokenService) GenerateAccessToken(userID, email string) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(userID)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.accessDuration))

	if err := token.Set("user_id", userID); err != nil {
		return "", fmt.Errorf("failed to set user_id claim: %w", err)
	}
	if err := token.Set("email", email); err != nil {
		return "", fmt.Errorf("failed to set email claim: %w", err)
	}

	return token.V4Encrypt(s.key, nil), nil
}

// VerifyAccessToken validates an access token and returns its claims.
func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	// A verification token must never pass as an access token.
	var purpose string
	if err := token.Get(purposeClaim, &purpose); err == nil && purpose != "" {
		return nil, fmt.Errorf("token purpose %q not valid for access", purpose)
	}

	claims := &AccessClaims{}
	if err := token.Get("user_id", &claims.UserID); err != nil {
		return nil, fmt.Errorf("missing user_id claim: %w", err)
	}
	if err := token.Get("email", &claims.Email); err != nil {
		return nil, fmt.Errorf("missing email claim: %w", err)
	}

	if claims.Issuer, err = token.GetIssuer(); err != nil {
		return nil, fmt.Errorf("missing issuer: %w", err)
	}
	if claims.Subject, err = token.GetSubject(); err != nil {
		return nil, fmt.Errorf("missing subject: %w", err)
	}
	if claims.Audience, err = token.GetAudience(); err != nil {
		return nil, fmt.Errorf("missing audience: %w", err)
	}
	if claims.Expiration, err = token.GetExpiration(); err != nil {
		return nil, fmt.Errorf("missing expiration: %w", err)
	}
	if claims.IssuedAt, err = token.GetIssuedAt(); err != nil {
		return nil, fmt.Errorf("missing issued at: %w", err)
	}
	if claims.NotBefore, err = token.GetNotBefore(); err != nil {
		return nil, fmt.Errorf("missing not before: %w", err)
	}

	return claims, nil
}

// GenerateVerificationToken creates a signed single-use email verification
// token. The returned token id must be stored on the user record; redemption
// compares the token's id against the stored one and clears it.
func (s *TokenService) GenerateVerificationToken(userID, email, tokenID string) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(userID)
	token.SetJti(tokenID)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.verifyDuration))

	if err := token.Set(purposeClaim, purposeEmailVerify); err != nil {
		return "", fmt.Errorf("failed to set purpose claim: %w", err)
	}
	if err := token.Set("user_id", userID); err != nil {
		return "", fmt.Errorf("failed to set user_id claim: %w", err)
	}
	if err := token.Set("email", email); err != nil {
		return "", fmt.Errorf("failed to set email claim: %w", err)
	}

	return token.V4Encrypt(s.key, nil), nil
}

// VerifyVerificationToken validates an email verification token and returns
// its claims. Expiry and signature are checked here; single-use redemption is
// the caller's job.
func (s *TokenService) VerifyVerificationToken(tokenString string) (*VerificationClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var purpose string
	if err := token.Get(purposeClaim, &purpose); err != nil || purpose != purposeEmailVerify {
		return nil, fmt.Errorf("token is not an email verification token")
	}

	claims := &VerificationClaims{}
	if err := token.Get("user_id", &claims.UserID); err != nil {
		return nil, fmt.Errorf("missing user_id claim: %w", err)
	}
	if err := token.Get("email", &claims.Email); err != nil {
		return nil, fmt.Errorf("missing email claim: %w", err)
	}
	if claims.TokenID, err = token.GetJti(); err != nil {
		return nil, fmt.Errorf("missing token id: %w", err)
	}
	if claims.Expiration, err = token.GetExpiration(); err != nil {
		return nil, fmt.Errorf("missing expiration: %w", err)
	}

	return claims, nil
}

// AccessTokenDuration returns the configured access token lifetime.
func (s *TokenService) AccessTokenDuration() time.Duration {
	return s.accessDuration
}
