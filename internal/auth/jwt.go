package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Audiences of the purpose tokens issued by TokenManager.
const (
	AudienceVerify        = "starter:verify"
	AudienceResetPassword = "starter:reset-password"
)

// ErrInvalidToken is returned for any token that fails validation.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and validates short-lived signed tokens that carry a
// single purpose (email verification or password reset) in their audience.
type TokenManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenManager creates a token manager.
// secret must be at least 32 characters for HS256 security.
func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// PurposeClaims are the claims of a purpose token.
type PurposeClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	// PasswordFingerprint binds reset tokens to the password hash they were
	// issued for, so a token stops working once the password changes.
	PasswordFingerprint string `json:"password_fgpt,omitempty"`
}

// UserID returns the subject as a user id.
func (c *PurposeClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject %q", ErrInvalidToken, c.Subject)
	}
	return id, nil
}

// Issue signs an HS256 token for audience with the user id as subject.
func (m *TokenManager) Issue(audience string, userID int64, email, fingerprint string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := PurposeClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email:               email,
		PasswordFingerprint: fingerprint,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates signature, expiry, issuer and audience and returns the claims.
// Every failure wraps ErrInvalidToken.
func (m *TokenManager) Parse(audience, tokenString string) (*PurposeClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token is empty", ErrInvalidToken)
	}

	claims := &PurposeClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithAudience(audience),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
