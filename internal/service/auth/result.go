package auth

// TokenTypeBearer is the token_type reported with every access token.
const TokenTypeBearer = "bearer"

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string
	TokenType   string
}
