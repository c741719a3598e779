package utils // package utils provides helpers for issuing and reading session tokens

import (
	"errors" // sentinel errors for token validation
	"time"   // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrInvalidToken is returned by ParseAccessToken for tokens that are
// malformed, expired, signed with another key or missing claims.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
// The token is handed out by the mock login and authorizes the payment,
// cancellation and receipt calls of exactly one booking session.
type AccessToken struct {
	Token string    `json:"token"`      // the serialized JWT string
	Exp   time.Time `json:"expires_at"` // the UTC expiration time
}

// TokenClaims are the claims this service reads back from a token.
type TokenClaims struct {
	UserID    string // sub: the mock user created at login
	SessionID string // sid: the booking session the token is bound to
}

// NewAccessToken builds and signs an HS256 JWT for a user of a booking
// session.  The JWT includes the subject (sub), the session id (sid), the
// expiration (exp) and the issued at time (iat).
func NewAccessToken(secret, userID, sessionID string, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"sid": sessionID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken validates raw against secret and returns its claims.
// Only HMAC signing methods are accepted.
func ParseAccessToken(secret, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens whose algorithm is not HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return TokenClaims{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	sid, _ := claims["sid"].(string)
	if sub == "" || sid == "" {
		return TokenClaims{}, ErrInvalidToken
	}
	return TokenClaims{UserID: sub, SessionID: sid}, nil
}
