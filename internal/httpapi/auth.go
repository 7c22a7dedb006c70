package httpapi

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is this repository's bearer-token payload: enough for the auth
// middleware to attach {userId, handle} to the request context.
type Claims struct {
	UserID string `json:"userId"`
	Handle string `json:"handle"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates bearer tokens with an ECDSA keypair.
// There is no external identity service to fetch a public key from:
// signup/signin are this repository's own credentialled front-end, so the
// same process both issues and validates its tokens.
type TokenIssuer struct {
	privateKey *ecdsa.PrivateKey
	issuer     string
	ttl        time.Duration
}

// NewTokenIssuer generates a fresh ECDSA P-256 keypair at startup. Tokens
// don't need to survive a process restart: an active match's auth is
// re-established on the client's next request.
func NewTokenIssuer(issuer string, ttl time.Duration) (*TokenIssuer, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating token signing key: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{privateKey: key, issuer: issuer, ttl: ttl}, nil
}

// Issue mints a bearer token for userID/handle.
func (t *TokenIssuer) Issue(userID, handle string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Handle: handle,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	return token.SignedString(t.privateKey)
}

// Validate parses and verifies tokenString, returning its claims.
func (t *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &t.privateKey.PublicKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Issuer != t.issuer {
		return nil, fmt.Errorf("invalid issuer: expected %s, got %s", t.issuer, claims.Issuer)
	}
	return claims, nil
}

type identityContextKey struct{}

// Identity is the {userId, handle} pair attached to an authenticated
// request's context.
type Identity struct {
	UserID string
	Handle string
}

// IdentityFromContext extracts the caller's identity, if authenticated.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimPrefix(auth, prefix)
}

// AuthMiddleware requires a valid bearer token on every request it wraps
// and attaches the resulting Identity to the request context. Route
// grouping in router.go decides which paths this wraps.
func AuthMiddleware(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeError(w, tokenMissingErr())
				return
			}
			claims, err := issuer.Validate(token)
			if err != nil {
				writeError(w, tokenInvalidErr(err))
				return
			}
			ctx := context.WithValue(r.Context(), identityContextKey{}, Identity{UserID: claims.UserID, Handle: claims.Handle})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
