package security

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/contacts-service/internal/application/auth"
	"github.com/baechuer/contacts-service/internal/domain"
)

var signingMethods = map[string]*jwt.SigningMethodHMAC{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// JWTCodec signs and verifies scoped claim sets with a shared HMAC secret.
type JWTCodec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
}

// NewJWTCodec fails on an empty secret or an algorithm outside HS256/HS384/HS512.
// An empty algorithm means HS256.
func NewJWTCodec(secret, algorithm string) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	alg := strings.ToUpper(strings.TrimSpace(algorithm))
	if alg == "" {
		alg = "HS256"
	}
	m, ok := signingMethods[alg]
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	return &JWTCodec{secret: []byte(secret), method: m}, nil
}

// Algorithm returns the signing algorithm name, e.g. "HS256".
func (c *JWTCodec) Algorithm() string { return c.method.Alg() }

type scopedClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

func (c *JWTCodec) Encode(claims auth.TokenClaims) (string, error) {
	if err := claims.Scope.Validate(); err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}

	rc := jwt.RegisteredClaims{
		Subject:   claims.Subject,
		ID:        claims.ID,
		ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
	}
	if !claims.IssuedAt.IsZero() {
		rc.IssuedAt = jwt.NewNumericDate(claims.IssuedAt)
	}

	tok := jwt.NewWithClaims(c.method, scopedClaims{Scope: string(claims.Scope), RegisteredClaims: rc})
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (c *JWTCodec) Decode(token string) (auth.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &scopedClaims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		// prevent alg confusion
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return auth.TokenClaims{}, mapJWTError(err)
	}

	sc, ok := parsed.Claims.(*scopedClaims)
	if !ok || !parsed.Valid {
		return auth.TokenClaims{}, domain.ErrTokenMalformed(errors.New("unexpected claims type"))
	}

	scope, err := domain.ParseTokenScope(sc.Scope)
	if err != nil {
		return auth.TokenClaims{}, domain.ErrTokenMalformed(err)
	}

	out := auth.TokenClaims{
		Subject: sc.Subject,
		Scope:   scope,
		ID:      sc.ID,
	}
	if sc.IssuedAt != nil {
		out.IssuedAt = sc.IssuedAt.Time
	}
	if sc.ExpiresAt != nil {
		out.ExpiresAt = sc.ExpiresAt.Time
	}
	return out, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired()
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return domain.ErrTokenInvalidSignature(err)
	default:
		return domain.ErrTokenMalformed(err)
	}
}
