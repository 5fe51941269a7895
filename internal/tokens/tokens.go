package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stockboard/stockboard/pkg/middleware"
)

// Issuer is stamped on every write token and required on verification.
const Issuer = "stockboard"

const writeScope = "stocks:write"

// ErrRevoked is returned for tokens withdrawn through Revoke.
var ErrRevoked = errors.New("token revoked")

// GenerateWriteToken creates a signed HS256 token allowing its holder to add stocks.
func GenerateWriteToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("empty signing secret")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   Issuer,
		"sub":   subject,
		"jti":   uuid.NewString(),
		"scope": writeScope,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(secret))
}

// HS256Verifier checks tokens produced by GenerateWriteToken.
type HS256Verifier struct {
	secret  []byte
	revoked *Revocations
}

func NewHS256Verifier(secret string) *HS256Verifier {
	return &HS256Verifier{secret: []byte(secret)}
}

// WithRevocations makes Verify reject tokens listed in r.
func (v *HS256Verifier) WithRevocations(r *Revocations) *HS256Verifier {
	v.revoked = r
	return v
}

type mapToken jwt.MapClaims

func (t mapToken) Claims(v interface{}) error {
	out, ok := v.(*map[string]interface{})
	if !ok {
		return fmt.Errorf("unsupported claims type %T", v)
	}
	*out = map[string]interface{}(t)
	return nil
}

func (v *HS256Verifier) parse(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
	)
	if err != nil {
		return nil, err
	}
	if exp, err := claims.GetExpirationTime(); err != nil || exp == nil {
		return nil, errors.New("token has no expiry")
	}
	if scope, _ := claims["scope"].(string); scope != writeScope {
		return nil, errors.New("token lacks stocks:write scope")
	}
	return claims, nil
}

func (v *HS256Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims, err := v.parse(raw)
	if err != nil {
		return nil, err
	}
	if v.revoked != nil {
		jti, _ := claims["jti"].(string)
		revoked, err := v.revoked.IsRevoked(ctx, jti)
		if err != nil {
			return nil, fmt.Errorf("revocation check: %w", err)
		}
		if revoked {
			return nil, ErrRevoked
		}
	}
	return mapToken(claims), nil
}

// Revoke withdraws a valid token before it expires.
func (v *HS256Verifier) Revoke(ctx context.Context, raw string) error {
	if v.revoked == nil {
		return errors.New("revocation needs Redis (REDIS_HOST)")
	}
	claims, err := v.parse(raw)
	if err != nil {
		return err
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return errors.New("token has no jti")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return err
	}
	return v.revoked.Revoke(ctx, jti, exp.Time)
}
