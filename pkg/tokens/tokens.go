// Package tokens issues and reads the bearer tokens handed out at login.
//
// Tokens are HS256 JWTs carrying the user id as a numeric "sub". Verify only
// checks the token's shape and reads the subject: the signature and "exp" are
// not validated unless the Service is built with Strict set.
package tokens

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TTL            = time.Hour
	ExpiresInLabel = "1 hour"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the token payload. "sub" is numeric, so jwt.RegisteredClaims
// (string subject) does not fit.
type Claims struct {
	Subject   int64            `json:"sub"`
	IssuedAt  *jwt.NumericDate `json:"iat,omitempty"`
	ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`
}

var _ jwt.Claims = Claims{}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c Claims) GetIssuer() (string, error)                   { return "", nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }
func (c Claims) GetSubject() (string, error) {
	if c.Subject == 0 {
		return "", nil
	}
	return fmt.Sprint(c.Subject), nil
}

// UnmarshalJSON reads "sub" as any whole JSON number, so 1.0 and 1e0 both
// mean user 1. Strings, booleans and fractions are rejected.
func (c *Claims) UnmarshalJSON(b []byte) error {
	var raw struct {
		Subject   json.RawMessage  `json:"sub"`
		IssuedAt  *jwt.NumericDate `json:"iat,omitempty"`
		ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	sub, err := parseSubject(raw.Subject)
	if err != nil {
		return err
	}
	*c = Claims{Subject: sub, IssuedAt: raw.IssuedAt, ExpiresAt: raw.ExpiresAt}
	return nil
}

func parseSubject(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	if raw[0] == '"' {
		return 0, fmt.Errorf("sub %s is not a number", raw)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("sub: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
		return 0, fmt.Errorf("sub %s is not a whole number", n)
	}
	return int64(f), nil
}

type Service struct {
	Secret []byte
	// Strict enables signature and expiry validation in Verify.
	Strict bool
	Now    func() time.Time
}

func NewService(secret []byte, strict bool) *Service {
	return &Service{Secret: secret, Strict: strict, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) Issue(subjectID int64) (string, error) {
	now := s.now()
	claims := Claims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the subject of token.
func (s *Service) Verify(token string) (int64, error) {
	claims, err := s.Parse(token)
	if err != nil {
		return 0, err
	}
	return claims.Subject, nil
}

func (s *Service) Parse(token string) (*Claims, error) {
	if s.Strict {
		return s.parseStrict(token)
	}
	return ParseUnverified(token)
}

func (s *Service) parseStrict(token string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == 0 {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	return &claims, nil
}

// ParseUnverified reads the payload of a three-segment token without looking
// at the header or the signature. Payloads in URL-safe or standard base64,
// padded or not, are accepted.
func ParseUnverified(token string) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidToken)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrInvalidToken, len(parts))
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrInvalidToken, err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrInvalidToken, err)
	}
	if claims.Subject == 0 {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	return &claims, nil
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

func decodeSegment(seg string) ([]byte, error) {
	if b, err := segmentParser.DecodeSegment(seg); err == nil {
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(seg); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(seg, "="))
}
