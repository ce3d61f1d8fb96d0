package jwttoken

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
)

// DefaultTTL is the lifetime of issued access tokens.
const DefaultTTL = time.Hour

// Claims represents the JWT claims for access tokens. Data is kept raw so the
// payload is only interpreted after the signature has been verified.
type Claims struct {
	Data json.RawMessage `json:"data,omitempty"`
	jwt.RegisteredClaims
}

// UserData is the identity payload carried under the "data" claim.
type UserData struct {
	UserID   flexInt `json:"id_usuario"`
	Username string  `json:"nombre_usuario"`
	Email    string  `json:"email"`
	RoleID   flexInt `json:"id_rol"`
}

// flexInt accepts both 5 and "5"; database drivers on the issuing side have
// been known to emit numeric columns as strings.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if !domain.IsNumericSegment(s) {
			return errors.New("not a number")
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*f = flexInt(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// JWTService issues and verifies HS256 access tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	ttl        time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// Option configures a JWTService.
type Option func(*JWTService)

// WithClock injects the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		s.now = now
	}
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *JWTService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewJWTService(signingKey string, issuer string, audience string, opts ...Option) *JWTService {
	s := &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		ttl:        DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	return s
}

// Issue mints an access token for identity and returns it with its expiry.
func (s *JWTService) Issue(identity domain.Identity) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	data, err := json.Marshal(UserData{
		UserID:   flexInt(identity.UserID),
		Username: identity.Username,
		Email:    identity.Email,
		RoleID:   flexInt(identity.RoleID),
	})
	if err != nil {
		return "", time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode token payload")
	}

	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Data: data,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signedToken, expiresAt, nil
}

// ValidateToken verifies signature, algorithm and time claims, then decodes
// the identity payload. Every failure carries one of the token error kinds.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, *UserData, error) {
	parsed, err := s.parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, nil, classify(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, nil, dErrors.New(dErrors.CodeMalformedToken, "invalid token")
	}

	data, err := decodeUserData(claims.Data)
	if err != nil {
		return nil, nil, err
	}
	return claims, data, nil
}

func decodeUserData(raw json.RawMessage) (*UserData, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, dErrors.New(dErrors.CodeMalformedPayload, "token payload is missing user data")
	}
	var data UserData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeMalformedPayload, "token payload is malformed")
	}
	if data.UserID <= 0 {
		return nil, dErrors.New(dErrors.CodeMalformedPayload, "token payload has no valid user id")
	}
	if data.RoleID <= 0 {
		return nil, dErrors.New(dErrors.CodeMalformedPayload, "token payload has no valid role id")
	}
	return &data, nil
}

// classify maps jwt library errors to token error kinds. Signature problems
// are checked before time problems since the parser reports them first.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return dErrors.Wrap(err, dErrors.CodeMalformedToken, "token is malformed")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return dErrors.Wrap(err, dErrors.CodeInvalidSignature, "token signature is invalid")
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return dErrors.Wrap(err, dErrors.CodeMalformedPayload, "token is missing a required claim")
	case errors.Is(err, jwt.ErrTokenExpired):
		return dErrors.Wrap(err, dErrors.CodeExpiredToken, "token has expired")
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return dErrors.Wrap(err, dErrors.CodeNotYetValid, "token is not valid yet")
	default:
		return dErrors.Wrap(err, dErrors.CodeMalformedToken, "invalid token")
	}
}
