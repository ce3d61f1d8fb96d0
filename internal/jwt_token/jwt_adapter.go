package jwttoken

import (
	"strings"

	"petadopt/pkg/domain"
	dErrors "petadopt/pkg/domain-errors"
)

const bearerPrefix = "Bearer "

// Authenticate turns an Authorization header value into an Identity. It is a
// pure function of the header, the signing key and the clock.
func (s *JWTService) Authenticate(authorizationHeader string) (domain.Identity, error) {
	after, ok := strings.CutPrefix(authorizationHeader, bearerPrefix)
	if !ok {
		return domain.Identity{}, dErrors.New(dErrors.CodeMissingToken, "missing or invalid Authorization header")
	}
	fields := strings.Fields(after)
	if len(fields) == 0 {
		return domain.Identity{}, dErrors.New(dErrors.CodeMissingToken, "missing bearer token")
	}

	_, data, err := s.ValidateToken(fields[0])
	if err != nil {
		return domain.Identity{}, err
	}
	return ToIdentity(data), nil
}

// ToIdentity converts a verified token payload into the request identity.
func ToIdentity(data *UserData) domain.Identity {
	return domain.Identity{
		UserID:   domain.UserID(data.UserID),
		RoleID:   domain.RoleID(data.RoleID),
		Username: data.Username,
		Email:    data.Email,
	}
}
