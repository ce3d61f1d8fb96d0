package domain

import (
	"strconv"

	dErrors "petadopt/pkg/domain-errors"
)

// Typed identifiers. Each entity has its own id type so a pet id can never be
// passed where a user id is expected.
type (
	UserID         int64
	RoleID         int64
	PetID          int64
	ShelterID      int64
	AdoptionID     int64
	NotificationID int64
	MediaID        int64
)

// Well-known roles.
const (
	RoleAdmin   RoleID = 1
	RoleAdopter RoleID = 2
)

func (id UserID) Int64() int64         { return int64(id) }
func (id PetID) Int64() int64          { return int64(id) }
func (id AdoptionID) Int64() int64     { return int64(id) }
func (id NotificationID) Int64() int64 { return int64(id) }
func (id ShelterID) Int64() int64      { return int64(id) }
func (id MediaID) Int64() int64        { return int64(id) }

func (id UserID) String() string         { return strconv.FormatInt(int64(id), 10) }
func (id PetID) String() string          { return strconv.FormatInt(int64(id), 10) }
func (id AdoptionID) String() string     { return strconv.FormatInt(int64(id), 10) }
func (id NotificationID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id ShelterID) String() string      { return strconv.FormatInt(int64(id), 10) }
func (id MediaID) String() string        { return strconv.FormatInt(int64(id), 10) }

// maxIDDigits bounds input length; int64 has at most 19 decimal digits.
const maxIDDigits = 19

// IsNumericSegment reports whether s is a non-empty run of ASCII digits.
// Signs, spaces, decimal points and exponents are rejected.
func IsNumericSegment(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parsePositive(s, name string) (int64, error) {
	if !IsNumericSegment(s) || len(s) > maxIDDigits {
		return 0, dErrors.New(dErrors.CodeValidation, name+" must be a positive integer")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeValidation, name+" must be a positive integer")
	}
	return n, nil
}

func ParseUserID(s string) (UserID, error) {
	n, err := parsePositive(s, "user id")
	return UserID(n), err
}

func ParsePetID(s string) (PetID, error) {
	n, err := parsePositive(s, "pet id")
	return PetID(n), err
}

func ParseShelterID(s string) (ShelterID, error) {
	n, err := parsePositive(s, "shelter id")
	return ShelterID(n), err
}

func ParseAdoptionID(s string) (AdoptionID, error) {
	n, err := parsePositive(s, "adoption request id")
	return AdoptionID(n), err
}

func ParseNotificationID(s string) (NotificationID, error) {
	n, err := parsePositive(s, "notification id")
	return NotificationID(n), err
}
