package service

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrTimeout              = errors.New("generation timed out")
	ErrUpstream             = errors.New("upstream service failed")
	ErrStorageUnavailable   = errors.New("export storage is not configured")
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// maxSubjectLen bounds subjects before they reach prompts and search queries.
const maxSubjectLen = 200

func cleanSubject(subject string) (string, error) {
	s := strings.Join(strings.Fields(subject), " ")
	if s == "" {
		return "", invalid("subject is required")
	}
	if len([]rune(s)) > maxSubjectLen {
		return "", invalid("subject must be at most %d characters", maxSubjectLen)
	}
	return s, nil
}

// ParseObjectID converts a hex id, reporting malformed ids as invalid input.
func ParseObjectID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, invalid("%s is not a valid id", field)
	}
	return id, nil
}
