package helpers

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

const cursorSeparator = "|"

// Cursor is a position in a (created_at DESC, id DESC) ordering.
// A cursor without an id only bounds on created_at.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
	HasID     bool
}

// EncodeCursor builds the opaque cursor handed to clients for the row after which
// the next page starts.
func EncodeCursor(createdAt time.Time, id uuid.UUID) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + cursorSeparator + id.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a cursor produced by EncodeCursor. A bare RFC3339 timestamp is
// accepted as well. An empty string means "first page" and yields nil.
func DecodeCursor(value string) (*Cursor, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return &Cursor{CreatedAt: ts}, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, apperrors.NewInvalidStateError("malformed cursor")
	}

	parts := strings.SplitN(string(decoded), cursorSeparator, 2)
	if len(parts) != 2 {
		return nil, apperrors.NewInvalidStateError("malformed cursor")
	}

	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, apperrors.NewInvalidStateError("malformed cursor timestamp")
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, apperrors.NewInvalidStateError("malformed cursor id")
	}

	return &Cursor{CreatedAt: ts, ID: id, HasID: true}, nil
}
