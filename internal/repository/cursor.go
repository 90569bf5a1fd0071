package repository

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oohworks/treasury-engine/internal/pagination"
)

// Cursors encode the keyset position (created_at, id) of the last row of a
// page. They are opaque to callers; the listing engine only threads them
// back as start-after tokens.

func encodeCursor(createdAt time.Time, id uuid.UUID) pagination.Cursor {
	raw := strconv.FormatInt(createdAt.UnixNano(), 10) + "|" + id.String()
	return pagination.Cursor(base64.RawURLEncoding.EncodeToString([]byte(raw)))
}

func decodeCursor(c pagination.Cursor) (time.Time, uuid.UUID, error) {
	if c == "" {
		return time.Time{}, uuid.Nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(string(c))
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("decode cursor: %w", err)
	}

	nanosPart, idPart, found := strings.Cut(string(raw), "|")
	if !found {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor")
	}

	nanos, err := strconv.ParseInt(nanosPart, 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor timestamp: %w", err)
	}

	id, err := uuid.Parse(idPart)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor id: %w", err)
	}

	return time.Unix(0, nanos).UTC(), id, nil
}
