package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// Cursor identifies the last row of a page in (date, created_at, id) order.
type Cursor struct {
	Date      time.Time
	CreatedAt time.Time
	ID        string
}

// EncodeToken serializes a cursor into an opaque URL-safe token.
func EncodeToken(c Cursor) string {
	tokenStr := strings.Join([]string{c.Date.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.ID}, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	return Cursor{Date: date, CreatedAt: createdAt, ID: parts[2]}, nil
}
