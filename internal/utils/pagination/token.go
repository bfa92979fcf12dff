package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeToken creates a base64 encoded keyset token from a transaction date and a
// line's creation time. Both repositories use it so tokens are interchangeable.
func EncodeToken(transactionDate time.Time, createdAt time.Time) string {
	tokenStr := fmt.Sprintf("%s|%s", transactionDate.Format(timeFormat), createdAt.Format(timeFormat))
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into transaction date and creation time.
func DecodeToken(token string) (time.Time, time.Time, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (split)")
	}

	transactionDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (transaction date parse): %w", err)
	}

	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return transactionDate, createdAt, nil
}

// After reports whether the key (date, createdAt) sorts after the cursor in
// newest-first order, i.e. belongs on a later page.
func After(date, createdAt, cursorDate, cursorCreatedAt time.Time) bool {
	if !date.Equal(cursorDate) {
		return date.Before(cursorDate)
	}
	return createdAt.Before(cursorCreatedAt)
}
