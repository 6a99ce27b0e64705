// Package utils provides utility functions for the application.
package utils

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// ParseUUID parses a UUID string and returns a descriptive error on failure
func ParseUUID(s string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid uuid %q: %w", s, err)
	}
	return parsed, nil
}

// ReleaseRequestContext invokes the cancel function stored on a request
// context, releasing its timeout timer early instead of waiting for the
// deadline to fire.
func ReleaseRequestContext(ctx context.Context) {
	if cancel, ok := ctx.Value(CancelFuncKey).(context.CancelFunc); ok {
		cancel()
	}
}

// SanitizeFilename strips everything but letters and digits from s so the
// result is safe to use as a download filename on any platform
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
