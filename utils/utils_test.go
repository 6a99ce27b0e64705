package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReleaseRequestContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	ctx = context.WithValue(ctx, CancelFuncKey, cancel)

	ReleaseRequestContext(ctx)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	t.Run("NoopWithoutCancel", func(t *testing.T) {
		assert.NotPanics(t, func() { ReleaseRequestContext(context.Background()) })
	})
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "StadtfestKoeln", SanitizeFilename("Stadtfest Koeln"))
	assert.Equal(t, "Fest2026", SanitizeFilename("Fest / <2026>"))
	assert.Equal(t, "", SanitizeFilename("!!! ///"))
}
