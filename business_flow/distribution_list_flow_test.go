package businessflow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plakatpro/plakatpro/models"
)

func TestExportCacheKey(t *testing.T) {
	id := uuid.New()
	list := &models.DistributionList{UUID: id}

	t.Run("InitialRevision", func(t *testing.T) {
		key := exportCacheKey(list, "pdf")
		assert.Equal(t, fmt.Sprintf("export:%s:initial:pdf", id), key)
	})

	t.Run("RevisionChangesWithUpdate", func(t *testing.T) {
		first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		list.UpdatedAt = &first
		keyA := exportCacheKey(list, "pdf")

		second := first.Add(time.Second)
		list.UpdatedAt = &second
		keyB := exportCacheKey(list, "pdf")

		assert.NotEqual(t, keyA, keyB)
	})

	t.Run("FormatsDoNotCollide", func(t *testing.T) {
		assert.NotEqual(t, exportCacheKey(list, "pdf"), exportCacheKey(list, "xlsx"))
	})
}

func TestParseDate(t *testing.T) {
	t.Run("PlainDate", func(t *testing.T) {
		got, err := parseDate("2026-07-04")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("RFC3339", func(t *testing.T) {
		got, err := parseDate("2026-07-04T12:30:00+02:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 7, 4, 10, 30, 0, 0, time.UTC), got)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := parseDate("04.07.2026")
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.True(t, errors.Is(err, ErrDateFormatInvalid))
	})

	t.Run("NilPointerPassesThrough", func(t *testing.T) {
		got, err := parseDatePtr(nil)
		require.NoError(t, err)
		assert.Nil(t, got)

		empty := ""
		got, err = parseDatePtr(&empty)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestPosterSizeRank(t *testing.T) {
	assert.Less(t, posterSizeRank(models.PosterSizeA1), posterSizeRank(models.PosterSizeA0))
	assert.Less(t, posterSizeRank(models.PosterSizeA0), posterSizeRank(models.PosterSize120x180))
	assert.Equal(t, 0, posterSizeRank(models.PosterSize("unknown")))
}

func TestQuoteEmailBody(t *testing.T) {
	start := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)
	list := &models.DistributionList{
		EventName: "Stadtfest Koeln",
		StartDate: &start,
		EndDate:   &end,
	}

	items := []*models.DistributionListItem{{Quantity: 10, PosterSize: models.PosterSizeA1}}
	costs := CalculateQuoteCosts(items, DefaultVATRate)

	body := quoteEmailBody(list, costs)
	assert.Contains(t, body, "Sehr geehrte Damen und Herren")
	assert.Contains(t, body, `"Stadtfest Koeln"`)
	assert.Contains(t, body, "20.06.2026 bis 04.07.2026")
	assert.Contains(t, body, costs.Total.StringFixed(2))
}

func TestPermitEmailBody(t *testing.T) {
	list := &models.DistributionList{EventName: "Kirmes"}
	item := &models.DistributionListItem{
		Quantity:   12,
		PosterSize: models.PosterSizeA0,
		City:       &models.City{Name: "Aachen", PostalCode: "52062"},
	}

	body := permitEmailBody(list, item)
	assert.Contains(t, body, "Aachen (52062)")
	assert.Contains(t, body, "Anzahl der Plakate: 12")
	assert.Contains(t, body, "Plakatformat: A0")
	assert.NotContains(t, body, "Aushangzeitraum", "no period line without dates")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(errors.New(`duplicate key value violates unique constraint "uk_campaigns_source_list_id" (SQLSTATE 23505)`)))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isUniqueViolation(nil))
}

func TestItemPtrs(t *testing.T) {
	items := []models.DistributionListItem{{Quantity: 1}, {Quantity: 2}}
	ptrs := itemPtrs(items)
	require.Len(t, ptrs, 2)

	// Pointers refer back into the original slice.
	ptrs[0].Quantity = 7
	assert.Equal(t, 7, items[0].Quantity)
}

func TestBusinessErrorPredicates(t *testing.T) {
	err := NewBusinessError(CodeConflict, "List is archived", ErrListArchived)

	assert.True(t, IsBusinessError(err))
	assert.True(t, IsConflictError(err))
	assert.True(t, IsListArchived(err))
	assert.False(t, IsValidationError(err))
	assert.False(t, IsBusinessError(errors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsListArchived(wrapped), "predicates see through wrapping")
}
