package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/plakatpro/plakatpro/utils"
)

func TestDistributionListTransitions(t *testing.T) {
	cases := []struct {
		from    DistributionListStatus
		to      DistributionListStatus
		allowed bool
	}{
		{DistributionListStatusDraft, DistributionListStatusSent, true},
		{DistributionListStatusDraft, DistributionListStatusAccepted, false},
		{DistributionListStatusDraft, DistributionListStatusRejected, false},
		{DistributionListStatusSent, DistributionListStatusAccepted, true},
		{DistributionListStatusSent, DistributionListStatusRejected, true},
		{DistributionListStatusSent, DistributionListStatusRevised, true},
		{DistributionListStatusSent, DistributionListStatusDraft, false},
		{DistributionListStatusRevised, DistributionListStatusSent, true},
		{DistributionListStatusRevised, DistributionListStatusAccepted, false},
		{DistributionListStatusRejected, DistributionListStatusDraft, true},
		{DistributionListStatusRejected, DistributionListStatusSent, true},
		{DistributionListStatusRejected, DistributionListStatusAccepted, false},
		{DistributionListStatusAccepted, DistributionListStatusRejected, false},
		{DistributionListStatusAccepted, DistributionListStatusSent, false},
	}

	for _, tc := range cases {
		list := &DistributionList{Status: tc.from}
		assert.Equal(t, tc.allowed, list.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestDistributionListSameStatusIsIdempotent(t *testing.T) {
	for _, status := range []DistributionListStatus{
		DistributionListStatusDraft,
		DistributionListStatusSent,
		DistributionListStatusAccepted,
		DistributionListStatusRejected,
		DistributionListStatusRevised,
	} {
		list := &DistributionList{Status: status}
		assert.True(t, list.CanTransitionTo(status), "%s -> %s", status, status)
	}
}

func TestDistributionListIsArchived(t *testing.T) {
	list := &DistributionList{}
	assert.False(t, list.IsArchived())

	list.ArchivedAt = utils.UTCNowPtr()
	assert.True(t, list.IsArchived())
}

func TestDistributionListIsPast(t *testing.T) {
	now := utils.UTCNow()

	open := &DistributionList{}
	assert.False(t, open.IsPast(now), "a list with no end date has not ended")

	past := now.Add(-24 * time.Hour)
	ended := &DistributionList{EndDate: &past}
	assert.True(t, ended.IsPast(now))

	future := now.Add(24 * time.Hour)
	running := &DistributionList{EndDate: &future}
	assert.False(t, running.IsPast(now))
}

func TestDistributionListStatusValid(t *testing.T) {
	assert.True(t, DistributionListStatusDraft.Valid())
	assert.True(t, DistributionListStatusRevised.Valid())
	assert.False(t, DistributionListStatus("published").Valid())
	assert.False(t, DistributionListStatus("").Valid())
}
