package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plakatpro/plakatpro/utils"
)

func TestCampaignStatusOrder(t *testing.T) {
	assert.Len(t, CampaignStatusOrder, 10)
	assert.Equal(t, CampaignStatusBacklog, CampaignStatusOrder[0])
	assert.Equal(t, CampaignStatusArchive, CampaignStatusOrder[len(CampaignStatusOrder)-1])

	seen := map[CampaignStatus]bool{}
	for _, s := range CampaignStatusOrder {
		assert.True(t, s.Valid(), "%s", s)
		assert.False(t, seen[s], "duplicate stage %s", s)
		seen[s] = true
	}
}

func TestCampaignStatusValid(t *testing.T) {
	assert.True(t, CampaignStatusPermits.Valid())
	assert.True(t, CampaignStatusRemovalLive.Valid())
	assert.False(t, CampaignStatus("done").Valid())
	assert.False(t, CampaignStatus("").Valid())
}

func TestCampaignIsArchived(t *testing.T) {
	c := &Campaign{}
	assert.False(t, c.IsArchived())

	c.ArchivedAt = utils.UTCNowPtr()
	assert.True(t, c.IsArchived())
}

func TestPermitStatusValid(t *testing.T) {
	for _, s := range []PermitStatus{
		PermitStatusDraft,
		PermitStatusSent,
		PermitStatusRequested,
		PermitStatusInfoNeeded,
		PermitStatusApproved,
		PermitStatusApprovedWithConditions,
		PermitStatusRejected,
	} {
		assert.True(t, s.Valid(), "%s", s)
	}
	assert.False(t, PermitStatus("granted").Valid())
}
