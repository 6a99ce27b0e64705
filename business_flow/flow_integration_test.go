package businessflow_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plakatpro/plakatpro/app/dto"
	"github.com/plakatpro/plakatpro/app/services"
	businessflow "github.com/plakatpro/plakatpro/business_flow"
	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/repository"
	testingutil "github.com/plakatpro/plakatpro/testing"
)

// flowHarness wires a distribution list flow over a real database with a
// recording mail sender in place of the SMTP relay.
type flowHarness struct {
	flow   businessflow.DistributionListFlow
	sender *services.RecordingSender
}

func newFlowHarness(t *testing.T, testDB *testingutil.TestDB) *flowHarness {
	t.Helper()

	store, err := services.NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	sender := services.NewRecordingSender()
	dispatcher := services.NewMailDispatcher(sender, "info@plakatpro.de", "PlakatPro")

	flow := businessflow.NewDistributionListFlow(
		repository.NewDistributionListRepository(testDB.DB),
		repository.NewDistributionListItemRepository(testDB.DB),
		repository.NewClientRepository(testDB.DB),
		repository.NewCityRepository(testDB.DB),
		repository.NewCampaignRepository(testDB.DB),
		repository.NewPermitRepository(testDB.DB),
		repository.NewPermitEmailRepository(testDB.DB),
		repository.NewFileAssetRepository(testDB.DB),
		dispatcher,
		services.NewExporter("PlakatPro"),
		store,
		services.NoopExportCache{},
		decimal.Zero,
		testDB.DB,
	)

	return &flowHarness{flow: flow, sender: sender}
}

func TestRecordClientResponse(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		h := newFlowHarness(t, testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test")

		client, err := fixtures.CreateTestClient()
		require.NoError(t, err)

		t.Run("AcceptSentList", func(t *testing.T) {
			list, err := fixtures.CreateTestList(client, models.DistributionListStatusSent)
			require.NoError(t, err)

			resp, err := h.flow.RecordClientResponse(ctx, list.UUID.String(), &dto.RecordResponseRequest{Response: "accepted"}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "accepted", resp.Status)

			got, err := h.flow.GetList(ctx, list.UUID.String())
			require.NoError(t, err)
			assert.NotNil(t, got.AcceptedAt)
		})

		t.Run("SameResponseTwiceIsNoop", func(t *testing.T) {
			list, err := fixtures.CreateTestList(client, models.DistributionListStatusSent)
			require.NoError(t, err)

			_, err = h.flow.RecordClientResponse(ctx, list.UUID.String(), &dto.RecordResponseRequest{Response: "rejected"}, metadata)
			require.NoError(t, err)

			resp, err := h.flow.RecordClientResponse(ctx, list.UUID.String(), &dto.RecordResponseRequest{Response: "rejected"}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "rejected", resp.Status)
		})

		t.Run("CannotFlipAcceptedToRejected", func(t *testing.T) {
			list, err := fixtures.CreateTestList(client, models.DistributionListStatusAccepted)
			require.NoError(t, err)

			_, err = h.flow.RecordClientResponse(ctx, list.UUID.String(), &dto.RecordResponseRequest{Response: "rejected"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsListTransitionInvalid(err))
		})

		t.Run("DraftListHasNoResponse", func(t *testing.T) {
			list, err := fixtures.CreateTestList(client, models.DistributionListStatusDraft)
			require.NoError(t, err)

			_, err = h.flow.RecordClientResponse(ctx, list.UUID.String(), &dto.RecordResponseRequest{Response: "accepted"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsListTransitionInvalid(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestConvertToCampaign(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		h := newFlowHarness(t, testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test")

		client, err := fixtures.CreateTestClient()
		require.NoError(t, err)
		city, err := fixtures.CreateTestCity(models.FeeModelPauschal, "20.00")
		require.NoError(t, err)

		t.Run("AcceptedListConverts", func(t *testing.T) {
			list, err := fixtures.CreateTestList(client, models.DistributionListStatusAccepted)
			require.NoError(t, err)
			_, err = fixtures.CreateTestItem(list, city, 10, models.PosterSizeA1)
			require.NoError(t, err)

			resp, err := h.flow.ConvertToCampaign(ctx, list.UUID.String(), metadata)
			require.NoError(t, err)
			assert.Equal(t, list.UUID.String(), resp.ListUUID)
			assert.NotEmpty(t, resp.CampaignUUID)
			assert.Equal(t, models.CampaignStatusPermits.String(), resp.Status)
			assert.Equal(t, 1, resp.PermitCount)

			t.Run("SecondConversionConflicts", func(t *testing.T) {
				_, err := h.flow.ConvertToCampaign(ctx, list.UUID.String(), metadata)
				require.Error(t, err)
				assert.True(t, businessflow.IsListAlreadyConverted(err))
			})
		})

		t.Run("SentListDoesNotConvert", func(t *testing.T) {
			list, err := fixtures.CreateTestList(client, models.DistributionListStatusSent)
			require.NoError(t, err)
			_, err = fixtures.CreateTestItem(list, city, 5, models.PosterSizeA0)
			require.NoError(t, err)

			_, err = h.flow.ConvertToCampaign(ctx, list.UUID.String(), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsListNotAccepted(err))
		})

		t.Run("EmptyListDoesNotConvert", func(t *testing.T) {
			list, err := fixtures.CreateTestList(client, models.DistributionListStatusAccepted)
			require.NoError(t, err)

			_, err = h.flow.ConvertToCampaign(ctx, list.UUID.String(), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsValidationError(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSendToClient(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		h := newFlowHarness(t, testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test")

		client, err := fixtures.CreateTestClient()
		require.NoError(t, err)
		city, err := fixtures.CreateTestCity(models.FeeModelPauschal, "20.00")
		require.NoError(t, err)

		list, err := fixtures.CreateTestList(client, models.DistributionListStatusDraft)
		require.NoError(t, err)
		_, err = fixtures.CreateTestItem(list, city, 10, models.PosterSizeA1)
		require.NoError(t, err)

		resp, err := h.flow.SendToClient(ctx, list.UUID.String(), metadata)
		require.NoError(t, err)
		assert.Equal(t, "sent", resp.Status)
		assert.Equal(t, client.Email, resp.Recipient)

		require.Len(t, h.sender.Sent, 1)
		assert.Equal(t, []string{client.Email}, h.sender.Sent[0].To)
		assert.Contains(t, string(h.sender.Sent[0].Raw), "application/pdf")

		got, err := h.flow.GetList(ctx, list.UUID.String())
		require.NoError(t, err)
		assert.Equal(t, "sent", got.Status)

		t.Run("DispatchFailureKeepsDraft", func(t *testing.T) {
			failing, err := fixtures.CreateTestClient()
			require.NoError(t, err)
			h.sender.FailFor[failing.Email] = fmt.Errorf("connection refused")

			list, err := fixtures.CreateTestList(failing, models.DistributionListStatusDraft)
			require.NoError(t, err)
			_, err = fixtures.CreateTestItem(list, city, 5, models.PosterSizeA0)
			require.NoError(t, err)

			_, err = h.flow.SendToClient(ctx, list.UUID.String(), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsDispatchFailed(err))

			got, err := h.flow.GetList(ctx, list.UUID.String())
			require.NoError(t, err)
			assert.Equal(t, "draft", got.Status)
			assert.Nil(t, got.SentAt)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSendPermitApplications(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		h := newFlowHarness(t, testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test")

		client, err := fixtures.CreateTestClient()
		require.NoError(t, err)

		okCity, err := fixtures.CreateTestCity(models.FeeModelPauschal, "20.00")
		require.NoError(t, err)
		brokenCity, err := fixtures.CreateTestCity(models.FeeModelProPlakat, "2.00")
		require.NoError(t, err)
		silentCity, err := fixtures.CreateTestCity(models.FeeModelPauschal, "0.00")
		require.NoError(t, err)

		// One recipient refuses delivery, one has no address on file.
		h.sender.FailFor[brokenCity.ContactEmail] = fmt.Errorf("mailbox unavailable")
		require.NoError(t, testDB.DB.Model(silentCity).Update("contact_email", "").Error)

		list, err := fixtures.CreateTestList(client, models.DistributionListStatusAccepted)
		require.NoError(t, err)
		for _, city := range []*models.City{okCity, brokenCity, silentCity} {
			_, err = fixtures.CreateTestItem(list, city, 5, models.PosterSizeA1)
			require.NoError(t, err)
		}

		resp, err := h.flow.SendPermitApplications(ctx, list.UUID.String(), metadata)
		require.NoError(t, err, "partial failure is not an error")

		assert.Equal(t, 1, resp.Sent)
		assert.Equal(t, 1, resp.Skipped)
		assert.Equal(t, 1, resp.Failed)
		assert.Len(t, resp.Outcomes, 3)
		assert.Equal(t, "1 sent, 1 skipped, 1 failed", resp.Message)

		require.Len(t, h.sender.Sent, 1)
		assert.Equal(t, []string{okCity.ContactEmail}, h.sender.Sent[0].To)

		// The delivered item carries its sent stamp, the others do not.
		var items []models.DistributionListItem
		require.NoError(t, testDB.DB.Where("distribution_list_id = ?", list.ID).Find(&items).Error)
		for _, item := range items {
			if item.CityID == okCity.ID {
				assert.NotNil(t, item.RequestSentAt)
			} else {
				assert.Nil(t, item.RequestSentAt)
			}
		}

		// Every attempt leaves an audit row.
		var audits int64
		require.NoError(t, testDB.DB.Model(&models.PermitEmail{}).Count(&audits).Error)
		assert.Equal(t, int64(3), audits)

		return nil
	})
	require.NoError(t, err)
}
