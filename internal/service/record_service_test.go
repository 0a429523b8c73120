package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shipdesk/internal/config"
	"shipdesk/internal/domain"
	"shipdesk/internal/service"
	"shipdesk/internal/extraction"
	"shipdesk/mocks"
)

func recordFixture(id int64, truckNo string) domain.ShipmentRecord {
	r := domain.ShipmentRecord{ID: id, PageNumber: int(id)}
	if truckNo != "" {
		r.TruckNo = &truckNo
	}
	return r
}

func newRecordService(extractor *mocks.MockExtractor, markerTTL time.Duration) *service.RecordService {
	return service.NewRecordService(extractor, config.PollConfig{
		Interval:      2 * time.Second,
		StatusTimeout: time.Second,
		MarkerTTL:     markerTTL,
	})
}

func TestRefreshMarksNewRecords(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	svc := newRecordService(extractor, time.Hour)

	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, ""),
	}, nil).Once()
	_, err := svc.Refresh(context.Background(), false)
	require.NoError(t, err)

	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, ""),
		recordFixture(2, "MH12AB1234"),
		recordFixture(3, ""),
	}, nil).Once()
	listing, err := svc.Refresh(context.Background(), true)
	require.NoError(t, err)

	assert.Len(t, listing.Records, 3)
	assert.ElementsMatch(t, []int64{2, 3}, listing.NewIDs)
}

func TestRefreshMarkerSelfClears(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	svc := newRecordService(extractor, 20*time.Millisecond)

	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, ""),
	}, nil)
	listing, err := svc.Refresh(context.Background(), true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1}, listing.NewIDs)

	assert.Eventually(t, func() bool {
		l, err := svc.List(context.Background())
		return err == nil && len(l.NewIDs) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestRefreshReplacesCacheWholesale(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	svc := newRecordService(extractor, time.Hour)

	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, ""), recordFixture(2, ""),
	}, nil).Once()
	_, err := svc.Refresh(context.Background(), false)
	require.NoError(t, err)

	// Upstream dropped record 2
	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, ""),
	}, nil).Once()
	listing, err := svc.Refresh(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, listing.Records, 1)
}

func TestRefreshFailureEmptiesCache(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	svc := newRecordService(extractor, time.Hour)

	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, ""),
	}, nil).Once()
	_, err := svc.Refresh(context.Background(), false)
	require.NoError(t, err)

	extractor.On("ListRecords", mock.Anything).Return(nil, errors.New("connection refused")).Once()
	_, err = svc.Refresh(context.Background(), false)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRecordsUnavailable)

	// The next List must refetch, not serve stale data
	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{}, nil).Once()
	listing, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listing.Records)
}

func TestRefreshFailureClearsNewMarkers(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	svc := newRecordService(extractor, time.Hour)

	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, ""),
	}, nil).Once()
	listing, err := svc.Refresh(context.Background(), true)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{1}, listing.NewIDs)

	extractor.On("ListRecords", mock.Anything).Return(nil, errors.New("connection refused")).Once()
	_, err = svc.Refresh(context.Background(), false)
	require.Error(t, err)

	// The markers went with the cache: no ghost highlights on the next list
	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, ""),
	}, nil).Once()
	listing, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, listing.Records, 1)
	assert.Empty(t, listing.NewIDs)
}

func TestRefreshMissingEndpoint(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	svc := newRecordService(extractor, time.Hour)

	extractor.On("ListRecords", mock.Anything).Return(nil, &extraction.UpstreamError{StatusCode: 404, Detail: "not found"})
	_, err := svc.Refresh(context.Background(), false)
	assert.ErrorIs(t, err, domain.ErrRecordsUnavailable)
}

func TestListFetchesOnFirstUse(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	svc := newRecordService(extractor, time.Hour)

	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, ""),
	}, nil).Once()

	listing, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, listing.Records, 1)

	// Second call serves the cache; the mock would fail on a second fetch
	listing, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, listing.Records, 1)
	extractor.AssertNumberOfCalls(t, "ListRecords", 1)
}

func TestBeginEditDiscardsPending(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	svc := newRecordService(extractor, time.Hour)

	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, ""), recordFixture(2, ""),
	}, nil).Once()
	_, err := svc.Refresh(context.Background(), false)
	require.NoError(t, err)

	discarded, err := svc.BeginEdit(1)
	require.NoError(t, err)
	assert.False(t, discarded)

	require.NoError(t, svc.StageField("Truck No", "MH12AB1234"))

	discarded, err = svc.BeginEdit(2)
	require.NoError(t, err)
	assert.True(t, discarded)
}

func TestBeginEditUnknownRecord(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	svc := newRecordService(extractor, time.Hour)

	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{}, nil).Once()
	_, err := svc.Refresh(context.Background(), false)
	require.NoError(t, err)

	_, err = svc.BeginEdit(99)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestStageFieldRejectsNonEditable(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	svc := newRecordService(extractor, time.Hour)

	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, ""),
	}, nil).Once()
	_, err := svc.Refresh(context.Background(), false)
	require.NoError(t, err)

	_, err = svc.BeginEdit(1)
	require.NoError(t, err)

	assert.Error(t, svc.StageField("Page", "7"))
	assert.Error(t, svc.StageField("Doc Type", "LR"))
	assert.Error(t, svc.StageField("Nonexistent", "x"))
}

func TestUpdateTranslatesAndNormalizes(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	svc := newRecordService(extractor, time.Hour)

	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, ""),
	}, nil)

	_, err := svc.Refresh(context.Background(), false)
	require.NoError(t, err)

	extractor.On("UpdateRecord", mock.Anything, int64(1), mock.MatchedBy(func(fields map[string]*string) bool {
		truck, ok := fields["truck_no"]
		if !ok || truck == nil || *truck != "MH12AB1234" {
			return false
		}
		// "-" normalizes to null
		lrDate, ok := fields["lr_date"]
		return ok && lrDate == nil
	})).Return(nil).Once()

	_, err = svc.Update(context.Background(), 1, map[string]string{
		"Truck No": "MH12AB1234",
		"LR Date":  "-",
	})
	require.NoError(t, err)
	extractor.AssertExpectations(t)
}

func TestUpdateFailureKeepsBuffer(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	svc := newRecordService(extractor, time.Hour)

	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, ""),
	}, nil).Once()
	_, err := svc.Refresh(context.Background(), false)
	require.NoError(t, err)

	upstreamErr := &extraction.UpstreamError{StatusCode: 422, Detail: "invalid truck number"}
	extractor.On("UpdateRecord", mock.Anything, int64(1), mock.Anything).Return(upstreamErr).Once()

	_, err = svc.Update(context.Background(), 1, map[string]string{"Truck No": "bogus"})
	require.Error(t, err)
	var ue *extraction.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "invalid truck number", ue.Detail)

	// Buffer survives the failure: a retry commit goes straight through
	extractor.On("UpdateRecord", mock.Anything, int64(1), mock.Anything).Return(nil).Once()
	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, "bogus"),
	}, nil).Once()
	_, err = svc.CommitEdit(context.Background())
	require.NoError(t, err)
}

func TestCommitEditConflictAfterRefresh(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	svc := newRecordService(extractor, time.Hour)

	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(1, ""),
	}, nil).Once()
	_, err := svc.Refresh(context.Background(), false)
	require.NoError(t, err)

	_, err = svc.BeginEdit(1)
	require.NoError(t, err)
	require.NoError(t, svc.StageField("Truck No", "MH12AB1234"))

	// Record 1 vanishes upstream before the commit
	extractor.On("ListRecords", mock.Anything).Return([]domain.ShipmentRecord{
		recordFixture(2, ""),
	}, nil).Once()
	_, err = svc.Refresh(context.Background(), false)
	require.NoError(t, err)

	_, err = svc.CommitEdit(context.Background())
	assert.ErrorIs(t, err, domain.ErrEditConflict)
}

func TestCommitEditWithoutBegin(t *testing.T) {
	extractor := new(mocks.MockExtractor)
	svc := newRecordService(extractor, time.Hour)

	_, err := svc.CommitEdit(context.Background())
	assert.ErrorIs(t, err, domain.ErrEditNotStarted)
}
