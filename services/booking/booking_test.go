package booking

import (
	"context"
	"testing"
	"time"

	"roamly/models"
	"roamly/utils"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	insertFn         func(ctx context.Context, booking *models.Booking) error
	getByIDFn        func(ctx context.Context, id string) (*models.Booking, error)
	listByTouristFn  func(ctx context.Context, touristID string) ([]models.Booking, error)
	listByHostFn     func(ctx context.Context, hostID string) ([]models.Booking, error)
	updateStatusIfFn func(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus, set bson.M) (bool, error)
}

func (m *mockBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	return m.insertFn(ctx, booking)
}
func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockBookingRepo) ListByTourist(ctx context.Context, touristID string) ([]models.Booking, error) {
	return m.listByTouristFn(ctx, touristID)
}
func (m *mockBookingRepo) ListByHost(ctx context.Context, hostID string) ([]models.Booking, error) {
	return m.listByHostFn(ctx, hostID)
}
func (m *mockBookingRepo) UpdateStatusIf(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus, set bson.M) (bool, error) {
	return m.updateStatusIfFn(ctx, id, from, to, set)
}

// --- Mock CatalogRepository ---

type mockCatalogRepo struct {
	getByIDFn      func(ctx context.Context, id string) (*models.Service, error)
	updateRatingFn func(ctx context.Context, serviceID string, rating models.ServiceRating) error
}

func (m *mockCatalogRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockCatalogRepo) UpdateRating(ctx context.Context, serviceID string, rating models.ServiceRating) error {
	return m.updateRatingFn(ctx, serviceID, rating)
}

// --- Mock EscrowRefunder ---

type mockEscrow struct {
	refundFn func(ctx context.Context, bookingID, reason string) error
}

func (m *mockEscrow) RefundForCancelledBooking(ctx context.Context, bookingID, reason string) error {
	return m.refundFn(ctx, bookingID, reason)
}

// --- Fixtures ---

func activeService() *models.Service {
	return &models.Service{
		ID:      "svc-1",
		HostID:  "host-1",
		Pricing: models.ServicePricing{Amount: 50, Currency: "USD"},
		Status:  models.ServiceActive,
	}
}

func sampleBooking(status models.BookingStatus) *models.Booking {
	return &models.Booking{
		ID:          "bk-1",
		ServiceID:   "svc-1",
		TouristID:   "tourist-1",
		HostID:      "host-1",
		BookingDate: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:    models.TimeSlot{StartTime: "09:00", EndTime: "11:00"},
		Status:      status,
	}
}

func newBookingService(repo *mockBookingRepo, catalog *mockCatalogRepo, escrow EscrowRefunder, now time.Time) *DefaultBookingService {
	return &DefaultBookingService{
		Repo:         repo,
		Catalog:      catalog,
		Escrow:       escrow,
		Logger:       zap.NewNop(),
		FeePercent:   10,
		CancelCutoff: 24 * time.Hour,
		Now:          func() time.Time { return now },
	}
}

// --- Pricing ---

func TestComputePricing(t *testing.T) {
	p := ComputePricing(100, 10, "USD")
	assert.Equal(t, 100.0, p.BaseAmount)
	assert.Equal(t, 10.0, p.ServiceFee)
	assert.Equal(t, 110.0, p.TotalAmount)
	assert.Equal(t, "USD", p.Currency)
}

func TestComputePricing_RoundsFee(t *testing.T) {
	p := ComputePricing(33.33, 15, "EUR")
	assert.Equal(t, 33.33, p.BaseAmount)
	assert.Equal(t, 5.0, p.ServiceFee) // 4.9995 rounds up
	assert.Equal(t, 38.33, p.TotalAmount)
}

func TestComputePricing_ZeroFee(t *testing.T) {
	p := ComputePricing(80, 0, "USD")
	assert.Equal(t, 0.0, p.ServiceFee)
	assert.Equal(t, 80.0, p.TotalAmount)
}

// --- Transition table ---

func TestTransitionTable(t *testing.T) {
	allowed := []struct{ from, to models.BookingStatus }{
		{models.BookingPending, models.BookingConfirmed},
		{models.BookingPending, models.BookingRejected},
		{models.BookingPending, models.BookingCancelled},
		{models.BookingConfirmed, models.BookingInProgress},
		{models.BookingConfirmed, models.BookingCancelled},
		{models.BookingInProgress, models.BookingCompleted},
		{models.BookingInProgress, models.BookingCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, transitionAllowed(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to models.BookingStatus }{
		{models.BookingCompleted, models.BookingConfirmed},
		{models.BookingCompleted, models.BookingCancelled},
		{models.BookingCancelled, models.BookingConfirmed},
		{models.BookingRejected, models.BookingConfirmed},
		{models.BookingPending, models.BookingCompleted},
		{models.BookingConfirmed, models.BookingCompleted},
	}
	for _, tc := range denied {
		assert.False(t, transitionAllowed(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

// --- CreateBooking ---

func TestCreateBooking_Success(t *testing.T) {
	var inserted *models.Booking
	repo := &mockBookingRepo{
		insertFn: func(ctx context.Context, bk *models.Booking) error {
			inserted = bk
			return nil
		},
	}
	catalog := &mockCatalogRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Service, error) {
			return activeService(), nil
		},
	}
	svc := newBookingService(repo, catalog, nil, time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))

	bk, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		ServiceID:      "svc-1",
		TouristID:      "tourist-1",
		BookingDate:    time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:       models.TimeSlot{StartTime: "09:00", EndTime: "11:00"},
		NumberOfGuests: 2,
	})

	assert.NoError(t, err)
	assert.NotNil(t, inserted)
	assert.Equal(t, models.BookingPending, bk.Status)
	assert.Equal(t, "host-1", bk.HostID)
	// 2 guests at 50 each, plus the 10% platform fee.
	assert.Equal(t, 100.0, bk.Pricing.BaseAmount)
	assert.Equal(t, 10.0, bk.Pricing.ServiceFee)
	assert.Equal(t, 110.0, bk.Pricing.TotalAmount)
}

func TestCreateBooking_OwnService_Forbidden(t *testing.T) {
	catalog := &mockCatalogRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Service, error) {
			return activeService(), nil
		},
	}
	svc := newBookingService(&mockBookingRepo{}, catalog, nil, time.Now())

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		ServiceID:      "svc-1",
		TouristID:      "host-1",
		BookingDate:    time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:       models.TimeSlot{StartTime: "09:00", EndTime: "11:00"},
		NumberOfGuests: 1,
	})

	assert.Equal(t, utils.CodeForbidden, utils.ErrorCode(err))
}

func TestCreateBooking_InactiveService_InvalidState(t *testing.T) {
	catalog := &mockCatalogRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Service, error) {
			s := activeService()
			s.Status = models.ServiceArchived
			return s, nil
		},
	}
	svc := newBookingService(&mockBookingRepo{}, catalog, nil, time.Now())

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		ServiceID:      "svc-1",
		TouristID:      "tourist-1",
		BookingDate:    time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:       models.TimeSlot{StartTime: "09:00", EndTime: "11:00"},
		NumberOfGuests: 1,
	})

	assert.Equal(t, utils.CodeInvalidState, utils.ErrorCode(err))
}

func TestCreateBooking_ZeroGuests_Validation(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{}, &mockCatalogRepo{}, nil, time.Now())

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		ServiceID:      "svc-1",
		TouristID:      "tourist-1",
		BookingDate:    time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:       models.TimeSlot{StartTime: "09:00", EndTime: "11:00"},
		NumberOfGuests: 0,
	})

	assert.Equal(t, utils.CodeValidation, utils.ErrorCode(err))
}

// --- UpdateStatus ---

func TestUpdateStatus_HostConfirms(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Booking, error) {
			return sampleBooking(models.BookingPending), nil
		},
		updateStatusIfFn: func(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus, set bson.M) (bool, error) {
			assert.Equal(t, []models.BookingStatus{models.BookingPending}, from)
			assert.Equal(t, models.BookingConfirmed, to)
			return true, nil
		},
	}
	svc := newBookingService(repo, &mockCatalogRepo{}, nil, time.Now())

	bk, err := svc.UpdateStatus(context.Background(), "bk-1", "host-1", models.BookingConfirmed)

	assert.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, bk.Status)
}

func TestUpdateStatus_NotHost_Forbidden(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Booking, error) {
			return sampleBooking(models.BookingPending), nil
		},
	}
	svc := newBookingService(repo, &mockCatalogRepo{}, nil, time.Now())

	_, err := svc.UpdateStatus(context.Background(), "bk-1", "tourist-1", models.BookingConfirmed)

	assert.Equal(t, utils.CodeForbidden, utils.ErrorCode(err))
}

func TestUpdateStatus_CompletedToConfirmed_InvalidTransition(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Booking, error) {
			return sampleBooking(models.BookingCompleted), nil
		},
	}
	svc := newBookingService(repo, &mockCatalogRepo{}, nil, time.Now())

	_, err := svc.UpdateStatus(context.Background(), "bk-1", "host-1", models.BookingConfirmed)

	assert.Equal(t, utils.CodeInvalidTransition, utils.ErrorCode(err))
}

func TestUpdateStatus_SkippingStates_InvalidTransition(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Booking, error) {
			return sampleBooking(models.BookingPending), nil
		},
	}
	svc := newBookingService(repo, &mockCatalogRepo{}, nil, time.Now())

	_, err := svc.UpdateStatus(context.Background(), "bk-1", "host-1", models.BookingCompleted)

	assert.Equal(t, utils.CodeInvalidTransition, utils.ErrorCode(err))
}

func TestUpdateStatus_HostCancel_Forbidden(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Booking, error) {
			return sampleBooking(models.BookingConfirmed), nil
		},
	}
	svc := newBookingService(repo, &mockCatalogRepo{}, nil, time.Now())

	_, err := svc.UpdateStatus(context.Background(), "bk-1", "host-1", models.BookingCancelled)

	assert.Equal(t, utils.CodeForbidden, utils.ErrorCode(err))
}

func TestUpdateStatus_Complete_SetsCompletedAt(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Booking, error) {
			return sampleBooking(models.BookingInProgress), nil
		},
		updateStatusIfFn: func(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus, set bson.M) (bool, error) {
			assert.Equal(t, now, set["completed_at"])
			return true, nil
		},
	}
	svc := newBookingService(repo, &mockCatalogRepo{}, nil, now)

	bk, err := svc.UpdateStatus(context.Background(), "bk-1", "host-1", models.BookingCompleted)

	assert.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, bk.Status)
	if assert.NotNil(t, bk.CompletedAt) {
		assert.Equal(t, now, *bk.CompletedAt)
	}
}

func TestUpdateStatus_LostRace_InvalidTransition(t *testing.T) {
	reads := 0
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Booking, error) {
			reads++
			if reads == 1 {
				return sampleBooking(models.BookingPending), nil
			}
			// Another actor cancelled the booking between read and write.
			return sampleBooking(models.BookingCancelled), nil
		},
		updateStatusIfFn: func(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus, set bson.M) (bool, error) {
			return false, nil
		},
	}
	svc := newBookingService(repo, &mockCatalogRepo{}, nil, time.Now())

	_, err := svc.UpdateStatus(context.Background(), "bk-1", "host-1", models.BookingConfirmed)

	assert.Equal(t, utils.CodeInvalidTransition, utils.ErrorCode(err))
	assert.Contains(t, err.Error(), "cancelled")
}

// --- Cancel ---

func TestCancel_BeforeCutoff_RefundsEscrow(t *testing.T) {
	now := time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC) // 48h before booking date
	refunded := false
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Booking, error) {
			return sampleBooking(models.BookingConfirmed), nil
		},
		updateStatusIfFn: func(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus, set bson.M) (bool, error) {
			assert.Equal(t, models.BookingCancelled, to)
			assert.Equal(t, "change of plans", set["cancellation_reason"])
			return true, nil
		},
	}
	escrow := &mockEscrow{
		refundFn: func(ctx context.Context, bookingID, reason string) error {
			refunded = true
			return nil
		},
	}
	svc := newBookingService(repo, &mockCatalogRepo{}, escrow, now)

	bk, err := svc.Cancel(context.Background(), "bk-1", "tourist-1", "change of plans")

	assert.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, bk.Status)
	assert.True(t, refunded)
}

func TestCancel_WithinCutoff_DeadlineExceeded(t *testing.T) {
	now := time.Date(2026, 6, 9, 12, 0, 0, 0, time.UTC) // 12h before booking date
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Booking, error) {
			return sampleBooking(models.BookingConfirmed), nil
		},
	}
	svc := newBookingService(repo, &mockCatalogRepo{}, nil, now)

	_, err := svc.Cancel(context.Background(), "bk-1", "tourist-1", "too late")

	assert.Equal(t, utils.CodeDeadlineExceeded, utils.ErrorCode(err))
}

func TestCancel_WithinCutoff_DeadlineExceededRegardlessOfStatus(t *testing.T) {
	now := time.Date(2026, 6, 9, 12, 0, 0, 0, time.UTC) // 12h before booking date
	for _, status := range models.BookingStatuses {
		repo := &mockBookingRepo{
			getByIDFn: func(ctx context.Context, id string) (*models.Booking, error) {
				return sampleBooking(status), nil
			},
		}
		svc := newBookingService(repo, &mockCatalogRepo{}, nil, now)

		_, err := svc.Cancel(context.Background(), "bk-1", "tourist-1", "last minute")

		assert.Equal(t, utils.CodeDeadlineExceeded, utils.ErrorCode(err), "status %s", status)
	}
}

func TestCancel_NotTourist_Forbidden(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Booking, error) {
			return sampleBooking(models.BookingPending), nil
		},
	}
	svc := newBookingService(repo, &mockCatalogRepo{}, nil, time.Now())

	_, err := svc.Cancel(context.Background(), "bk-1", "host-1", "nope")

	assert.Equal(t, utils.CodeForbidden, utils.ErrorCode(err))
}

func TestCancel_InProgress_InvalidState(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Booking, error) {
			return sampleBooking(models.BookingInProgress), nil
		},
	}
	svc := newBookingService(repo, &mockCatalogRepo{}, nil, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.Cancel(context.Background(), "bk-1", "tourist-1", "changed my mind")

	assert.Equal(t, utils.CodeInvalidState, utils.ErrorCode(err))
}

func TestCancel_RefundFailure_BookingStillCancelled(t *testing.T) {
	now := time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC)
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Booking, error) {
			return sampleBooking(models.BookingConfirmed), nil
		},
		updateStatusIfFn: func(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus, set bson.M) (bool, error) {
			return true, nil
		},
	}
	escrow := &mockEscrow{
		refundFn: func(ctx context.Context, bookingID, reason string) error {
			return utils.GatewayErr("provider unreachable")
		},
	}
	svc := newBookingService(repo, &mockCatalogRepo{}, escrow, now)

	bk, err := svc.Cancel(context.Background(), "bk-1", "tourist-1", "change of plans")

	// The cancellation commit stands; the refund is retried out of band.
	assert.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, bk.Status)
}
