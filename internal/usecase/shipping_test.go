//go:build unit

package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/shipping"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/errs"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShippingRepo struct {
	createErr error
	records   map[string]*shipping.Record
}

func (f *fakeShippingRepo) Create(_ context.Context, rec *shipping.Record) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.records[rec.ConfirmationNumber]; exists {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "shipping record already exists", nil)
	}
	f.records[rec.ConfirmationNumber] = rec
	return nil
}

func (f *fakeShippingRepo) FindByConfirmation(_ context.Context, confirmationNumber string) (*shipping.Record, error) {
	rec, ok := f.records[confirmationNumber]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "shipping record not found", nil)
	}
	return rec, nil
}

func testShippingEvent() shipping.Event {
	return shipping.Event{
		ConfirmationNumber: "ABC123XYZ0",
		BusinessID:         1,
		Address: shipping.Address{
			Name:         "Jane Smith",
			AddressLine1: "123 Main St",
			City:         "Columbus",
			State:        "OH",
			Zip:          "43210",
		},
		NumPackets: 3,
		WeightKg:   7.5,
	}
}

func newShippingUC(repo *fakeShippingRepo) usecase.ShippingUseCase {
	return usecase.NewShippingUseCase(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleEvent(t *testing.T) {
	t.Run("persists a record for a new event", func(t *testing.T) {
		repo := &fakeShippingRepo{records: make(map[string]*shipping.Record)}
		uc := newShippingUC(repo)

		require.NoError(t, uc.HandleEvent(context.Background(), testShippingEvent()))

		rec, err := uc.GetRecord(context.Background(), "ABC123XYZ0")
		require.NoError(t, err)
		assert.Equal(t, int32(3), rec.NumPackets)
		assert.Equal(t, "Columbus", rec.Address.City)
	})

	t.Run("redelivered event is a no-op success", func(t *testing.T) {
		repo := &fakeShippingRepo{records: make(map[string]*shipping.Record)}
		uc := newShippingUC(repo)

		event := testShippingEvent()
		require.NoError(t, uc.HandleEvent(context.Background(), event))
		require.NoError(t, uc.HandleEvent(context.Background(), event), "duplicate must not error")

		assert.Len(t, repo.records, 1, "exactly one record per confirmation number")
	})

	t.Run("invalid event is rejected", func(t *testing.T) {
		repo := &fakeShippingRepo{records: make(map[string]*shipping.Record)}
		uc := newShippingUC(repo)

		event := testShippingEvent()
		event.NumPackets = 0
		assert.ErrorIs(t, uc.HandleEvent(context.Background(), event), shipping.ErrNonPositivePackets)
		assert.Empty(t, repo.records)
	})

	t.Run("store failure surfaces for redelivery", func(t *testing.T) {
		repo := &fakeShippingRepo{
			createErr: infra.WrapRepoErr(infra.KindDBFailure, "connection reset", nil),
			records:   make(map[string]*shipping.Record),
		}
		uc := newShippingUC(repo)

		err := uc.HandleEvent(context.Background(), testShippingEvent())
		assert.ErrorIs(t, err, errs.ErrDatabaseOperationFailed)
	})
}

func TestGetShippingRecord(t *testing.T) {
	repo := &fakeShippingRepo{records: make(map[string]*shipping.Record)}
	uc := newShippingUC(repo)

	_, err := uc.GetRecord(context.Background(), "UNKNOWN000")
	assert.ErrorIs(t, err, errs.ErrOrderNotFound)
}
