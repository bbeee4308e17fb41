//go:build unit

package usecase_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/inventory"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/order"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/payment"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/shipping"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra/postgres"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/clock"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/errs"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const testTopic = "shipping.requested"

// ---- fakes ----

type fakeInventoryGW struct {
	items        map[int64]inventory.Item
	reserveRes   inventory.Result
	reserveErr   error
	releaseErr   error
	reserveCalls int
	releaseCalls int
}

func (f *fakeInventoryGW) GetItem(_ context.Context, id int64) (*inventory.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, errs.ErrItemNotFound
	}
	return &it, nil
}

func (f *fakeInventoryGW) Reserve(_ context.Context, _ inventory.Batch) (inventory.Result, error) {
	f.reserveCalls++
	if f.reserveErr != nil {
		return inventory.Result{}, f.reserveErr
	}
	return f.reserveRes, nil
}

func (f *fakeInventoryGW) Release(_ context.Context, _ inventory.Batch) error {
	f.releaseCalls++
	return f.releaseErr
}

type fakePaymentGW struct {
	confirmation string
	chargeErr    error
	chargeCalls  int
	flagged      []string
}

func (f *fakePaymentGW) Charge(_ context.Context, _ payment.CardDetails) (string, error) {
	f.chargeCalls++
	if f.chargeErr != nil {
		return "", f.chargeErr
	}
	return f.confirmation, nil
}

func (f *fakePaymentGW) FlagReversal(_ context.Context, confirmationNumber string) error {
	f.flagged = append(f.flagged, confirmationNumber)
	return nil
}

type fakeOrderRepo struct {
	createErr error
	created   *order.Order
	stored    map[string]*postgres.OrderRM
}

func (f *fakeOrderRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeOrderRepo) Create(_ context.Context, o *order.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = o
	f.stored[o.ConfirmationNumber()] = &postgres.OrderRM{
		ID:                  o.ID(),
		ConfirmationNumber:  o.ConfirmationNumber(),
		CustomerName:        o.CustomerName(),
		PaymentConfirmation: o.PaymentConfirmation(),
		Items:               o.Items(),
		CreatedAt:           o.CreatedAt(),
	}
	return nil
}

func (f *fakeOrderRepo) FindByConfirmation(_ context.Context, confirmationNumber string) (*postgres.OrderRM, error) {
	rm, ok := f.stored[confirmationNumber]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "order not found", nil)
	}
	return rm, nil
}

type enqueuedEvent struct {
	topic   string
	key     string
	payload []byte
}

type fakeOutboxRepo struct {
	enqueueErr error
	events     []enqueuedEvent
}

func (f *fakeOutboxRepo) Enqueue(_ context.Context, topic, key string, payload []byte, _ time.Time) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.events = append(f.events, enqueuedEvent{topic: topic, key: key, payload: payload})
	return nil
}

type fakeIdempotencyRepo struct {
	records map[uuid.UUID]*postgres.IdempotencyRecord
}

func (f *fakeIdempotencyRepo) TryInsert(_ context.Context, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	if _, exists := f.records[key]; exists {
		return false, nil
	}
	f.records[key] = &postgres.IdempotencyRecord{
		Key:         key,
		Endpoint:    endpoint,
		RequestHash: requestHash,
		Status:      postgres.IdempotencyStatusProcessing,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (f *fakeIdempotencyRepo) Get(_ context.Context, key uuid.UUID, _ string) (*postgres.IdempotencyRecord, error) {
	rec, ok := f.records[key]
	if !ok {
		return nil, errors.New("idempotency key not found")
	}
	return rec, nil
}

func (f *fakeIdempotencyRepo) MarkCompleted(_ context.Context, key uuid.UUID, _, confirmationNumber string) error {
	rec := f.records[key]
	rec.Status = postgres.IdempotencyStatusCompleted
	rec.ConfirmationNumber = &confirmationNumber
	return nil
}

// ---- suite ----

type CheckoutSagaTestSuite struct {
	suite.Suite
	inventoryGW *fakeInventoryGW
	paymentGW   *fakePaymentGW
	orderRepo   *fakeOrderRepo
	outboxRepo  *fakeOutboxRepo
	idemRepo    *fakeIdempotencyRepo
	uc          usecase.CheckoutUseCase
}

func (s *CheckoutSagaTestSuite) SetupTest() {
	s.inventoryGW = &fakeInventoryGW{
		items: map[int64]inventory.Item{
			1: {ID: 1, Name: "Colorado Ski Adventure", PriceCents: 64900, AvailableTickets: 15},
			2: {ID: 2, Name: "Tropical Paradise Retreat", PriceCents: 89900, AvailableTickets: 15},
		},
		reserveRes: inventory.Result{Committed: true},
	}
	s.paymentGW = &fakePaymentGW{confirmation: "PAY1234567"}
	s.orderRepo = &fakeOrderRepo{stored: make(map[string]*postgres.OrderRM)}
	s.outboxRepo = &fakeOutboxRepo{}
	s.idemRepo = &fakeIdempotencyRepo{records: make(map[uuid.UUID]*postgres.IdempotencyRecord)}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fixed := clock.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	s.uc = usecase.NewCheckoutUseCase(
		s.inventoryGW,
		s.paymentGW,
		s.orderRepo,
		s.outboxRepo,
		s.idemRepo,
		testTopic,
		fixed,
		logger,
	)
}

func TestCheckoutSagaSuite(t *testing.T) {
	suite.Run(t, new(CheckoutSagaTestSuite))
}

func validParams() usecase.CheckoutParams {
	return usecase.CheckoutParams{
		Lines: []inventory.ReservationLine{
			{ItemID: 1, Quantity: 2},
			{ItemID: 2, Quantity: 1},
		},
		Card: payment.CardDetails{
			CardHolderName: "Jane Smith",
			CardNumber:     "4111111111111111",
			ExpDate:        "12/27",
			CVV:            "123",
		},
		Shipping: shipping.Address{
			Name:         "Jane Smith",
			AddressLine1: "123 Main St",
			City:         "Columbus",
			State:        "OH",
			Zip:          "43210",
		},
	}
}

func (s *CheckoutSagaTestSuite) TestHappyPath() {
	key := uuid.New()

	result, err := s.uc.Checkout(context.Background(), validParams(), key)
	s.Require().NoError(err)
	s.Require().NotNil(result)

	s.Len(result.ConfirmationNumber, 10)
	s.Require().Len(result.Items, 2)
	s.Equal("Colorado Ski Adventure", result.Items[0].Name)
	s.Equal(int64(64900), result.Items[0].PriceCents)

	// Order persisted with the payment confirmation attached.
	s.Require().NotNil(s.orderRepo.created)
	s.Equal("PAY1234567", s.orderRepo.created.PaymentConfirmation())
	s.Equal("Jane Smith", s.orderRepo.created.CustomerName())

	// One shipping event enqueued, keyed by the order confirmation number.
	s.Require().Len(s.outboxRepo.events, 1)
	ev := s.outboxRepo.events[0]
	s.Equal(testTopic, ev.topic)
	s.Equal(result.ConfirmationNumber, ev.key)

	var event shipping.Event
	s.Require().NoError(json.Unmarshal(ev.payload, &event))
	s.Equal(result.ConfirmationNumber, event.ConfirmationNumber)
	s.Equal(int32(3), event.NumPackets, "one packet per ordered unit")
	s.InDelta(7.5, event.WeightKg, 0.001)
	s.Equal("Columbus", event.Address.City)

	// Idempotency record completed with the confirmation number.
	rec := s.idemRepo.records[key]
	s.Equal(postgres.IdempotencyStatusCompleted, rec.Status)
	s.Require().NotNil(rec.ConfirmationNumber)
	s.Equal(result.ConfirmationNumber, *rec.ConfirmationNumber)

	// Nothing was compensated.
	s.Zero(s.inventoryGW.releaseCalls)
	s.Empty(s.paymentGW.flagged)
}

func (s *CheckoutSagaTestSuite) TestMissingIdempotencyKey() {
	_, err := s.uc.Checkout(context.Background(), validParams(), uuid.Nil)
	s.ErrorIs(err, errs.ErrIdempotencyKeyRequired)
	s.Zero(s.inventoryGW.reserveCalls)
}

func (s *CheckoutSagaTestSuite) TestValidationRejectsBeforeAnyDownstreamCall() {
	cases := []struct {
		name   string
		mutate func(*usecase.CheckoutParams)
		errIs  error
	}{
		{
			name:   "no lines",
			mutate: func(p *usecase.CheckoutParams) { p.Lines = nil },
			errIs:  inventory.ErrEmptyBatch,
		},
		{
			name: "duplicate line",
			mutate: func(p *usecase.CheckoutParams) {
				p.Lines = append(p.Lines, inventory.ReservationLine{ItemID: 1, Quantity: 1})
			},
			errIs: inventory.ErrDuplicateItem,
		},
		{
			name:   "missing card holder",
			mutate: func(p *usecase.CheckoutParams) { p.Card.CardHolderName = "" },
			errIs:  payment.ErrMissingHolderName,
		},
		{
			name:   "missing shipping city",
			mutate: func(p *usecase.CheckoutParams) { p.Shipping.City = "" },
			errIs:  shipping.ErrMissingCity,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.SetupTest()
			params := validParams()
			tc.mutate(&params)

			_, err := s.uc.Checkout(context.Background(), params, uuid.New())
			s.ErrorIs(err, tc.errIs)
			s.Zero(s.inventoryGW.reserveCalls)
			s.Zero(s.paymentGW.chargeCalls)
		})
	}
}

func (s *CheckoutSagaTestSuite) TestUnknownItemFailsQuote() {
	params := validParams()
	params.Lines = append(params.Lines, inventory.ReservationLine{ItemID: 99, Quantity: 1})

	_, err := s.uc.Checkout(context.Background(), params, uuid.New())
	s.ErrorIs(err, errs.ErrItemNotFound)
	s.Zero(s.inventoryGW.reserveCalls)
	s.Zero(s.paymentGW.chargeCalls)
}

func (s *CheckoutSagaTestSuite) TestInsufficientInventoryReportsEveryShortfall() {
	s.inventoryGW.reserveRes = inventory.Result{
		Committed: false,
		Shortfalls: []inventory.Shortfall{
			{ItemID: 1, Name: "Colorado Ski Adventure", Requested: 2, Available: 1},
			{ItemID: 2, Name: "Tropical Paradise Retreat", Requested: 1, Available: 0},
		},
	}

	_, err := s.uc.Checkout(context.Background(), validParams(), uuid.New())
	s.Require().Error(err)
	s.ErrorIs(err, errs.ErrInsufficientInventory)

	var insufficient *usecase.InsufficientError
	s.Require().ErrorAs(err, &insufficient)
	s.Len(insufficient.Shortfalls, 2)

	// Nothing was committed, so nothing is compensated.
	s.Zero(s.paymentGW.chargeCalls)
	s.Zero(s.inventoryGW.releaseCalls)
	s.Nil(s.orderRepo.created)
}

func (s *CheckoutSagaTestSuite) TestPaymentFailureReleasesReservation() {
	s.paymentGW.chargeErr = errs.ErrPaymentDeclined

	_, err := s.uc.Checkout(context.Background(), validParams(), uuid.New())
	s.ErrorIs(err, errs.ErrPaymentDeclined)

	s.Equal(1, s.inventoryGW.releaseCalls)
	s.Empty(s.paymentGW.flagged, "no captured payment to reverse")
	s.Nil(s.orderRepo.created)
	s.Empty(s.outboxRepo.events)
}

func (s *CheckoutSagaTestSuite) TestPaymentTimeoutCompensatesToo() {
	s.paymentGW.chargeErr = errs.ErrUpstreamUnavailable

	_, err := s.uc.Checkout(context.Background(), validParams(), uuid.New())
	s.ErrorIs(err, errs.ErrUpstreamUnavailable)
	s.Equal(1, s.inventoryGW.releaseCalls)
}

func (s *CheckoutSagaTestSuite) TestPersistFailureReleasesAndFlagsReversal() {
	s.orderRepo.createErr = errors.New("connection reset")

	_, err := s.uc.Checkout(context.Background(), validParams(), uuid.New())
	s.Require().Error(err)
	s.ErrorIs(err, errs.ErrDatabaseOperationFailed)

	s.Equal(1, s.inventoryGW.releaseCalls)
	s.Equal([]string{"PAY1234567"}, s.paymentGW.flagged)
}

func (s *CheckoutSagaTestSuite) TestReplayReturnsOriginalResultWithoutReExecution() {
	key := uuid.New()
	params := validParams()

	first, err := s.uc.Checkout(context.Background(), params, key)
	s.Require().NoError(err)

	reserves := s.inventoryGW.reserveCalls
	charges := s.paymentGW.chargeCalls

	second, err := s.uc.Checkout(context.Background(), params, key)
	s.Require().NoError(err)

	s.Equal(first.ConfirmationNumber, second.ConfirmationNumber)
	s.Equal(first.Items, second.Items)
	s.Equal(reserves, s.inventoryGW.reserveCalls, "replay must not reserve again")
	s.Equal(charges, s.paymentGW.chargeCalls, "replay must not charge again")
	s.Len(s.outboxRepo.events, 1, "replay must not enqueue another shipping event")
}

func (s *CheckoutSagaTestSuite) TestInFlightKeyDoesNotReExecute() {
	key := uuid.New()
	params := validParams()

	// First attempt claims the key and dies at payment, leaving the
	// record in processing.
	s.paymentGW.chargeErr = errs.ErrUpstreamUnavailable
	_, err := s.uc.Checkout(context.Background(), params, key)
	s.Require().ErrorIs(err, errs.ErrUpstreamUnavailable)

	reserves := s.inventoryGW.reserveCalls
	charges := s.paymentGW.chargeCalls

	// A retry while the key is still held gets a conflict, not a second
	// run of the saga.
	s.paymentGW.chargeErr = nil
	_, err = s.uc.Checkout(context.Background(), params, key)
	s.ErrorIs(err, errs.ErrIdempotencyInProgress)
	s.Equal(reserves, s.inventoryGW.reserveCalls, "in-flight key must not reserve again")
	s.Equal(charges, s.paymentGW.chargeCalls, "in-flight key must not charge again")
	s.Nil(s.orderRepo.created)
	s.Empty(s.outboxRepo.events)
}

func (s *CheckoutSagaTestSuite) TestKeyReuseWithDifferentPayloadRejected() {
	key := uuid.New()

	_, err := s.uc.Checkout(context.Background(), validParams(), key)
	s.Require().NoError(err)

	altered := validParams()
	altered.Lines[0].Quantity = 5

	_, err = s.uc.Checkout(context.Background(), altered, key)
	s.ErrorIs(err, errs.ErrIdempotencyMismatch)
}

func (s *CheckoutSagaTestSuite) TestFailureExitsAreLogged() {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	uc := usecase.NewCheckoutUseCase(
		s.inventoryGW,
		s.paymentGW,
		s.orderRepo,
		s.outboxRepo,
		s.idemRepo,
		testTopic,
		clock.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		logger,
	)

	params := validParams()
	params.Shipping.City = ""
	_, err := uc.Checkout(context.Background(), params, uuid.New())
	s.Require().Error(err)
	s.Contains(buf.String(), string(order.StateRejected))
	s.Contains(buf.String(), "level=INFO", "terminal states surface at the default level")

	buf.Reset()
	s.inventoryGW.reserveErr = errors.New("lock timeout")
	_, err = uc.Checkout(context.Background(), validParams(), uuid.New())
	s.Require().Error(err)
	s.Contains(buf.String(), string(order.StateReservationFailed))
}

func (s *CheckoutSagaTestSuite) TestGetOrder() {
	result, err := s.uc.Checkout(context.Background(), validParams(), uuid.New())
	s.Require().NoError(err)

	rm, err := s.uc.GetOrder(context.Background(), result.ConfirmationNumber)
	s.Require().NoError(err)
	s.Equal(result.ConfirmationNumber, rm.ConfirmationNumber)

	_, err = s.uc.GetOrder(context.Background(), "NOPE000000")
	s.ErrorIs(err, errs.ErrOrderNotFound)
}
