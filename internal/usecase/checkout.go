package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/inventory"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/order"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/payment"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/shipping"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra/postgres"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/clock"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/errs"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/token"

	"github.com/google/uuid"
)

const (
	checkoutEndpoint   = "POST /order-processing/order"
	idempotencyKeyTTL  = 24 * time.Hour
	packetWeightKg     = 2.5
	shippingBusinessID = 1
)

// InventoryGateway is the orchestrator's view of the inventory service.
type InventoryGateway interface {
	GetItem(ctx context.Context, id int64) (*inventory.Item, error)
	Reserve(ctx context.Context, batch inventory.Batch) (inventory.Result, error)
	Release(ctx context.Context, batch inventory.Batch) error
}

// PaymentGateway is the orchestrator's view of the payment ledger.
type PaymentGateway interface {
	Charge(ctx context.Context, card payment.CardDetails) (string, error)
	FlagReversal(ctx context.Context, confirmationNumber string) error
}

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, o *order.Order) error
	FindByConfirmation(ctx context.Context, confirmationNumber string) (*postgres.OrderRM, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, topic, key string, payload []byte, now time.Time) error
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key uuid.UUID, endpoint string) (*postgres.IdempotencyRecord, error)
	MarkCompleted(ctx context.Context, key uuid.UUID, endpoint, confirmationNumber string) error
}

// CheckoutParams is the typed checkout request after boundary validation.
type CheckoutParams struct {
	Lines    []inventory.ReservationLine
	Card     payment.CardDetails
	Shipping shipping.Address
}

type CheckoutResult struct {
	ConfirmationNumber string
	Items              []order.LineItem
}

// InsufficientError carries the complete shortfall list so the caller can
// adjust quantities instead of guessing.
type InsufficientError struct {
	Shortfalls []inventory.Shortfall
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("insufficient inventory for %d item(s)", len(e.Shortfalls))
}

func (e *InsufficientError) Is(target error) bool {
	return target == errs.ErrInsufficientInventory
}

type CheckoutUseCase interface {
	Checkout(ctx context.Context, params CheckoutParams, idempotencyKey uuid.UUID) (*CheckoutResult, error)
	GetOrder(ctx context.Context, confirmationNumber string) (*postgres.OrderRM, error)
}

// checkoutUseCaseImpl drives the fulfillment saga:
//
//	RECEIVED → VALIDATED → QUOTED → RESERVED → PAID → PERSISTED → DISPATCHED
//
// Every step after a committed reservation converts failure into a
// compensating release before surfacing the error, so inventory is never
// stranded by a half-finished checkout.
type checkoutUseCaseImpl struct {
	inventoryGW     InventoryGateway
	paymentGW       PaymentGateway
	orderRepo       OrderRepository
	outboxRepo      OutboxRepository
	idempotencyRepo IdempotencyRepository
	kafkaTopic      string
	clock           clock.Clock
	logger          *slog.Logger
}

func NewCheckoutUseCase(
	inventoryGW InventoryGateway,
	paymentGW PaymentGateway,
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	idempotencyRepo IdempotencyRepository,
	kafkaTopic string,
	clk clock.Clock,
	logger *slog.Logger,
) CheckoutUseCase {
	return &checkoutUseCaseImpl{
		inventoryGW:     inventoryGW,
		paymentGW:       paymentGW,
		orderRepo:       orderRepo,
		outboxRepo:      outboxRepo,
		idempotencyRepo: idempotencyRepo,
		kafkaTopic:      kafkaTopic,
		clock:           clk,
		logger:          logger,
	}
}

func (u *checkoutUseCaseImpl) Checkout(
	ctx context.Context,
	params CheckoutParams,
	idempotencyKey uuid.UUID,
) (*CheckoutResult, error) {
	u.logState(order.StateReceived, "")

	if idempotencyKey == uuid.Nil {
		return nil, errs.ErrIdempotencyKeyRequired
	}

	requestHash := hashParams(params)
	existing, err := u.claimIdempotencyKey(ctx, idempotencyKey, requestHash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// RECEIVED → VALIDATED: structural validation, no downstream calls yet.
	batch, err := inventory.NewBatch(params.Lines)
	if err != nil {
		u.logState(order.StateRejected, "")
		return nil, err
	}
	if err := validateSections(params); err != nil {
		u.logState(order.StateRejected, "")
		return nil, err
	}
	u.logState(order.StateValidated, "")

	// VALIDATED → QUOTED: snapshot name/price from the read path. The
	// availability seen here is advisory; only Reserve decides sufficiency.
	snapshots, err := u.quoteItems(ctx, batch)
	if err != nil {
		u.logState(order.StateRejected, "")
		return nil, err
	}
	u.logState(order.StateQuoted, "")

	// QUOTED → RESERVED: the all-or-nothing decrement.
	result, err := u.inventoryGW.Reserve(ctx, batch)
	if err != nil {
		u.logState(order.StateReservationFailed, "")
		return nil, err
	}
	if !result.Committed {
		u.logState(order.StateReservationFailed, "")
		return nil, &InsufficientError{Shortfalls: result.Shortfalls}
	}
	u.logState(order.StateReserved, "")

	// RESERVED → PAID. From here on every failure must release the
	// reservation; a timeout is an unknown outcome and compensates too.
	paymentConfirmation, err := u.paymentGW.Charge(ctx, params.Card)
	if err != nil {
		u.compensateReservation(ctx, batch)
		u.logState(order.StatePaymentFailed, "")
		return nil, err
	}
	u.logState(order.StatePaid, paymentConfirmation)

	// PAID → PERSISTED: order, line items, shipping outbox event and the
	// idempotency completion all commit in one transaction.
	checkoutResult, err := u.persistOrder(ctx, params, snapshots, batch, paymentConfirmation, idempotencyKey)
	if err != nil {
		u.compensateReservation(ctx, batch)
		if flagErr := u.paymentGW.FlagReversal(ctx, paymentConfirmation); flagErr != nil {
			u.logger.Error("failed to flag payment for reversal; manual follow-up required",
				"payment_confirmation", paymentConfirmation,
				"error", flagErr.Error())
		}
		u.logState(order.StatePersistFailed, "")
		return nil, err
	}
	u.logState(order.StatePersisted, checkoutResult.ConfirmationNumber)

	// PERSISTED → DISPATCHED: the relay publishes the outbox row
	// asynchronously. The order is durable, so the saga reports success
	// even if the broker is down right now.
	u.logState(order.StateDispatched, checkoutResult.ConfirmationNumber)
	return checkoutResult, nil
}

func (u *checkoutUseCaseImpl) GetOrder(ctx context.Context, confirmationNumber string) (*postgres.OrderRM, error) {
	rm, err := u.orderRepo.FindByConfirmation(ctx, confirmationNumber)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rm, nil
}

// claimIdempotencyKey returns nil to proceed when this call won the key,
// the stored result when the key was already completed, and an error when
// the key was reused with a different payload or is still held by an
// execution that has not completed.
func (u *checkoutUseCaseImpl) claimIdempotencyKey(
	ctx context.Context,
	key uuid.UUID,
	requestHash string,
) (*CheckoutResult, error) {
	expiresAt := u.clock.Now().Add(idempotencyKeyTTL)
	inserted, err := u.idempotencyRepo.TryInsert(ctx, key, checkoutEndpoint, requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if inserted {
		return nil, nil
	}

	rec, err := u.idempotencyRepo.Get(ctx, key, checkoutEndpoint)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if rec.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyMismatch
	}

	switch rec.Status {
	case postgres.IdempotencyStatusCompleted:
		if rec.ConfirmationNumber == nil {
			return nil, errs.New("completed idempotency record missing confirmation number")
		}
		rm, err := u.orderRepo.FindByConfirmation(ctx, *rec.ConfirmationNumber)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		u.logger.Info("checkout replayed from idempotency record",
			"confirmation_number", rm.ConfirmationNumber)
		return &CheckoutResult{
			ConfirmationNumber: rm.ConfirmationNumber,
			Items:              rm.Items,
		}, nil
	case postgres.IdempotencyStatusProcessing:
		return nil, errs.ErrIdempotencyInProgress
	default:
		return nil, errs.New("invalid idempotency record status")
	}
}

func (u *checkoutUseCaseImpl) quoteItems(
	ctx context.Context,
	batch inventory.Batch,
) (map[int64]inventory.Item, error) {
	snapshots := make(map[int64]inventory.Item, batch.Len())
	for _, line := range batch.Lines() {
		item, err := u.inventoryGW.GetItem(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}
		snapshots[line.ItemID] = *item
	}
	return snapshots, nil
}

func (u *checkoutUseCaseImpl) persistOrder(
	ctx context.Context,
	params CheckoutParams,
	snapshots map[int64]inventory.Item,
	batch inventory.Batch,
	paymentConfirmation string,
	idempotencyKey uuid.UUID,
) (*CheckoutResult, error) {
	confirmationNumber, err := token.NewConfirmationNumber()
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, batch.Len())
	for _, line := range batch.Lines() {
		snap := snapshots[line.ItemID]
		items = append(items, order.LineItem{
			ItemID:     line.ItemID,
			Name:       snap.Name,
			Quantity:   line.Quantity,
			PriceCents: snap.PriceCents,
		})
	}

	now := u.clock.Now()
	o, err := order.NewOrder(confirmationNumber, params.Shipping.Name, paymentConfirmation, items, now)
	if err != nil {
		return nil, err
	}

	event := buildShippingEvent(confirmationNumber, params.Shipping, items)
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, errs.Wrap(err, "failed to marshal shipping event")
	}

	err = u.orderRepo.WithTx(ctx, func(ctx context.Context) error {
		if err := u.orderRepo.Create(ctx, o); err != nil {
			return err
		}
		if err := u.outboxRepo.Enqueue(ctx, u.kafkaTopic, confirmationNumber, payload, now); err != nil {
			return err
		}
		return u.idempotencyRepo.MarkCompleted(ctx, idempotencyKey, checkoutEndpoint, confirmationNumber)
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return &CheckoutResult{ConfirmationNumber: confirmationNumber, Items: items}, nil
}

// compensateReservation releases a committed reservation. A failure here
// means inventory stays locked until operators intervene, so it is logged
// loudly rather than swallowed.
func (u *checkoutUseCaseImpl) compensateReservation(ctx context.Context, batch inventory.Batch) {
	if err := u.inventoryGW.Release(ctx, batch); err != nil {
		u.logger.Error("reservation release failed; inventory may be stranded",
			"item_ids", batch.ItemIDs(),
			"error", err.Error())
		return
	}
	u.logger.Info("reservation released", "item_ids", batch.ItemIDs())
}

// logState records a saga transition. Terminal states are logged at Info
// so the final outcome of every checkout is visible at the default level;
// intermediate hops stay at Debug.
func (u *checkoutUseCaseImpl) logState(state order.CheckoutState, confirmationNumber string) {
	attrs := []any{"state", string(state)}
	if confirmationNumber != "" {
		attrs = append(attrs, "confirmation_number", confirmationNumber)
	}
	if state.Terminal() {
		u.logger.Info("checkout state transition", attrs...)
		return
	}
	u.logger.Debug("checkout state transition", attrs...)
}

func validateSections(params CheckoutParams) error {
	if _, err := payment.NewRecord("pending", params.Card.CardHolderName, params.Card.CardNumber,
		params.Card.ExpDate, params.Card.CVV, time.Time{}); err != nil {
		return err
	}

	ev := shipping.Event{
		ConfirmationNumber: "pending",
		BusinessID:         shippingBusinessID,
		Address:            params.Shipping,
		NumPackets:         1,
	}
	return ev.Validate()
}

// buildShippingEvent derives parcel metadata from the ordered quantities:
// one packet per unit, at a flat per-packet weight.
func buildShippingEvent(confirmationNumber string, addr shipping.Address, items []order.LineItem) shipping.Event {
	var packets int32
	for _, it := range items {
		packets += it.Quantity
	}
	return shipping.Event{
		ConfirmationNumber: confirmationNumber,
		BusinessID:         shippingBusinessID,
		Address:            addr,
		NumPackets:         packets,
		WeightKg:           float64(packets) * packetWeightKg,
	}
}

func hashParams(params CheckoutParams) string {
	data, _ := json.Marshal(params)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
