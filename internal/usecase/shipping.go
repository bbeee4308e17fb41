package usecase

import (
	"context"
	"log/slog"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/shipping"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/errs"
)

type ShippingRepository interface {
	Create(ctx context.Context, rec *shipping.Record) error
	FindByConfirmation(ctx context.Context, confirmationNumber string) (*shipping.Record, error)
}

type ShippingUseCase interface {
	HandleEvent(ctx context.Context, event shipping.Event) error
	GetRecord(ctx context.Context, confirmationNumber string) (*shipping.Record, error)
}

type shippingUseCaseImpl struct {
	repo   ShippingRepository
	logger *slog.Logger
}

func NewShippingUseCase(repo ShippingRepository, logger *slog.Logger) ShippingUseCase {
	return &shippingUseCaseImpl{repo: repo, logger: logger}
}

// HandleEvent persists the address and parcel metadata for a shipping event.
// The channel is at-least-once, so a record that already exists for the
// event's confirmation number makes the call a no-op success.
func (u *shippingUseCaseImpl) HandleEvent(ctx context.Context, event shipping.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	rec := &shipping.Record{
		ConfirmationNumber: event.ConfirmationNumber,
		BusinessID:         event.BusinessID,
		Address:            event.Address,
		NumPackets:         event.NumPackets,
		WeightKg:           event.WeightKg,
	}

	err := u.repo.Create(ctx, rec)
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			u.logger.Info("duplicate shipping event ignored",
				"confirmation_number", event.ConfirmationNumber)
			return nil
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	u.logger.Info("shipping record created",
		"confirmation_number", event.ConfirmationNumber,
		"num_packets", event.NumPackets)
	return nil
}

func (u *shippingUseCaseImpl) GetRecord(ctx context.Context, confirmationNumber string) (*shipping.Record, error) {
	rec, err := u.repo.FindByConfirmation(ctx, confirmationNumber)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rec, nil
}
