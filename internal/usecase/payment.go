package usecase

import (
	"context"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/payment"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/clock"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/errs"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/token"
)

// Confirmation tokens are random, so a key collision is possible in theory;
// a fresh token is tried a few times before giving up.
const maxTokenAttempts = 3

type PaymentRepository interface {
	Create(ctx context.Context, rec *payment.Record) error
	FlagReversal(ctx context.Context, confirmationNumber string) error
}

type PaymentUseCase interface {
	Charge(ctx context.Context, card payment.CardDetails) (string, error)
	FlagReversal(ctx context.Context, confirmationNumber string) error
}

type paymentUseCaseImpl struct {
	repo  PaymentRepository
	clock clock.Clock
}

func NewPaymentUseCase(repo PaymentRepository, clk clock.Clock) PaymentUseCase {
	return &paymentUseCaseImpl{repo: repo, clock: clk}
}

// Charge appends the payment attempt to the ledger and returns its
// confirmation token. There is no sufficiency or fraud logic here; a
// persistence error is an infrastructure failure and nothing is partially
// written.
func (u *paymentUseCaseImpl) Charge(ctx context.Context, card payment.CardDetails) (string, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		confirmationNumber, err := token.NewConfirmationNumber()
		if err != nil {
			return "", errs.Wrap(err, "failed to generate confirmation number")
		}

		rec, err := payment.NewRecord(
			confirmationNumber,
			card.CardHolderName,
			card.CardNumber,
			card.ExpDate,
			card.CVV,
			u.clock.Now(),
		)
		if err != nil {
			return "", err
		}

		err = u.repo.Create(ctx, rec)
		if err == nil {
			return confirmationNumber, nil
		}
		if infra.IsKind(err, infra.KindDuplicateKey) {
			continue
		}
		return "", errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return "", errs.Mark(errs.New("confirmation number collisions exhausted retries"), errs.ErrDatabaseOperationFailed)
}

func (u *paymentUseCaseImpl) FlagReversal(ctx context.Context, confirmationNumber string) error {
	err := u.repo.FlagReversal(ctx, confirmationNumber)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrPaymentNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}
