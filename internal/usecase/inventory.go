package usecase

import (
	"context"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/inventory"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/errs"
)

// InventoryRepository is the store behind the inventory service: the read
// path plus the atomic reserve/release pair.
type InventoryRepository interface {
	FindAll(ctx context.Context) ([]inventory.Item, error)
	FindByID(ctx context.Context, id int64) (*inventory.Item, error)
	SearchByName(ctx context.Context, name string) ([]inventory.Item, error)
	Reserve(ctx context.Context, batch inventory.Batch) (inventory.Result, error)
	Release(ctx context.Context, batch inventory.Batch) error
}

type InventoryUseCase interface {
	ListItems(ctx context.Context) ([]inventory.Item, error)
	GetItem(ctx context.Context, id int64) (*inventory.Item, error)
	SearchItems(ctx context.Context, name string) ([]inventory.Item, error)
	Reserve(ctx context.Context, lines []inventory.ReservationLine) (inventory.Result, error)
	Release(ctx context.Context, lines []inventory.ReservationLine) error
}

type inventoryUseCaseImpl struct {
	repo InventoryRepository
}

func NewInventoryUseCase(repo InventoryRepository) InventoryUseCase {
	return &inventoryUseCaseImpl{repo: repo}
}

func (u *inventoryUseCaseImpl) ListItems(ctx context.Context) ([]inventory.Item, error) {
	items, err := u.repo.FindAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(items) == 0 {
		return nil, errs.ErrNoItems
	}
	return items, nil
}

func (u *inventoryUseCaseImpl) GetItem(ctx context.Context, id int64) (*inventory.Item, error) {
	item, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrItemNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return item, nil
}

func (u *inventoryUseCaseImpl) SearchItems(ctx context.Context, name string) ([]inventory.Item, error) {
	items, err := u.repo.SearchByName(ctx, name)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(items) == 0 {
		return nil, errs.ErrNoItems
	}
	return items, nil
}

// Reserve validates the batch and hands it to the engine. Validation errors
// surface as-is; a missing item id comes back as ErrItemNotFound.
func (u *inventoryUseCaseImpl) Reserve(ctx context.Context, lines []inventory.ReservationLine) (inventory.Result, error) {
	batch, err := inventory.NewBatch(lines)
	if err != nil {
		return inventory.Result{}, err
	}

	result, err := u.repo.Reserve(ctx, batch)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return inventory.Result{}, errs.Mark(err, errs.ErrItemNotFound)
		}
		return inventory.Result{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return result, nil
}

func (u *inventoryUseCaseImpl) Release(ctx context.Context, lines []inventory.ReservationLine) error {
	batch, err := inventory.NewBatch(lines)
	if err != nil {
		return err
	}

	if err := u.repo.Release(ctx, batch); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrItemNotFound)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}
