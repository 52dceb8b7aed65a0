package shoprepo

import (
	"context"
	"errors"
	"slices"

	"campusmarket/internal/adapters/out/postgres/pgerrors"
	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/shop"
	"campusmarket/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormShopRepository implements ShopRepository using GORM.
type GormShopRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormShopRepository(db *gorm.DB, tracker aggregateTracker) *GormShopRepository {
	return &GormShopRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormShopRepository) Add(ctx context.Context, aggregate *shop.Shop) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormShopRepository) Get(ctx context.Context, id kernel.UUID) (*shop.Shop, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShopDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shop", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetForUpdateSorted locks the shop rows in ascending id order. Every
// caller locking more than one shop goes through here, so two escrow
// releases sharing shops always queue instead of deadlocking.
func (r *GormShopRepository) GetForUpdateSorted(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*shop.Shop, error) {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, kernel.UUID.Compare)
	sorted = slices.CompactFunc(sorted, kernel.UUID.IsEqual)

	raw := make([]uuid.UUID, 0, len(sorted))
	for _, id := range sorted {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []ShopDTO
	if len(raw) > 0 {
		if err := r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", raw).
			Order("id").
			Find(&dtos).Error; err != nil {
			return nil, err
		}
	}

	shops := make(map[kernel.UUID]*shop.Shop, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		shops[s.ID()] = s
	}

	for _, id := range sorted {
		if _, ok := shops[id]; !ok {
			return nil, errs.NewObjectNotFoundError("shop", id.String())
		}
	}

	return shops, nil
}

func (r *GormShopRepository) UpdateBalance(ctx context.Context, aggregate *shop.Shop) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ShopDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Update("balance", aggregate.Balance().Decimal())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("shop", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// AppendLedgerEntries inserts the entries in one statement. A duplicate
// (order, line) means another unit of work already released this order; it
// is reported as a version conflict so the caller re-reads the order.
func (r *GormShopRepository) AppendLedgerEntries(ctx context.Context, entries []shop.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	dtos := make([]LedgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, entryFromDomain(e))
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return errs.NewVersionIsInvalidErrorWithCause("ledger", err)
		}
		return err
	}
	return nil
}

func (r *GormShopRepository) ListLedger(ctx context.Context, shopID kernel.UUID) ([]shop.LedgerEntry, error) {
	if err := shopID.Validate(); err != nil {
		return nil, err
	}

	var dtos []LedgerEntryDTO
	if err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID.Bytes()).
		Order("created_at, order_id, line_no").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]shop.LedgerEntry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := entryToDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
