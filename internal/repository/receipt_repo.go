package repository

import (
	"context"

	"bookingdesk/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReceiptRepository interface {
	Create(ctx context.Context, receipt *model.Receipt) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]model.Receipt, error)
	SumAmounts(ctx context.Context) (decimal.Decimal, error)
}

type receiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *model.Receipt) error {
	return GetDB(ctx, r.db).Create(receipt).Error
}

func (r *receiptRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]model.Receipt, error) {
	var receipts []model.Receipt
	if err := GetDB(ctx, r.db).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

func (r *receiptRepository) SumAmounts(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := GetDB(ctx, r.db).Model(&model.Receipt{}).
		Select("SUM(amount)").
		Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
