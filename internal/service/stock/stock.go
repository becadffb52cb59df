package stock

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/pos_backend/internal/models"
	"gorm.io/gorm"
)

// correctionWindow treats an edit shortly after the previous save as a
// same-session correction rather than a new intake.
const correctionWindow = 5 * time.Minute

// Reconcile folds a product quantity change into the product's stock entry.
// A brand-new product, a quantity decrease or a correction overwrite the
// entry with the absolute quantity; a plain increase accumulates into
// today's entry or starts a fresh one. Callers treat a failure here as
// best-effort bookkeeping: log it and move on, a product save must never
// fail because of its entry.
func Reconcile(ctx context.Context, db *gorm.DB, product *models.Product, oldQuantity int, isNew bool, prevUpdatedAt int64) error {
	diff := product.Quantity - oldQuantity

	now := time.Now()
	correction := !isNew && now.Unix()-prevUpdatedAt <= int64(correctionWindow.Seconds())

	switch {
	case isNew || diff < 0 || correction:
		return upsert(ctx, db, product, product.Quantity, now)
	case diff > 0:
		return accumulate(ctx, db, product, diff, now)
	default:
		return nil
	}
}

func accumulate(ctx context.Context, db *gorm.DB, product *models.Product, diff int, now time.Time) error {
	today := now.Format(models.DateLayout)

	var entry models.Entry
	err := db.WithContext(ctx).Where("product_id = ?", product.ID).First(&entry).Error
	if err == nil && entry.Date == today {
		entry.Quantity += diff
		entry.ProductName = product.Name
		entry.DateTime = now.Format(models.DateTimeLayout)
		entry.Timestamp = now.Unix()
		return db.WithContext(ctx).Save(&entry).Error
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return upsert(ctx, db, product, diff, now)
}

// upsert writes the single entry row of a product, creating it if missing.
func upsert(ctx context.Context, db *gorm.DB, product *models.Product, quantity int, now time.Time) error {
	var entry models.Entry
	err := db.WithContext(ctx).Where("product_id = ?", product.ID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry = models.Entry{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    quantity,
			Date:        now.Format(models.DateLayout),
			DateTime:    now.Format(models.DateTimeLayout),
			Timestamp:   now.Unix(),
		}
		return db.WithContext(ctx).Create(&entry).Error
	}
	if err != nil {
		return err
	}

	entry.ProductName = product.Name
	entry.Quantity = quantity
	entry.Date = now.Format(models.DateLayout)
	entry.DateTime = now.Format(models.DateTimeLayout)
	entry.Timestamp = now.Unix()
	return db.WithContext(ctx).Save(&entry).Error
}
