package credit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/pos_backend/internal/models"
	"gorm.io/gorm"
)

const accumulatedLabel = "compras acumuladas del dia"

// Charge records a purchase on credit for a client. Charges made on the
// same calendar day merge into a single movement: the amounts add up and
// the item lists concatenate. The client's running debt always grows by
// the charged amount.
func Charge(ctx context.Context, db *gorm.DB, clientID uint, clientName string, amount float64, saleID uint, items []models.SaleItem) error {
	if clientID == 0 {
		return fmt.Errorf("credit: client id is required")
	}

	now := time.Now()
	today := now.Format(models.DateLayout)
	dateTime := now.Format(models.DateTimeLayout)

	var cred models.Credit
	err := db.WithContext(ctx).Where("client_id = ?", clientID).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cred = models.Credit{ClientID: clientID, ClientName: clientName}
		if err := db.WithContext(ctx).Create(&cred).Error; err != nil {
			return fmt.Errorf("credit: create record: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("credit: load record: %w", err)
	}

	var mov models.CreditMovement
	err = db.WithContext(ctx).
		Where("credit_id = ? AND date = ? AND type = ?", cred.ID, today, models.MovementCharge).
		First(&mov).Error
	switch {
	case err == nil:
		mov.Amount += amount
		mov.DateTime = dateTime
		mov.Description = accumulatedLabel
		if err := db.WithContext(ctx).Save(&mov).Error; err != nil {
			return fmt.Errorf("credit: merge movement: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		mov = models.CreditMovement{
			CreditID:    cred.ID,
			Date:        today,
			DateTime:    dateTime,
			Amount:      amount,
			Type:        models.MovementCharge,
			Description: "venta a credito",
			SaleID:      saleID,
		}
		if err := db.WithContext(ctx).Create(&mov).Error; err != nil {
			return fmt.Errorf("credit: create movement: %w", err)
		}
	default:
		return fmt.Errorf("credit: load movement: %w", err)
	}

	for _, it := range items {
		item := models.MovementItem{
			MovementID:  mov.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		}
		if err := db.WithContext(ctx).Create(&item).Error; err != nil {
			return fmt.Errorf("credit: append item: %w", err)
		}
	}

	cred.TotalDebt += amount
	cred.LastUpdate = dateTime
	if err := db.WithContext(ctx).Save(&cred).Error; err != nil {
		return fmt.Errorf("credit: update debt: %w", err)
	}

	return nil
}

// Get loads a client's credit record with its full movement history.
func Get(ctx context.Context, db *gorm.DB, clientID uint) (*models.Credit, error) {
	var cred models.Credit
	if err := db.WithContext(ctx).
		Preload("Movements.Items").
		Preload("Movements").
		Where("client_id = ?", clientID).
		First(&cred).Error; err != nil {
		return nil, err
	}
	return &cred, nil
}
