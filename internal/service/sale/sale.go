package sale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/pos_backend/internal/logging"
	"github.com/Skotchmaster/pos_backend/internal/models"
	"github.com/Skotchmaster/pos_backend/internal/service/credit"
	"gorm.io/gorm"
)

type ItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type Input struct {
	ClientID   uint        `json:"client_id"`
	ClientName string      `json:"client_name"`
	SellerID   uint        `json:"seller_id"`
	SellerName string      `json:"seller_name"`
	OnCredit   bool        `json:"on_credit"`
	Items      []ItemInput `json:"items"`
}

// Finalize persists a sale and then decrements stock item by item. The
// sale record comes first and wins: stock decrements and the credit charge
// are attempted independently afterwards and their failures are only
// logged, never rolled back into the sale.
func Finalize(ctx context.Context, db *gorm.DB, in Input) (*models.Sale, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("sale: no items")
	}

	now := time.Now()
	l := logging.FromContext(ctx).With("service", "sale")

	var total float64
	items := make([]models.SaleItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		var p models.Product
		if err := db.WithContext(ctx).First(&p, it.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("sale: product %d not found", it.ProductID)
			}
			return nil, fmt.Errorf("sale: load product %d: %w", it.ProductID, err)
		}
		subtotal := p.Price * float64(it.Quantity)
		items = append(items, models.SaleItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    it.Quantity,
			Subtotal:    subtotal,
		})
		total += subtotal
	}

	s := models.Sale{
		ClientID:   in.ClientID,
		ClientName: in.ClientName,
		Items:      items,
		Total:      total,
		DateTime:   now.Format(models.DateTimeLayout),
		Timestamp:  now.Unix(),
		SellerID:   in.SellerID,
		SellerName: in.SellerName,
	}
	if err := db.WithContext(ctx).Create(&s).Error; err != nil {
		return nil, fmt.Errorf("sale: create: %w", err)
	}

	// Per-item decrement, each attempt independent. A failed item leaves
	// stock stale but the sale stands.
	for _, it := range s.Items {
		var p models.Product
		if err := db.WithContext(ctx).First(&p, it.ProductID).Error; err != nil {
			l.Error("stock_decrement_failed", "product_id", it.ProductID, "error", err)
			continue
		}
		p.Quantity -= it.Quantity
		if err := db.WithContext(ctx).Save(&p).Error; err != nil {
			l.Error("stock_decrement_failed", "product_id", it.ProductID, "error", err)
		}
	}

	if in.OnCredit && in.ClientID != 0 {
		if err := credit.Charge(ctx, db, in.ClientID, in.ClientName, s.Total, s.ID, s.Items); err != nil {
			l.Error("credit_charge_failed", "sale_id", s.ID, "client_id", in.ClientID, "error", err)
		}
	}

	return &s, nil
}
