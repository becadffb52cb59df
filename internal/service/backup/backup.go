package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Skotchmaster/pos_backend/internal/logging"
	"github.com/Skotchmaster/pos_backend/internal/models"
	"gorm.io/gorm"
)

// Whitelist is the fixed set of collections treated as business data.
// Users, tokens and the activity log never leave the database.
var Whitelist = []string{"products", "entries", "clients", "sales", "credits"}

// Export dumps the whitelisted collections as one JSON object keyed by
// collection name.
func Export(ctx context.Context, db *gorm.DB) ([]byte, error) {
	dump := make(map[string]any, len(Whitelist))

	var products []models.Product
	if err := db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("backup: products: %w", err)
	}
	dump["products"] = products

	var entries []models.Entry
	if err := db.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("backup: entries: %w", err)
	}
	dump["entries"] = entries

	var clients []models.Client
	if err := db.WithContext(ctx).Order("id ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("backup: clients: %w", err)
	}
	dump["clients"] = clients

	var sales []models.Sale
	if err := db.WithContext(ctx).Preload("Items").Order("id ASC").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("backup: sales: %w", err)
	}
	dump["sales"] = sales

	var credits []models.Credit
	if err := db.WithContext(ctx).Preload("Movements.Items").Preload("Movements").Order("id ASC").Find(&credits).Error; err != nil {
		return nil, fmt.Errorf("backup: credits: %w", err)
	}
	dump["credits"] = credits

	return json.MarshalIndent(dump, "", "  ")
}

// ExportToFile writes the dump to a timestamped file under dir.
func ExportToFile(ctx context.Context, db *gorm.DB, dir string) (string, error) {
	data, err := Export(ctx, db)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("backup: mkdir: %w", err)
	}
	name := filepath.Join(dir, "backup_"+time.Now().Format("20060102_150405")+".json")
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return "", fmt.Errorf("backup: write file: %w", err)
	}
	return name, nil
}

// Import restores a dump. Only whitelisted keys are honored, each named
// collection is overwritten wholesale. Records that fail to decode are
// skipped one by one instead of failing the whole restore.
func Import(ctx context.Context, db *gorm.DB, data []byte) error {
	var dump map[string]json.RawMessage
	if err := json.Unmarshal(data, &dump); err != nil {
		return fmt.Errorf("backup: invalid file: %w", err)
	}

	for _, name := range Whitelist {
		raw, ok := dump[name]
		if !ok {
			continue
		}
		if err := importCollection(ctx, db, name, raw); err != nil {
			return fmt.Errorf("backup: restore %s: %w", name, err)
		}
	}
	return nil
}

func importCollection(ctx context.Context, db *gorm.DB, name string, raw json.RawMessage) error {
	switch name {
	case "products":
		return overwrite[models.Product](ctx, db, raw, &models.Product{})
	case "entries":
		return overwrite[models.Entry](ctx, db, raw, &models.Entry{})
	case "clients":
		return overwrite[models.Client](ctx, db, raw, &models.Client{})
	case "sales":
		if err := db.WithContext(ctx).Where("1 = 1").Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		return overwrite[models.Sale](ctx, db, raw, &models.Sale{})
	case "credits":
		if err := db.WithContext(ctx).Where("1 = 1").Delete(&models.MovementItem{}).Error; err != nil {
			return err
		}
		if err := db.WithContext(ctx).Where("1 = 1").Delete(&models.CreditMovement{}).Error; err != nil {
			return err
		}
		return overwrite[models.Credit](ctx, db, raw, &models.Credit{})
	}
	return nil
}

func overwrite[T any](ctx context.Context, db *gorm.DB, raw json.RawMessage, model *T) error {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return err
	}

	if err := db.WithContext(ctx).Where("1 = 1").Delete(model).Error; err != nil {
		return err
	}

	l := logging.FromContext(ctx).With("service", "backup")
	for _, row := range rows {
		var rec T
		if err := json.Unmarshal(row, &rec); err != nil {
			l.Warn("record_skipped", "error", err)
			continue
		}
		if err := db.WithContext(ctx).Create(&rec).Error; err != nil {
			return err
		}
	}
	return nil
}
