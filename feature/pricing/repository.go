package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"erp-sync/core/database"
	"erp-sync/core/models"

	"gorm.io/gorm"
)

// Repository stores price snapshots.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema migrates the snapshot table, or only verifies it when migration is off.
func (r *Repository) EnsureSchema(autoMigrate bool) error {
	if autoMigrate {
		if err := r.db.AutoMigrate(&PriceSnapshot{}); err != nil {
			return fmt.Errorf("failed to migrate price snapshots: %w", err)
		}
		return nil
	}

	missing, err := database.MissingColumns(r.db, PriceSnapshot{}.TableName(), snapshotColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", PriceSnapshot{}.TableName(), strings.Join(missing, ", "))
	}
	return nil
}

// Save stores changes taken at the given time.
func (r *Repository) Save(ctx context.Context, changes []models.PriceChange, at time.Time) error {
	if len(changes) == 0 {
		return nil
	}

	rows := make([]PriceSnapshot, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, PriceSnapshot{
			Reference: c.ReferenceID,
			OldPrice:  c.OldPrice,
			NewPrice:  c.NewPrice,
			Status:    string(c.Status),
			CreatedAt: at,
		})
	}

	if err := r.db.WithContext(ctx).CreateInBatches(rows, 200).Error; err != nil {
		return fmt.Errorf("failed to save price snapshots: %w", err)
	}
	return nil
}

// History returns the newest snapshots of a reference.
func (r *Repository) History(ctx context.Context, reference string, limit int) ([]PriceSnapshot, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []PriceSnapshot
	err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}
	return rows, nil
}
