package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot is one stored price comparison.
type PriceSnapshot struct {
	ID        uint            `gorm:"column:id;primaryKey" json:"id"`
	Reference string          `gorm:"column:reference;size:64;index" json:"reference"`
	OldPrice  decimal.Decimal `gorm:"column:old_price;type:decimal(14,2)" json:"old_price"`
	NewPrice  decimal.Decimal `gorm:"column:new_price;type:decimal(14,2)" json:"new_price"`
	Status    string          `gorm:"column:status;size:8" json:"status"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name for PriceSnapshot.
func (PriceSnapshot) TableName() string {
	return "price_snapshots"
}

var snapshotColumns = []string{"id", "reference", "old_price", "new_price", "status", "created_at"}
