// internal/models/shuttle.go
package models

import (
	"time"

	"github.com/lib/pq"
)

// Shuttle is one published MPW fabrication run. Shuttles are created by
// staff out of band and are immutable once published.
type Shuttle struct {
	BaseModel
	Process           string         `json:"process" gorm:"size:100;not null;index"`
	TapeOutDate       time.Time      `json:"tape_out_date" gorm:"type:date;not null;index"`
	WaferDeliveryDate time.Time      `json:"wafer_delivery_date" gorm:"type:date;not null"`
	Options           pq.StringArray `json:"options" gorm:"type:text[]"`

	// Relationships
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:ShuttleID"`
}

func (Shuttle) TableName() string {
	return "mpw_shuttles"
}
