package domain

import "time"

// Audit carries the system-managed bookkeeping fields shared by all entities.
// The repository layer stamps them on save; callers never supply them.
type Audit struct {
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy string    `gorm:"size:64" json:"createdBy"`
	UpdatedBy string    `gorm:"size:64" json:"updatedBy"`
}
