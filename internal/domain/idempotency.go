package domain

import "time"

// Idempotency records the outcome of a previously processed create request,
// keyed by (client_id, scope, key). A replay of the same key returns the
// originally created resource instead of creating another one.
type Idempotency struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	ClientID   string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_client_scope_key,priority:1"`
	Scope      string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_client_scope_key,priority:2"`
	Key        string    `gorm:"type:varchar(200);not null;uniqueIndex:ux_client_scope_key,priority:3"`
	ResourceID uint      `gorm:"not null"`
	Status     int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
