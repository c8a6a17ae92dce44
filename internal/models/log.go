package models

import "time"

// AuditLog records mutating API requests.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	Operator  string    `gorm:"size:64;index"` // JWT subject, empty when the guard is off
	Method    string    `gorm:"size:16"`
	PathEnc   string    `gorm:"size:1024"` // AES-GCM + base64 when a key is configured
	ActionEnc string    `gorm:"size:4096"` // method, path and request body
	Status    int       `gorm:"index"`
	IP        string    `gorm:"size:64"`
	UserAgent string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"index"`
}
