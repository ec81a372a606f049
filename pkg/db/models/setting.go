package models

import "time"

// Setting is a single key/value row of store configuration.
type Setting struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null;default:''"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Store configuration keys.
const (
	SettingWhatsAppNumber = "whatsapp_number"
	SettingLogoURL        = "logo_url"
)
