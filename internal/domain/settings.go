package domain

import (
	"context"
	"regexp"
	"time"
)

var phonePattern = regexp.MustCompile(`^\d{10,15}$`)

// StoreSettings are the singleton store-wide settings editable by the admin.
type StoreSettings struct {
	StoreName string `json:"store_name"`

	// WhatsAppPhone is the number orders are handed off to, digits only with
	// country code (e.g. 5511999998888).
	WhatsAppPhone string `json:"whatsapp_phone"`

	// Greeting opens every order summary message.
	Greeting  string    `json:"greeting"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the settings before they are saved.
func (s *StoreSettings) Validate() error {
	const op = "settings.validate"
	var err error
	if s.StoreName == "" {
		err = addField(err, op, "store_name", "store name is required")
	}
	if s.WhatsAppPhone != "" && !phonePattern.MatchString(s.WhatsAppPhone) {
		err = addField(err, op, "whatsapp_phone", "phone must be 10 to 15 digits including country code")
	}
	return err
}

// SettingsRepository loads and saves the store settings row.
type SettingsRepository interface {
	// Get returns zero-valued settings when none were saved yet.
	Get(ctx context.Context) (*StoreSettings, error)
	Save(ctx context.Context, s *StoreSettings) error
}
