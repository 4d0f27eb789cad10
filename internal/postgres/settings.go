package postgres

import (
	"context"

	"github.com/dukerupert/festa/internal/domain"
)

// SettingsRepository implements domain.SettingsRepository over the
// single-row store_settings table.
type SettingsRepository struct {
	db DBTX
}

var _ domain.SettingsRepository = (*SettingsRepository)(nil)

func NewSettingsRepository(db DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context) (*domain.StoreSettings, error) {
	var s domain.StoreSettings
	err := r.db.QueryRow(ctx, `
		SELECT store_name, whatsapp_phone, greeting, updated_at
		FROM store_settings WHERE id = 1`,
	).Scan(&s.StoreName, &s.WhatsAppPhone, &s.Greeting, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return &domain.StoreSettings{}, nil
		}
		return nil, domain.Internal(err, "settings.get", "failed to load store settings")
	}
	return &s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *domain.StoreSettings) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO store_settings (id, store_name, whatsapp_phone, greeting)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			store_name = EXCLUDED.store_name,
			whatsapp_phone = EXCLUDED.whatsapp_phone,
			greeting = EXCLUDED.greeting,
			updated_at = NOW()
		RETURNING updated_at`,
		s.StoreName, s.WhatsAppPhone, s.Greeting,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return domain.Internal(err, "settings.save", "failed to save store settings")
	}
	return nil
}
