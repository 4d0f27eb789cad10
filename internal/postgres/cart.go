package postgres

import (
	"context"
	"time"

	"github.com/dukerupert/festa/internal/domain"
)

// CartRepository implements domain.CartRepository. Each row holds one
// session's serialized line list.
type CartRepository struct {
	db DBTX
}

var _ domain.CartRepository = (*CartRepository)(nil)

func NewCartRepository(db DBTX) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Load(ctx context.Context, sessionID string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(ctx, "SELECT lines FROM carts WHERE session_id = $1", sessionID).Scan(&data)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, domain.Internal(err, "cart.load", "failed to load cart")
	}
	return data, nil
}

func (r *CartRepository) Save(ctx context.Context, sessionID string, data []byte) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO carts (session_id, lines, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (session_id) DO UPDATE SET lines = EXCLUDED.lines, updated_at = NOW()`,
		sessionID, data)
	if err != nil {
		return domain.Internal(err, "cart.save", "failed to save cart")
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM carts WHERE session_id = $1", sessionID); err != nil {
		return domain.Internal(err, "cart.delete", "failed to delete cart")
	}
	return nil
}

func (r *CartRepository) PurgeBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM carts WHERE updated_at < $1", before)
	if err != nil {
		return 0, domain.Internal(err, "cart.purge", "failed to purge carts")
	}
	return tag.RowsAffected(), nil
}
