package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCarts struct {
	before time.Time
	n      int64
	err    error
}

func (f *fakeCarts) Load(context.Context, string) ([]byte, error)       { return nil, nil }
func (f *fakeCarts) Save(context.Context, string, []byte) error         { return nil }
func (f *fakeCarts) Delete(context.Context, string) error               { return nil }
func (f *fakeCarts) PurgeBefore(_ context.Context, before time.Time) (int64, error) {
	f.before = before
	return f.n, f.err
}

func TestCleanupStaleCarts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	carts := &fakeCarts{n: 4}

	res, err := CleanupStaleCarts(context.Background(), carts, 48*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.CartsDeleted)
	assert.Equal(t, now.Add(-48*time.Hour), carts.before)
}

func TestCleanupStaleCarts_Errors(t *testing.T) {
	_, err := CleanupStaleCarts(context.Background(), &fakeCarts{}, 0, time.Now())
	assert.Error(t, err)

	dbErr := errors.New("connection reset")
	_, err = CleanupStaleCarts(context.Background(), &fakeCarts{err: dbErr}, time.Hour, time.Now())
	assert.ErrorIs(t, err, dbErr)
}
