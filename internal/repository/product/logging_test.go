package product

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"ezelectronics/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingRow struct{ err error }

func (r failingRow) Scan(...any) error { return r.err }

type failingQuerier struct{ err error }

func (q failingQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, q.err
}

func (q failingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, q.err
}

func (q failingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return failingRow{err: q.err}
}

var eventName = regexp.MustCompile(`^[a-z]+(_[a-z]+)*$`)

func TestRepositoryLogsEvents(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	tests := []struct {
		name    string
		err     error
		call    func(Repository) error
		wantErr error
		event   string
		level   zapcore.Level
	}{
		{
			name:    "missing product",
			err:     pgx.ErrNoRows,
			call:    func(r Repository) error { _, err := r.GetByModel(ctx, "iPhone 12"); return err },
			wantErr: domain.ErrNotFound,
			event:   "product_not_found",
			level:   zapcore.DebugLevel,
		},
		{
			name:    "get failure",
			err:     boom,
			call:    func(r Repository) error { _, err := r.GetByModel(ctx, "iPhone 12"); return err },
			wantErr: boom,
			event:   "product_get_failed",
			level:   zapcore.ErrorLevel,
		},
		{
			name:    "decrement failure",
			err:     boom,
			call:    func(r Repository) error { return r.DecrementStock(ctx, "iPhone 12", 1) },
			wantErr: boom,
			event:   "product_decrement_failed",
			level:   zapcore.ErrorLevel,
		},
		{
			name:    "list failure",
			err:     boom,
			call:    func(r Repository) error { _, err := r.List(ctx); return err },
			wantErr: boom,
			event:   "product_list_failed",
			level:   zapcore.ErrorLevel,
		},
		{
			name: "upsert failure",
			err:  boom,
			call: func(r Repository) error {
				_, err := r.Upsert(ctx, domain.Product{Model: "iPhone 12", Category: domain.CategorySmartphone, SellingPrice: domain.MoneyFromInt(200)})
				return err
			},
			wantErr: boom,
			event:   "product_upsert_failed",
			level:   zapcore.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			repo := NewPostgres(failingQuerier{err: tt.err}, zap.New(core))

			require.ErrorIs(t, tt.call(repo), tt.wantErr)

			entries := logs.FilterMessage(tt.event).All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			for _, e := range logs.All() {
				assert.Regexp(t, eventName, e.Message)
			}
		})
	}
}
