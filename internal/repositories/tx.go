package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// TxManager gives callers an all-or-nothing execution boundary across
// multiple repository writes. The work function receives a transaction
// handle to pass into transaction-scoped repository methods; the transaction
// commits when the work returns nil and rolls back otherwise.
type TxManager interface {
	RunInTransaction(ctx context.Context, work func(tx *gorm.DB) error) error
}

// GormTxManager runs work inside a real database transaction.
type GormTxManager struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGormTxManager creates a GormTxManager. A timeout of zero disables the
// per-transaction deadline.
func NewGormTxManager(db *gorm.DB, timeout time.Duration) *GormTxManager {
	return &GormTxManager{db: db, timeout: timeout}
}

// RunInTransaction executes work inside a transaction bounded by the
// configured timeout. Partial writes are invisible to other readers until
// commit and are discarded on any error.
func (m *GormTxManager) RunInTransaction(ctx context.Context, work func(tx *gorm.DB) error) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	return m.db.WithContext(ctx).Transaction(work)
}

// PassthroughTxManager runs the work directly with a nil transaction handle.
// Used with the in-memory repositories, which have no multi-record
// transactions: atomicity is best-effort only, acceptable for local
// development and never for production.
type PassthroughTxManager struct{}

// NewPassthroughTxManager creates a PassthroughTxManager.
func NewPassthroughTxManager() *PassthroughTxManager {
	return &PassthroughTxManager{}
}

// RunInTransaction invokes work immediately without opening a transaction.
func (m *PassthroughTxManager) RunInTransaction(ctx context.Context, work func(tx *gorm.DB) error) error {
	return work(nil)
}
