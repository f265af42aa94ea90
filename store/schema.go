package store

import (
	"context"
	"fmt"
)

// EnsureTable creates the lock table if it doesn't exist. It's a convenience
// for tests, examples and the operator CLI; the locking protocol itself never
// performs schema changes, and correctness doesn't depend on any index or
// uniqueness constraint here (arbitration happens transactionally).
func (s *Store) EnsureTable(ctx context.Context) error {
	query := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (resource VARCHAR(100) NOT NULL, created_at BIGINT NOT NULL)`,
		s.table,
	)

	_, err := s.db.ExecContext(ctx, query)
	return err
}
