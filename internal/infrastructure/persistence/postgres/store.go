package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/petquest/internal/domain/player"
	"github.com/alem-hub/petquest/internal/domain/shared"
	"github.com/alem-hub/petquest/pkg/retry"
)

// advisoryLockKey identifies the record collection's write lock.
const advisoryLockKey int64 = 0x7065747175657374

// Store implements player.Store and player.Locker on PostgreSQL.
type Store struct {
	conn         *Connection
	lockAttempts int
	lockDelay    time.Duration
}

// NewStore creates a new Store. Run the Migrator first.
func NewStore(conn *Connection) *Store {
	return &Store{
		conn:         conn,
		lockAttempts: 50,
		lockDelay:    20 * time.Millisecond,
	}
}


// Load reads every record. A missing table loads as an empty collection.
func (s *Store) Load(ctx context.Context) (player.Records, error) {
	rows, err := s.conn.Pool().Query(ctx, `SELECT user_id, record FROM player_records`)
	if err != nil {
		if IsUndefinedTable(err) {
			return player.Records{}, nil
		}
		return nil, shared.StorageError("Load", err)
	}
	defer rows.Close()

	records := make(player.Records)
	for rows.Next() {
		var (
			userID string
			raw    []byte
		)
		if err := rows.Scan(&userID, &raw); err != nil {
			return nil, shared.StorageError("Load", fmt.Errorf("scan record: %w", err))
		}

		var rec player.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, shared.StorageError("Load", fmt.Errorf("decode record %s: %w", userID, err))
		}
		records[userID] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, shared.StorageError("Load", err)
	}

	return records, nil
}

// Save replaces the stored collection with records in one transaction.
func (s *Store) Save(ctx context.Context, records player.Records) error {
	ids := make([]string, 0, len(records))
	batch := &pgx.Batch{}

	for userID, rec := range records {
		if rec == nil {
			continue
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return shared.StorageError("Save", fmt.Errorf("encode record %s: %w", userID, err))
		}
		ids = append(ids, userID)
		batch.Queue(`
			INSERT INTO player_records (user_id, record, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (user_id) DO UPDATE
			SET record = EXCLUDED.record, updated_at = NOW()
			WHERE player_records.record IS DISTINCT FROM EXCLUDED.record`,
			userID, data,
		)
	}

	err := s.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM player_records WHERE NOT (user_id = ANY($1))`, ids); err != nil {
			return fmt.Errorf("prune records: %w", err)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upsert records: %w", err)
		}
		return nil
	})
	if err != nil {
		return shared.StorageError("Save", err)
	}
	return nil
}

// Lock takes a session-level advisory lock on a dedicated connection. A busy
// lock is polled with pg_try_advisory_lock until the attempts run out
// (ErrLockBusy) or ctx is done. The connection stays checked out until the
// lock is released.
func (s *Store) Lock(ctx context.Context) (func(context.Context) error, error) {
	conn, err := s.conn.Pool().Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	err = pollLock(ctx, func(ctx context.Context) (bool, error) {
		var locked bool
		err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, advisoryLockKey).Scan(&locked)
		return locked, err
	}, s.lockAttempts, s.lockDelay)
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("advisory lock: %w", err)
	}

	release := func(ctx context.Context) error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, advisoryLockKey); err != nil {
			return fmt.Errorf("advisory unlock: %w", err)
		}
		return nil
	}
	return release, nil
}

// pollLock calls try until it reports the lock as taken. A false result is
// retried with backoff; a query error is returned at once.
func pollLock(ctx context.Context, try func(context.Context) (bool, error), attempts int, delay time.Duration) error {
	return retry.Do(ctx, func(ctx context.Context) error {
		locked, err := try(ctx)
		if err != nil {
			return err
		}
		if !locked {
			return retry.Retryable(ErrLockBusy)
		}
		return nil
	},
		retry.WithMaxAttempts(attempts),
		retry.WithInitialDelay(delay),
		retry.WithMaxDelay(250*time.Millisecond),
	)
}

// Ping checks if the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}
