//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"parkshare/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const DefaultPassword = "password123"

var (
	hashOnce    sync.Once
	defaultHash string
)

func passwordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := password.HashPasswordWithCost(DefaultPassword, bcrypt.MinCost)
		if err == nil {
			defaultHash = h
		}
	})
	require.NotEmpty(t, defaultHash, "failed to hash default password")
	return defaultHash
}

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, role, is_active) VALUES ($1, lower($2), $3, $4, true) ON CONFLICT (email) DO NOTHING",
		userID, email, passwordHash(t), role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM users WHERE email = lower($1)", email).Scan(&userID)
		require.NoError(t, err)
	}

	return userID
}

func DeactivateUser(t *testing.T, db DBLike, userID uuid.UUID) {
	t.Helper()
	_, err := db.Exec(context.Background(), "UPDATE users SET is_active = false, updated_at = now() WHERE id = $1", userID)
	require.NoError(t, err)
}

func CreateTestResource(t *testing.T, db DBLike, ownerID uuid.UUID, name string, hourlyRateCents int64) uuid.UUID {
	t.Helper()

	resourceID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO resources (id, owner_id, name, hourly_rate_cents, is_active) VALUES ($1, $2, $3, $4, true)",
		resourceID, ownerID, name, hourlyRateCents)
	require.NoError(t, err)
	return resourceID
}

// OpenAllWeek adds a whole-day open window for every weekday.
func OpenAllWeek(t *testing.T, db DBLike, resourceID uuid.UUID) {
	t.Helper()

	for wd := range 7 {
		_, err := db.Exec(context.Background(),
			"INSERT INTO availability_windows (id, resource_id, weekday, start_minute, end_minute, is_open) VALUES ($1, $2, $3, 0, 1440, true)",
			uuid.New(), resourceID, wd)
		require.NoError(t, err)
	}
}

func CountOutboxEvents(t *testing.T, db DBLike, aggregateID uuid.UUID, eventType string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM outbox_events WHERE aggregate_id = $1 AND event_type = $2",
		aggregateID, eventType).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
