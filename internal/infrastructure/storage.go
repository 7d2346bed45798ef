package infrastructure

import (
	"context"
	"fmt"

	"github.com/architeacher/svc-health-gate/internal/config"
	"github.com/architeacher/svc-health-gate/internal/domain"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type (
	Storage struct {
		db  *sqlx.DB
		cfg config.StorageConfig
	}
)

func NewStorage(cfg config.StorageConfig) (*Storage, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
		int(cfg.ConnectTimeout.Seconds()),
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return &Storage{
		db:  db,
		cfg: cfg,
	}, nil
}

func (s *Storage) GetDB() (*sqlx.DB, error) {
	if s == nil || s.db == nil {
		return nil, domain.ErrStorageNotInitialized
	}

	return s.db, nil
}

// RoundTrip executes the minimal query used to confirm the database is
// reachable and answering. The query timeout is the connection pool's own
// latency bound, not a readiness budget.
func (s *Storage) RoundTrip(ctx context.Context) error {
	db, err := s.GetDB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	var one int
	if err := db.QueryRowxContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database round-trip failed: %w", err)
	}

	if one != 1 {
		return fmt.Errorf("database round-trip returned %d, expected 1", one)
	}

	return nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}
