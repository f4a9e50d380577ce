package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"skin-watcher/models"
)

const listingColumns = "order_id, name, kind, exterior, price, has_sold, is_stattrak"

// PostgresStore persists listings in the item table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		DO $$ BEGIN
			CREATE TYPE exterior AS ENUM ('FN', 'MW', 'FT', 'WW', 'BS');
		EXCEPTION
			WHEN duplicate_object THEN NULL;
		END $$;

		CREATE TABLE IF NOT EXISTS item (
			order_id    INTEGER  PRIMARY KEY,
			name        VARCHAR  NOT NULL,
			kind        VARCHAR,
			exterior    exterior,
			price       INTEGER  NOT NULL CHECK (price >= 0),
			has_sold    BOOLEAN  NOT NULL DEFAULT FALSE,
			is_stattrak BOOLEAN  NOT NULL DEFAULT FALSE,
			CHECK ((kind IS NULL) = (exterior IS NULL))
		);
	`)
	return err
}

// Get loads one listing.
func (ps *PostgresStore) Get(ctx context.Context, orderID int) (*models.Listing, error) {
	l := &models.Listing{}
	err := ps.db.GetContext(ctx, l,
		"SELECT "+listingColumns+" FROM item WHERE order_id = $1", orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get %d: %w", orderID, err)
	}
	return l, nil
}

// ListKeys returns every stored order id in ascending order.
func (ps *PostgresStore) ListKeys(ctx context.Context) ([]int, error) {
	var keys []int
	if err := ps.db.SelectContext(ctx, &keys, "SELECT order_id FROM item ORDER BY order_id"); err != nil {
		return nil, fmt.Errorf("postgres: list keys: %w", err)
	}
	return keys, nil
}

// InsertBatch inserts listings in one transaction.
func (ps *PostgresStore) InsertBatch(ctx context.Context, listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := ps.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO item (`+listingColumns+`)
			VALUES (:order_id, :name, :kind, :exterior, :price, :has_sold, :is_stattrak)
		`, listings[i:end]); err != nil {
			return fmt.Errorf("postgres: insert batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// Update overwrites every column of the row keyed by listing.OrderID.
func (ps *PostgresStore) Update(ctx context.Context, listing *models.Listing) error {
	res, err := ps.db.NamedExecContext(ctx, `
		UPDATE item
		SET name = :name, kind = :kind, exterior = :exterior, price = :price,
		    has_sold = :has_sold, is_stattrak = :is_stattrak
		WHERE order_id = :order_id
	`, listing)
	if err != nil {
		return fmt.Errorf("postgres: update %d: %w", listing.OrderID, err)
	}
	return expectOneRow(res, listing.OrderID)
}

// Delete removes one listing.
func (ps *PostgresStore) Delete(ctx context.Context, orderID int) error {
	res, err := ps.db.ExecContext(ctx, "DELETE FROM item WHERE order_id = $1", orderID)
	if err != nil {
		return fmt.Errorf("postgres: delete %d: %w", orderID, err)
	}
	return expectOneRow(res, orderID)
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

func expectOneRow(res sql.Result, orderID int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: rows affected for %d: %w", orderID, err)
	}
	if n == 0 {
		return fmt.Errorf("postgres: order %d: %w", orderID, ErrNotFound)
	}
	return nil
}
