package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lville-gis/internal/normalize"
)

// PostgresStore implements ParcelStore and AddressStore over database/sql
type PostgresStore struct {
	db     *sql.DB
	tables Tables
}

// NewPostgresStore creates a store over an open connection
func NewPostgresStore(db *sql.DB, tables Tables) *PostgresStore {
	return &PostgresStore{db: db, tables: tables}
}

// LoadParcels returns every parcel row with its composite address
func (s *PostgresStore) LoadParcels(ctx context.Context) ([]ParcelRow, error) {
	query := fmt.Sprintf(`SELECT id, full_address FROM %s ORDER BY id`, quoteTable(s.tables.Parcels))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query parcels: %w", err)
	}
	defer rows.Close()

	var parcels []ParcelRow
	for rows.Next() {
		var id int64
		var full sql.NullString
		if err := rows.Scan(&id, &full); err != nil {
			return nil, fmt.Errorf("failed to scan parcel: %w", err)
		}
		parcels = append(parcels, ParcelRow{ID: id, FullAddress: full.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read parcels: %w", err)
	}
	return parcels, nil
}

// SaveParcels writes decomposed fields in a single transaction. Empty fields
// are stored as NULL.
func (s *PostgresStore) SaveParcels(ctx context.Context, updates []ParcelUpdate) (int, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET
			clean_address = $2, st_num = $3, pre_dir = $4,
			st_name = $5, st_type = $6, post_dir = $7
		WHERE id = $1
	`, quoteTable(s.tables.Parcels))

	return s.inTx(ctx, query, len(updates), func(stmt *sql.Stmt, i int) (sql.Result, error) {
		u := updates[i]
		c := u.Components
		return stmt.ExecContext(ctx, u.ID,
			nullable(c.CleanAddress),
			nullable(c.StreetNumber),
			nullable(c.PreDirection.Value),
			nullable(c.StreetName),
			nullable(c.StreetType.Value),
			nullable(c.PostDirection.Value),
		)
	})
}

// LoadAddresses returns every address point with its source fields
func (s *PostgresStore) LoadAddresses(ctx context.Context) ([]AddressRow, error) {
	query := fmt.Sprintf(`
		SELECT id, geo_number, geo_address, geo_city, geo_state, geo_zip
		FROM %s ORDER BY id
	`, quoteTable(s.tables.Addresses))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	var addresses []AddressRow
	for rows.Next() {
		var id int64
		var number, street, city, state, zip sql.NullString
		if err := rows.Scan(&id, &number, &street, &city, &state, &zip); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, AddressRow{
			ID: id,
			Parts: normalize.AddressParts{
				Number: number.String,
				Street: street.String,
				City:   city.String,
				State:  state.String,
				Zip:    zip.String,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read addresses: %w", err)
	}
	return addresses, nil
}

// SaveAddresses writes composed addresses in a single transaction
func (s *PostgresStore) SaveAddresses(ctx context.Context, updates []AddressUpdate, clearParts bool) (int, error) {
	query := fmt.Sprintf(`UPDATE %s SET full_address = $2 WHERE id = $1`, quoteTable(s.tables.Addresses))
	if clearParts {
		query = fmt.Sprintf(`
			UPDATE %s SET full_address = $2,
				geo_number = NULL, geo_address = NULL, geo_city = NULL,
				geo_state = NULL, geo_zip = NULL
			WHERE id = $1
		`, quoteTable(s.tables.Addresses))
	}

	return s.inTx(ctx, query, len(updates), func(stmt *sql.Stmt, i int) (sql.Result, error) {
		u := updates[i]
		return stmt.ExecContext(ctx, u.ID, nullable(u.FullAddress))
	})
}

// inTx prepares query inside a transaction and runs exec n times, committing
// only if every statement succeeds.
func (s *PostgresStore) inTx(ctx context.Context, query string, n int, exec func(*sql.Stmt, int) (sql.Result, error)) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	updated := 0
	for i := 0; i < n; i++ {
		res, err := exec(stmt, i)
		if err != nil {
			return 0, fmt.Errorf("failed to update row %d: %w", i, err)
		}
		if affected, err := res.RowsAffected(); err == nil {
			updated += int(affected)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return updated, nil
}
