// Package store reads address records from, and writes parsed results back
// to, the city's Postgres tables. It knows nothing about how addresses are
// parsed; callers hand it finished values.
package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lib/pq"

	"github.com/lville-gis/internal/normalize"
)

// ParcelRow is a parcel carrying a composite address from the spatial join
type ParcelRow struct {
	ID          int64
	FullAddress string
}

// ParcelUpdate holds the decomposed fields for one parcel
type ParcelUpdate struct {
	ID         int64
	Components normalize.AddressComponents
}

// AddressRow is an address point with its discrete source fields
type AddressRow struct {
	ID    int64
	Parts normalize.AddressParts
}

// AddressUpdate holds the composed single-line address for one point
type AddressUpdate struct {
	ID          int64
	FullAddress string
}

// ParcelStore is the persistence side of decomposition
type ParcelStore interface {
	LoadParcels(ctx context.Context) ([]ParcelRow, error)
	SaveParcels(ctx context.Context, updates []ParcelUpdate) (int, error)
}

// AddressStore is the persistence side of composition. When clearParts is
// set the discrete source fields are nulled once the full address is written.
type AddressStore interface {
	LoadAddresses(ctx context.Context) ([]AddressRow, error)
	SaveAddresses(ctx context.Context, updates []AddressUpdate, clearParts bool) (int, error)
}

// Tables names the tables the Postgres store works against. Names may be
// schema-qualified ("gis.parcels_hiperweb").
type Tables struct {
	Parcels   string
	Addresses string
}

// DefaultTables returns the table names used in production
func DefaultTables() Tables {
	return Tables{
		Parcels:   "datamining.parcels_hiperweb",
		Addresses: "datamining.addresses_all",
	}
}

// quoteTable quotes each dot-separated part of a table name
func quoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
