package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lville-gis/internal/db"
	"github.com/lville-gis/internal/store"
)

// dryRun loads through the wrapped stores but discards every save
type dryRun struct {
	parcels   store.ParcelStore
	addresses store.AddressStore
}

func (d dryRun) LoadParcels(ctx context.Context) ([]store.ParcelRow, error) {
	return d.parcels.LoadParcels(ctx)
}

func (d dryRun) SaveParcels(ctx context.Context, updates []store.ParcelUpdate) (int, error) {
	logger.Info("dry run, parcels not written", zap.Int("rows", len(updates)))
	return 0, nil
}

func (d dryRun) LoadAddresses(ctx context.Context) ([]store.AddressRow, error) {
	return d.addresses.LoadAddresses(ctx)
}

func (d dryRun) SaveAddresses(ctx context.Context, updates []store.AddressUpdate, clearParts bool) (int, error) {
	logger.Info("dry run, addresses not written", zap.Int("rows", len(updates)), zap.Bool("clear_parts", clearParts))
	return 0, nil
}

// openStore connects using DB_* settings
func openStore(ctx context.Context, tables store.Tables) (*db.Connection, *store.PostgresStore, error) {
	settings := db.SettingsFromEnv()
	conn, err := db.NewConnection(ctx, settings)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("connected to database",
		zap.String("host", settings.Host),
		zap.String("database", settings.Name))
	return conn, store.NewPostgresStore(conn.DB, tables), nil
}

// createUpdateHiperwebCmd decomposes every parcel address in place
func createUpdateHiperwebCmd() *cobra.Command {
	var (
		flags  batchFlags
		tables = store.DefaultTables()
		dry    bool
	)

	cmd := &cobra.Command{
		Use:   "update-hiperweb",
		Short: "Decompose parcel addresses and write routing columns back",
		RunE: func(cmd *cobra.Command, args []string) error {
			lex, err := loadLexicon()
			if err != nil {
				return err
			}
			p, err := flags.processor(cmd, lex)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			conn, pg, err := openStore(ctx, tables)
			if err != nil {
				return err
			}
			defer conn.Close()

			var s store.ParcelStore = pg
			if dry {
				s = dryRun{parcels: pg}
			}

			stats, err := p.UpdateParcels(ctx, s)
			if err != nil {
				return err
			}
			logStats("parcels updated", stats)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&tables.Parcels, "table", tables.Parcels, "Parcel table (schema-qualified)")
	cmd.Flags().BoolVar(&dry, "dry-run", false, "Parse every row but write nothing")

	return cmd
}

// createUpdateAddressesCmd composes full_address for every address row
func createUpdateAddressesCmd() *cobra.Command {
	var (
		flags      batchFlags
		tables     = store.DefaultTables()
		clearParts bool
		dry        bool
	)

	cmd := &cobra.Command{
		Use:   "update-addresses",
		Short: "Compose full_address from discrete fields and write it back",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.processor(cmd, lexiconForCompose())
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			conn, pg, err := openStore(ctx, tables)
			if err != nil {
				return err
			}
			defer conn.Close()

			var s store.AddressStore = pg
			if dry {
				s = dryRun{addresses: pg}
			}

			stats, err := p.UpdateAddresses(ctx, s, clearParts)
			if err != nil {
				return err
			}
			logStats("addresses updated", stats)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&tables.Addresses, "table", tables.Addresses, "Address table (schema-qualified)")
	cmd.Flags().BoolVar(&clearParts, "clear-parts", false, "Null the discrete geo_* fields after composing")
	cmd.Flags().BoolVar(&dry, "dry-run", false, "Compose every row but write nothing")

	return cmd
}

// createPingCmd checks database connectivity
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the database connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			conn, err := db.NewConnection(ctx, db.SettingsFromEnv())
			if err != nil {
				return err
			}
			defer conn.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Database connection OK")
			return nil
		},
	}
}
