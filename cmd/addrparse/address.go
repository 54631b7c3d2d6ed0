package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lville-gis/internal/normalize"
	"github.com/lville-gis/internal/postal"
)

// createComposeCmd builds a single canonical address from flags
func createComposeCmd() *cobra.Command {
	var parts normalize.AddressParts

	cmd := &cobra.Command{
		Use:     "compose",
		Short:   "Compose a single-line address from discrete fields",
		Example: `  addrparse compose --number 123 --street "Main St" --city Lawrenceville --zip 30045`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), normalize.Compose(parts))
			return nil
		},
	}

	cmd.Flags().StringVar(&parts.Number, "number", "", "Street number")
	cmd.Flags().StringVar(&parts.Street, "street", "", "Street (name, may include number)")
	cmd.Flags().StringVar(&parts.City, "city", "", "City")
	cmd.Flags().StringVar(&parts.State, "state", "", "State (default "+normalize.DefaultState+")")
	cmd.Flags().StringVar(&parts.Zip, "zip", "", "Zip code")

	return cmd
}

// createDecomposeCmd parses addresses given as arguments
func createDecomposeCmd() *cobra.Command {
	var localDebug bool

	cmd := &cobra.Command{
		Use:   "decompose [address...]",
		Short: "Split composite addresses into routing components (JSON lines)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if localDebug {
				enableTracing()
			}

			lex, err := loadLexicon()
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, raw := range args {
				if err := enc.Encode(normalize.DecomposeDebug(localDebug, raw, lex)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&localDebug, "debug", false, "Trace every pipeline stage at debug level")

	return cmd
}

// createPostalCmd compares decomposition with libpostal
func createPostalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "postal-check [address...]",
		Short: "Compare decomposition against libpostal (needs -tags libpostal)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !postal.Available() {
				return postal.ErrUnavailable
			}

			lex, err := loadLexicon()
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, raw := range args {
				c := normalize.Decompose(raw, lex)
				cmp, err := postal.Compare(raw, c)
				if err != nil {
					return fmt.Errorf("libpostal parse failed for %q: %w", raw, err)
				}
				out := struct {
					Components normalize.AddressComponents `json:"components"`
					Postal     postal.Comparison           `json:"postal"`
				}{c, cmp}
				if err := enc.Encode(out); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
