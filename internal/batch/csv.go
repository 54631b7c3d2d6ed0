package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/lville-gis/internal/normalize"
)

// ComposeColumns maps CSV header names to address parts. An empty name, or a
// name missing from the header, leaves that part absent for every row.
type ComposeColumns struct {
	Number string
	Street string
	City   string
	State  string
	Zip    string
}

// DefaultComposeColumns matches the geo_* field names used by the address
// sources
func DefaultComposeColumns() ComposeColumns {
	return ComposeColumns{
		Number: "geo_number",
		Street: "geo_address",
		City:   "geo_city",
		State:  "geo_state",
		Zip:    "geo_zip",
	}
}

// FullAddressColumn is appended to composed CSV output
const FullAddressColumn = "full_address"

// readCSV reads a header and every record, tolerating ragged rows
func readCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read records: %w", err)
	}
	return header, records, nil
}

// columnIndex finds name in header, ignoring case and surrounding space
func columnIndex(header []string, name string) int {
	if name == "" {
		return -1
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// withExtra copies record padded to width and appends extra values, so
// ragged input still produces rectangular output
func withExtra(record []string, width int, extra ...string) []string {
	if len(record) > width {
		width = len(record)
	}
	row := make([]string, width, width+len(extra))
	copy(row, record)
	return append(row, extra...)
}

func field(record []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(record) {
		return "", false
	}
	return record[idx], true
}

// DecomposeCSV reads addresses from column of r and writes every input
// column plus the routing columns to w.
func (p *Processor) DecomposeCSV(ctx context.Context, r io.Reader, w io.Writer, column string) (Stats, error) {
	header, records, err := readCSV(r)
	if err != nil {
		return Stats{}, err
	}

	idx := columnIndex(header, column)
	if idx < 0 {
		return Stats{}, fmt.Errorf("column %q not found in header %v", column, header)
	}

	inputs := make([]string, len(records))
	skipped := 0
	for i, rec := range records {
		v, ok := field(rec, idx)
		if !ok {
			skipped++
			p.logger.Warn("row missing address column", zap.Int("row", i+2), zap.String("column", column))
		}
		inputs[i] = v
	}

	results, stats, err := p.DecomposeAll(ctx, inputs)
	stats.Skipped = skipped
	if err != nil {
		return stats, err
	}

	out := csv.NewWriter(w)
	if err := out.Write(withExtra(header, len(header), normalize.RoutingColumns...)); err != nil {
		return stats, fmt.Errorf("failed to write header: %w", err)
	}
	for i, rec := range records {
		if err := out.Write(withExtra(rec, len(header), results[i].Row()...)); err != nil {
			return stats, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return stats, fmt.Errorf("failed to flush output: %w", err)
	}

	p.logger.Info("decomposed csv",
		zap.Int("rows", stats.Processed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Duration("elapsed", stats.Elapsed))
	return stats, nil
}

// ComposeCSV builds a full address for every record and writes every input
// column plus full_address to w.
func (p *Processor) ComposeCSV(ctx context.Context, r io.Reader, w io.Writer, cols ComposeColumns) (Stats, error) {
	header, records, err := readCSV(r)
	if err != nil {
		return Stats{}, err
	}

	idx := [5]int{
		columnIndex(header, cols.Number),
		columnIndex(header, cols.Street),
		columnIndex(header, cols.City),
		columnIndex(header, cols.State),
		columnIndex(header, cols.Zip),
	}
	found := false
	for _, i := range idx {
		if i >= 0 {
			found = true
		}
	}
	if !found {
		return Stats{}, fmt.Errorf("none of the address columns %+v found in header %v", cols, header)
	}

	inputs := make([]normalize.AddressParts, len(records))
	for i, rec := range records {
		number, _ := field(rec, idx[0])
		street, _ := field(rec, idx[1])
		city, _ := field(rec, idx[2])
		state, _ := field(rec, idx[3])
		zip, _ := field(rec, idx[4])
		inputs[i] = normalize.AddressParts{Number: number, Street: street, City: city, State: state, Zip: zip}
	}

	results, stats, err := p.ComposeAll(ctx, inputs)
	if err != nil {
		return stats, err
	}

	out := csv.NewWriter(w)
	if err := out.Write(withExtra(header, len(header), FullAddressColumn)); err != nil {
		return stats, fmt.Errorf("failed to write header: %w", err)
	}
	for i, rec := range records {
		if err := out.Write(withExtra(rec, len(header), results[i])); err != nil {
			return stats, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return stats, fmt.Errorf("failed to flush output: %w", err)
	}

	p.logger.Info("composed csv", zap.Int("rows", stats.Processed), zap.Duration("elapsed", stats.Elapsed))
	return stats, nil
}
