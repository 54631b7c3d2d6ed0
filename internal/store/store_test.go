package store

import (
	"context"
	"testing"
)

func TestQuoteTable(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"parcels_hiperweb", `"parcels_hiperweb"`},
		{"datamining.addresses_all", `"datamining"."addresses_all"`},
		{`odd"name`, `"odd""name"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := quoteTable(tt.input); got != tt.want {
				t.Errorf("quoteTable(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNullable(t *testing.T) {
	if n := nullable(""); n.Valid {
		t.Error("empty string should be NULL")
	}
	if n := nullable("DR"); !n.Valid || n.String != "DR" {
		t.Errorf("nullable(DR) = %+v", n)
	}
}

func TestMemoryStoreCancelled(t *testing.T) {
	m := NewMemoryStore(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.SaveParcels(ctx, []ParcelUpdate{{ID: 1}}); err == nil {
		t.Error("SaveParcels() expected error on cancelled context")
	}
	if len(m.Parcels) != 0 {
		t.Errorf("cancelled save wrote %d rows", len(m.Parcels))
	}
}
