package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/lville-gis/internal/normalize"
)

const (
	parcelUpdateSQL  = `UPDATE "datamining"."parcels_hiperweb" SET clean_address = $2, st_num = $3, pre_dir = $4, st_name = $5, st_type = $6, post_dir = $7 WHERE id = $1`
	addressUpdateSQL = `UPDATE "datamining"."addresses_all" SET full_address = $2 WHERE id = $1`
	addressClearSQL  = `UPDATE "datamining"."addresses_all" SET full_address = $2, geo_number = NULL, geo_address = NULL, geo_city = NULL, geo_state = NULL, geo_zip = NULL WHERE id = $1`
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db, DefaultTables()), mock
}

func parcelArgs(u ParcelUpdate) []driver.Value {
	args := []driver.Value{u.ID}
	for _, v := range u.Components.Row() {
		if v == "" {
			args = append(args, nil)
		} else {
			args = append(args, v)
		}
	}
	return args
}

func TestSaveParcels(t *testing.T) {
	updates := []ParcelUpdate{
		{ID: 1, Components: normalize.AddressComponents{
			CleanAddress: "100 N MAIN ST",
			StreetNumber: "100",
			PreDirection: normalize.Direction{Value: "N", Recognized: true},
			StreetName:   "MAIN",
			StreetType:   normalize.StreetType{Value: "ST", Recognized: true},
		}},
		{ID: 2, Components: normalize.AddressComponents{}},
		{ID: 3, Components: normalize.AddressComponents{CleanAddress: "HWY 20", StreetName: "HWY 20"}},
	}

	tests := []struct {
		name    string
		failAt  int // -1 means every row succeeds
		want    int
		wantErr bool
	}{
		{"commits every row", -1, 3, false},
		{"first row fails", 0, 0, true},
		{"later row fails", 2, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)

			mock.ExpectBegin()
			prep := mock.ExpectPrepare(regexp.QuoteMeta(parcelUpdateSQL))
			for i, u := range updates {
				exec := prep.ExpectExec().WithArgs(parcelArgs(u)...)
				if i == tt.failAt {
					exec.WillReturnError(errors.New("constraint violated"))
					break
				}
				exec.WillReturnResult(sqlmock.NewResult(0, 1))
			}
			if tt.failAt < 0 {
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			got, err := s.SaveParcels(context.Background(), updates)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SaveParcels() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SaveParcels() = %v, want %v", got, tt.want)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestSaveParcelsCommitFails(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta(parcelUpdateSQL)).
		ExpectExec().WithArgs(parcelArgs(ParcelUpdate{ID: 9})...).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

	got, err := s.SaveParcels(context.Background(), []ParcelUpdate{{ID: 9}})
	if err == nil {
		t.Fatal("SaveParcels() expected error when commit fails")
	}
	if got != 0 {
		t.Errorf("SaveParcels() = %v, want 0", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSaveAddresses(t *testing.T) {
	updates := []AddressUpdate{
		{ID: 10, FullAddress: "2430 Tucker Dr Lawrenceville GA 30045"},
		{ID: 11, FullAddress: ""},
	}

	tests := []struct {
		name       string
		clearParts bool
		query      string
	}{
		{"full address only", false, addressUpdateSQL},
		{"clear source fields", true, addressClearSQL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)

			mock.ExpectBegin()
			prep := mock.ExpectPrepare(regexp.QuoteMeta(tt.query))
			prep.ExpectExec().WithArgs(int64(10), "2430 Tucker Dr Lawrenceville GA 30045").
				WillReturnResult(sqlmock.NewResult(0, 1))
			prep.ExpectExec().WithArgs(int64(11), nil).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			got, err := s.SaveAddresses(context.Background(), updates, tt.clearParts)
			if err != nil {
				t.Fatalf("SaveAddresses() error = %v", err)
			}
			if got != 2 {
				t.Errorf("SaveAddresses() = %v, want 2", got)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestSaveAddressesRollback(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(addressClearSQL))
	prep.ExpectExec().WithArgs(int64(1), "7 Pike St Conyers GA").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs(int64(2), "9 Elm St GA").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	got, err := s.SaveAddresses(context.Background(), []AddressUpdate{
		{ID: 1, FullAddress: "7 Pike St Conyers GA"},
		{ID: 2, FullAddress: "9 Elm St GA"},
		{ID: 3, FullAddress: "11 Oak Dr GA"},
	}, true)
	if err == nil {
		t.Fatal("SaveAddresses() expected error")
	}
	if got != 0 {
		t.Errorf("SaveAddresses() = %v, want 0", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLoadParcels(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "full_address"}).
		AddRow(int64(1), "100 N MAIN ST GA 30045").
		AddRow(int64(2), nil)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, full_address FROM "datamining"."parcels_hiperweb" ORDER BY id`)).
		WillReturnRows(rows)

	got, err := s.LoadParcels(context.Background())
	if err != nil {
		t.Fatalf("LoadParcels() error = %v", err)
	}
	want := []ParcelRow{{ID: 1, FullAddress: "100 N MAIN ST GA 30045"}, {ID: 2}}
	if len(got) != len(want) {
		t.Fatalf("LoadParcels() returned %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLoadAddresses(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "geo_number", "geo_address", "geo_city", "geo_state", "geo_zip"}).
		AddRow(int64(10), "2430", "Tucker Dr", "Lawrenceville", nil, "30045")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, geo_number, geo_address, geo_city, geo_state, geo_zip FROM "datamining"."addresses_all" ORDER BY id`)).
		WillReturnRows(rows)

	got, err := s.LoadAddresses(context.Background())
	if err != nil {
		t.Fatalf("LoadAddresses() error = %v", err)
	}
	want := normalize.AddressParts{Number: "2430", Street: "Tucker Dr", City: "Lawrenceville", Zip: "30045"}
	if len(got) != 1 || got[0].ID != 10 || got[0].Parts != want {
		t.Errorf("LoadAddresses() = %+v, want id 10 with %+v", got, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
