package repo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestOpen_EmptyURL(t *testing.T) {
	for _, u := range []string{"", "   "} {
		db, err := Open(u)
		if !errors.Is(err, ErrNotConfigured) || db != nil {
			t.Fatalf("Open(%q) = %v, %v; want ErrNotConfigured", u, db, err)
		}
	}
}

func TestOpen_UnsupportedSchemeRedactsCredentials(t *testing.T) {
	_, err := Open("mysql://root:hunter2@db:3306/app")
	if !errors.Is(err, ErrUnsupportedURL) {
		t.Fatalf("expected ErrUnsupportedURL, got %v", err)
	}
	if strings.Contains(err.Error(), "hunter2") {
		t.Fatalf("credentials leaked: %v", err)
	}
	if !strings.Contains(err.Error(), "mysql://***@db:3306/app") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestNormalizePostgresURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@h/db":           "postgres://u:p@h/db",
		"postgresql://u:p@h/db":         "postgres://u:p@h/db",
		"postgresql+asyncpg://u:p@h/db": "postgres://u:p@h/db",
		"postgresql://h/db?sslmode=off": "postgres://h/db?sslmode=off",
	}
	for in, want := range tests {
		if got := normalizePostgresURL(in); got != want {
			t.Errorf("normalizePostgresURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOpen_PostgresIsLazy_PingFails(t *testing.T) {
	// Port 1 on loopback refuses connections; Open must still succeed.
	db, err := Open("postgresql://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := Ping(ctx, db); err == nil {
		t.Fatalf("expected ping to fail against a closed port")
	}
	if err := (Probe{DB: db}).Ping(ctx); err == nil {
		t.Fatalf("expected probe to fail")
	}
}

func TestOpenSQLite_ErrorOnBadPath(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "does-not-exist", "app.db")

	db, err := OpenSQLite(bad)
	if err == nil || db != nil {
		t.Fatalf("expected error opening %q, got db=%v err=%v", bad, db, err)
	}
	if !os.IsNotExist(err) {
		t.Fatalf("unexpected error opening %q: %v", bad, err)
	}
}

func TestOpen_SQLiteURL_SetsPragmasPoolAndPings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")

	db, err := Open("sqlite://" + path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	var (
		journalMode string
		fkOn        int
		busyMS      int
	)
	if err := db.Raw("PRAGMA journal_mode;").Row().Scan(&journalMode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if strings.ToLower(journalMode) != "wal" {
		t.Fatalf("expected journal_mode=wal, got %q", journalMode)
	}
	if err := db.Raw("PRAGMA foreign_keys;").Row().Scan(&fkOn); err != nil || fkOn != 1 {
		t.Fatalf("expected foreign_keys=1, got %d (%v)", fkOn, err)
	}
	if err := db.Raw("PRAGMA busy_timeout;").Row().Scan(&busyMS); err != nil || busyMS != 5000 {
		t.Fatalf("expected busy_timeout=5000, got %d (%v)", busyMS, err)
	}
	if stats := sqlDB.Stats(); stats.MaxOpenConnections != maxOpenConns {
		t.Fatalf("expected MaxOpenConnections=%d, got %d", maxOpenConns, stats.MaxOpenConnections)
	}

	if err := Ping(context.Background(), db); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestOpen_InMemory(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := (Probe{DB: db}).Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := Close(db); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestPingAndClose_NilDB(t *testing.T) {
	if err := Ping(context.Background(), nil); err != nil {
		t.Fatalf("nil db should be healthy: %v", err)
	}
	if err := (Probe{}).Ping(context.Background()); err != nil {
		t.Fatalf("zero probe should be healthy: %v", err)
	}
	if err := Close(nil); err != nil {
		t.Fatalf("Close(nil): %v", err)
	}
}

func TestPing_ClosedPool(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := Close(db); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := Ping(context.Background(), db); err == nil {
		t.Fatalf("expected ping on closed pool to fail")
	}
}

// Compile-time guard to ensure signature stability.
var _ func(string) (*gorm.DB, error) = Open
