package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/config"
)

func TestNewSQLitePingAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.db")
	client, err := New(context.Background(), config.DBConfig{SQLitePath: path, MaxOpenConns: 1}, true, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if !client.IsSQLite() {
		t.Fatal("expected sqlite client")
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestDialectorFor(t *testing.T) {
	if _, err := dialectorFor(config.DBConfig{}, false); err == nil {
		t.Fatal("expected error without dsn")
	}
	if _, err := dialectorFor(config.DBConfig{}, true); err == nil {
		t.Fatal("expected error without sqlite path")
	}

	d, err := dialectorFor(config.DBConfig{DSN: "postgres://shop@localhost:5432/storefront"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name() != "postgres" {
		t.Fatalf("expected postgres dialector, got %s", d.Name())
	}
}
