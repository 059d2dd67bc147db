package cart

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeKV struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) CartKey(sessionID string) string {
	return "sf:cart:" + sessionID
}

func TestRedisStoreRoundTrip(t *testing.T) {
	kv := &fakeKV{values: map[string]string{}, ttls: map[string]time.Duration{}}
	store, err := NewRedisStore(kv, time.Hour)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	raw, err := store.Load(ctx, "s1")
	if err != nil || raw != nil {
		t.Fatalf("expected miss, got %q err=%v", raw, err)
	}
	if err := store.Save(ctx, "s1", []byte(`{"version":1,"items":[]}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if kv.ttls["sf:cart:s1"] != time.Hour {
		t.Fatalf("expected ttl to be applied, got %s", kv.ttls["sf:cart:s1"])
	}
	raw, err = store.Load(ctx, "s1")
	if err != nil || string(raw) != `{"version":1,"items":[]}` {
		t.Fatalf("unexpected load %q err=%v", raw, err)
	}
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cart.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.CartState{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestGormStoreUpsertAndExpiry(t *testing.T) {
	db := openSQLite(t)
	store, err := NewGormStore(db, time.Hour)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	first, _ := Encode(New([]LineItem{line("1", "11", "2.00", 1)}))
	second, _ := Encode(New([]LineItem{line("1", "11", "2.00", 5)}))
	if err := store.Save(ctx, "s1", first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := store.Save(ctx, "s1", second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	var count int64
	db.Model(&models.CartState{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected upsert to keep one row, got %d", count)
	}

	raw, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.TotalQuantity() != 5 {
		t.Fatalf("expected latest payload, got quantity %d", c.TotalQuantity())
	}

	gs := store.(*gormStore)
	gs.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	raw, err = store.Load(ctx, "s1")
	if err != nil || raw != nil {
		t.Fatalf("expected expired cart to be ignored, got %q err=%v", raw, err)
	}
}

func TestServiceOverGormStore(t *testing.T) {
	store, err := NewGormStore(openSQLite(t), time.Hour)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	selections := stubSelections{"s1/1": selectionFor("1", "11", "2.50", 2)}
	svc := newTestService(t, store, selections, nil)
	ctx := context.Background()

	if _, err := svc.AddToCart(ctx, "s1", "1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.DecreaseLineQuantity(ctx, "s1", "11"); err != nil {
		t.Fatalf("decrease: %v", err)
	}
	c, err := svc.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.TotalQuantity() != 1 || c.TotalPrice().String() != "2.5" {
		t.Fatalf("unexpected cart %+v", c.Items())
	}
}

func TestGormPurgeExpiredRemovesOnlyStaleRows(t *testing.T) {
	db := openSQLite(t)
	store, err := NewGormStore(db, time.Hour)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	payload, _ := Encode(New([]LineItem{line("1", "11", "2.00", 1)}))

	gs := store.(*gormStore)
	gs.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	if err := store.Save(ctx, "stale", payload); err != nil {
		t.Fatalf("save stale: %v", err)
	}
	gs.now = time.Now
	if err := store.Save(ctx, "fresh", payload); err != nil {
		t.Fatalf("save fresh: %v", err)
	}

	purger, err := NewStatePurger(db)
	if err != nil {
		t.Fatalf("new purger: %v", err)
	}
	deleted, err := purger.PurgeExpired(ctx, time.Now(), 10)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 row purged, got %d", deleted)
	}

	var remaining []models.CartState
	db.Find(&remaining)
	if len(remaining) != 1 || remaining[0].SessionID != "fresh" {
		t.Fatalf("unexpected remaining rows %+v", remaining)
	}
}
