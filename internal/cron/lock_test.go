package cron

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type memoryRedis struct{ data map[string]string }

func (m *memoryRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memoryRedis) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memoryRedis) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestRedisLockIsExclusiveUntilReleased(t *testing.T) {
	store := &memoryRedis{data: map[string]string{}}
	first, err := NewRedisLock(store, "sf:cron:lock", 0)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	second, _ := NewRedisLock(store, "sf:cron:lock", 0)
	ctx := context.Background()

	if ok, _ := first.Acquire(ctx); !ok {
		t.Fatal("first acquire should succeed")
	}
	if ok, _ := second.Acquire(ctx); ok {
		t.Fatal("second acquire should fail while held")
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("non-owner release: %v", err)
	}
	if _, held := store.data["sf:cron:lock"]; !held {
		t.Fatal("non-owner release must not drop the lock")
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("owner release: %v", err)
	}
	if ok, _ := second.Acquire(ctx); !ok {
		t.Fatal("acquire after release should succeed")
	}
}

func TestRedisLockRequiresKey(t *testing.T) {
	if _, err := NewRedisLock(&memoryRedis{data: map[string]string{}}, "", 0); err == nil {
		t.Fatal("expected error for empty key")
	}
}
