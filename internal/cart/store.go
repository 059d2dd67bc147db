package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists the serialized cart of a shopper session. Load returns nil
// without error when nothing is stored.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, payload []byte) error
}

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartKey(sessionID string) string
}

type redisStore struct {
	client redisKV
	ttl    time.Duration
}

// NewRedisStore keeps each cart under its own key, refreshed to ttl on every save.
func NewRedisStore(client redisKV, ttl time.Duration) (Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

func (s *redisStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if redis.IsMiss(err) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(raw), nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, payload []byte) error {
	return s.client.Set(ctx, s.client.CartKey(sessionID), string(payload), s.ttl)
}

type gormStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewGormStore keeps carts in the cart_states table.
func NewGormStore(db *gorm.DB, ttl time.Duration) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db required")
	}
	return &gormStore{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *gormStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	var record models.CartState
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND expires_at > ?", sessionID, s.now().UTC()).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(record.Payload), nil
}

func (s *gormStore) Save(ctx context.Context, sessionID string, payload []byte) error {
	now := s.now().UTC()
	ttl := s.ttl
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	record := models.CartState{
		SessionID: sessionID,
		Version:   SchemaVersion,
		Payload:   string(payload),
		ExpiresAt: now.Add(ttl),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"version", "payload", "expires_at", "updated_at"}),
		}).
		Create(&record).Error
}

// ExpiredStatePurger deletes stored carts past their expiry. Only the gorm
// store needs it; Redis expires keys on its own.
type ExpiredStatePurger interface {
	PurgeExpired(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

// NewStatePurger returns the purger backing the cart_states table.
func NewStatePurger(db *gorm.DB) (ExpiredStatePurger, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db required")
	}
	return &gormStore{db: db, now: time.Now}, nil
}

// PurgeExpired removes at most limit rows whose expires_at is at or before cutoff.
func (s *gormStore) PurgeExpired(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	if limit <= 0 {
		limit = 500
	}
	expired := s.db.Model(&models.CartState{}).
		Select("session_id").
		Where("expires_at <= ?", cutoff.UTC()).
		Limit(limit)
	res := s.db.WithContext(ctx).
		Where("session_id IN (?)", expired).
		Delete(&models.CartState{})
	return res.RowsAffected, res.Error
}
