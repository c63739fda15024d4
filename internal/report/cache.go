package report

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"symptom-checker-server/internal/models"
)

// CacheStore persists generated reports keyed by normalized input hash so
// near-identical assessments skip the model call. Entries carry a TTL and a
// hit counter; expired rows are removed by PurgeLoop.
type CacheStore struct {
	db  *gorm.DB
	ttl time.Duration
	log *zap.Logger
}

// NewCacheStore creates a cache store with the given entry TTL.
func NewCacheStore(db *gorm.DB, ttl time.Duration, log *zap.Logger) *CacheStore {
	return &CacheStore{db: db, ttl: ttl, log: log}
}

// Lookup returns the cached payload for key and increments its hit counter.
// Expired or absent entries return nil.
func (s *CacheStore) Lookup(key string) *Payload {
	var entry models.ReportCache
	err := s.db.Where("cache_key = ? AND expires_at > ?", key, time.Now()).First(&entry).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			s.log.Warn("report cache lookup failed", zap.Error(err))
		}
		return nil
	}

	var payload Payload
	if err := json.Unmarshal(entry.ReportData, &payload); err != nil {
		s.log.Warn("report cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		s.db.Delete(&entry)
		return nil
	}

	s.db.Model(&entry).UpdateColumn("hit_count", gorm.Expr("hit_count + 1"))
	return &payload
}

// Put stores a payload under key, replacing any previous entry.
func (s *CacheStore) Put(key string, payload *Payload) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("report cache marshal failed", zap.Error(err))
		return
	}

	s.db.Where("cache_key = ?", key).Delete(&models.ReportCache{})
	entry := models.ReportCache{
		CacheKey:   key,
		ReportData: models.JSONBlob(data),
		ExpiresAt:  time.Now().Add(s.ttl),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		s.log.Warn("report cache write failed", zap.Error(err))
	}
}

// Purge deletes expired entries and returns how many were removed.
func (s *CacheStore) Purge() int64 {
	result := s.db.Where("expires_at <= ?", time.Now()).Delete(&models.ReportCache{})
	if result.Error != nil {
		s.log.Warn("report cache purge failed", zap.Error(result.Error))
		return 0
	}
	return result.RowsAffected
}

// PurgeLoop runs Purge at the given interval until ctx is cancelled.
func (s *CacheStore) PurgeLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Purge(); n > 0 {
				s.log.Info("purged expired report cache entries", zap.Int64("count", n))
			}
		}
	}
}
