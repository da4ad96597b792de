package data

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"oublog-audit/internal/conf"
	"oublog-audit/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

const (
	activityKeyPrefix   = "oublog:activity:"
	defaultActivitySize = 50
	defaultActivityTTL  = 24 * time.Hour
)

// Compile-time interface checks
var (
	_ domain.ActivityCache = (*redisActivityCache)(nil)
	_ domain.ActivityCache = (*noopActivityCache)(nil)
)

// redisActivityCache keeps a capped list of rendered entries per course module.
type redisActivityCache struct {
	rdb  *redis.Client
	size int64
	ttl  time.Duration
	log  *log.Helper
}

// NewActivityCache creates a redis backed ActivityCache.
// Returns a no-op cache if the redis client is nil.
func NewActivityCache(rdb *redis.Client, c *conf.Data, logger log.Logger) domain.ActivityCache {
	if rdb == nil {
		return &noopActivityCache{}
	}

	size, ttl := int64(defaultActivitySize), defaultActivityTTL
	if c != nil && c.Redis != nil {
		if c.Redis.ActivitySize > 0 {
			size = int64(c.Redis.ActivitySize)
		}
		ttl = conf.ParseDuration(c.Redis.ActivityTTL, defaultActivityTTL)
	}

	return &redisActivityCache{
		rdb:  rdb,
		size: size,
		ttl:  ttl,
		log:  log.NewHelper(logger),
	}
}

func (c *redisActivityCache) key(cmID int64) string {
	return activityKeyPrefix + strconv.FormatInt(cmID, 10)
}

// Push prepends entry and trims the list to the configured size.
func (c *redisActivityCache) Push(ctx context.Context, cmID int64, entry domain.AuditEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		c.log.WithContext(ctx).Warnf("Failed to marshal activity entry: %v", err)
		return nil
	}

	key := c.key(cmID)
	pipe := c.rdb.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, c.size-1)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.WithContext(ctx).Warnf("Failed to push activity for cm %d: %v", cmID, err)
		return err
	}
	return nil
}

// Recent returns up to limit entries, newest first. Errors are treated as a miss.
func (c *redisActivityCache) Recent(ctx context.Context, cmID int64, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 || int64(limit) > c.size {
		limit = int(c.size)
	}

	raw, err := c.rdb.LRange(ctx, c.key(cmID), 0, int64(limit)-1).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.WithContext(ctx).Warnf("Failed to read activity for cm %d: %v", cmID, err)
		}
		return []domain.AuditEntry{}, nil
	}

	entries := make([]domain.AuditEntry, 0, len(raw))
	for _, item := range raw {
		var entry domain.AuditEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			c.log.WithContext(ctx).Warnf("Failed to unmarshal activity entry: %v", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// noopActivityCache is used when redis is not configured.
type noopActivityCache struct{}

func (noopActivityCache) Push(context.Context, int64, domain.AuditEntry) error {
	return nil
}

func (noopActivityCache) Recent(context.Context, int64, int) ([]domain.AuditEntry, error) {
	return []domain.AuditEntry{}, nil
}
