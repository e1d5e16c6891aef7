// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// schema.go provides a Valkey-backed cache for inferred product type
// schemas. Inference scans every attribute bag of a type, so the result
// is cached and invalidated whenever a product of that type changes.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// schemaKeyPrefix is the Valkey key prefix for cached schemas.
	schemaKeyPrefix = "schema:"

	// DefaultSchemaTTL bounds staleness even without explicit invalidation.
	DefaultSchemaTTL = 10 * time.Minute
)

// SchemaCache manages inferred-schema JSON caching in Valkey.
type SchemaCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSchemaCache creates a schema cache backed by the given Valkey client.
func NewSchemaCache(client *redis.Client, ttl time.Duration) *SchemaCache {
	if ttl == 0 {
		ttl = DefaultSchemaTTL
	}
	return &SchemaCache{client: client, ttl: ttl}
}

// Get retrieves the cached schema JSON for a product type. Returns
// (nil, false) on miss. Cache errors read as misses.
func (sc *SchemaCache) Get(ctx context.Context, typeID uuid.UUID) ([]byte, bool) {
	val, err := sc.client.Get(ctx, schemaKeyPrefix+typeID.String()).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("schema cache get error", "type_id", typeID, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores the schema JSON for a product type with the configured TTL.
func (sc *SchemaCache) Set(ctx context.Context, typeID uuid.UUID, payload []byte) {
	if err := sc.client.Set(ctx, schemaKeyPrefix+typeID.String(), payload, sc.ttl).Err(); err != nil {
		slog.Warn("schema cache set error", "type_id", typeID, "error", err)
	}
}

// Invalidate drops the cached schema for one product type. Called when a
// product of the type is created, updated, or deleted.
func (sc *SchemaCache) Invalidate(ctx context.Context, typeID uuid.UUID) {
	if err := sc.client.Del(ctx, schemaKeyPrefix+typeID.String()).Err(); err != nil {
		slog.Warn("schema cache invalidate error", "type_id", typeID, "error", err)
	}
}

// InvalidateAll removes every cached schema by scanning for the prefix.
// Used at startup after dev seeding.
func (sc *SchemaCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := sc.client.Scan(ctx, cursor, schemaKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("schema cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := sc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("schema cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("schema cache fully cleared", "deleted", deleted)
	}
}
