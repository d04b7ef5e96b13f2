package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mun-club-api/pkg/middleware/requestid"
)

const (
	responseMetaKey = "response_meta"
	cacheHitKey     = "cache_hit"
	startedAtKey    = "response_meta_started_at"
)

// WithResponseMeta starts a per-request metadata map that handlers attach to the envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := map[string]interface{}{}
		if id := requestid.Value(c); id != "" {
			meta["request_id"] = id
		}
		c.Set(responseMetaKey, meta)
		c.Set(startedAtKey, time.Now())
		c.Next()
	}
}

// SetCacheHit flags whether the payload came from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	if meta := ExtractMeta(c); meta != nil {
		meta[cacheHitKey] = hit
	}
}

// ExtractMeta returns the metadata map with the elapsed processing time filled in.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	value, exists := c.Get(responseMetaKey)
	if !exists {
		return nil
	}
	meta, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	if started, ok := c.Get(startedAtKey); ok {
		if ts, ok := started.(time.Time); ok {
			meta["processing_time_ms"] = time.Since(ts).Milliseconds()
		}
	}
	return meta
}
