package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/seat-reservation/internal/config"
)

// bodyRecorder forwards the response and keeps a copy of the body up to
// limit bytes.  overflow is set once the body no longer fits.
type bodyRecorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (br *bodyRecorder) WriteHeader(code int) {
	br.status = code
	br.ResponseWriter.WriteHeader(code)
}

func (br *bodyRecorder) Write(b []byte) (int, error) {
	if !br.overflow {
		if br.limit > 0 && br.buf.Len()+len(b) > br.limit {
			br.overflow = true
			br.buf.Reset()
		} else {
			br.buf.Write(b)
		}
	}
	return br.ResponseWriter.Write(b)
}

// NewSeatMapCache caches the seat map JSON in Redis under the seat map
// generation reported by version.  A reserve or cancel moves the
// generation, so readers switch to a fresh key and never see an older
// listing.  A listing is stored only if the generation is the same
// before and after the handler ran; otherwise it may predate a change
// and is dropped.
//
// Generations are per process, so keys carry a namespace unique to this
// middleware instance.  Superseded entries simply expire after cfg.TTL.
func NewSeatMapCache(cfg config.CacheConfig, rdb *redis.Client, version func() uint64) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil || version == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ns := cfg.Prefix + ":" + uuid.NewString()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			gen := version()
			key := seatMapKey(ns, gen)

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if rec.status != http.StatusOK || rec.overflow || version() != gen {
				return nil
			}
			if err := rdb.SetEx(context.WithoutCancel(ctx), key, rec.buf.Bytes(), cfg.TTL).Err(); err != nil {
				c.Logger().Warnf("[cache] store %s: %v", key, err)
			}
			return nil
		}
	}
}

func seatMapKey(ns string, gen uint64) string {
	return fmt.Sprintf("%s:seats:%d", ns, gen)
}
