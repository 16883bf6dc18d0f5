package kv

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieStore is a Store bound to a single HTTP request/response pair. Reads
// see the request's cookies plus any values written earlier in the same
// request, so a save followed by a read within one handler is consistent.
// Values are URL-escaped on the wire (gin's cookie helpers), which keeps JSON
// payloads intact.
type CookieStore struct {
	ctx     *gin.Context
	secure  bool
	pending map[string]*string // nil value marks a removal
}

// NewCookieStore creates a cookie-backed store for one request. The secure
// flag should be true everywhere except local development.
func NewCookieStore(c *gin.Context, secure bool) *CookieStore {
	return &CookieStore{
		ctx:     c,
		secure:  secure,
		pending: make(map[string]*string),
	}
}

// Get reads a cookie value, preferring writes made earlier in this request.
func (cs *CookieStore) Get(key string) (string, bool) {
	if value, staged := cs.pending[key]; staged {
		if value == nil {
			return "", false
		}
		return *value, true
	}

	value, err := cs.ctx.Cookie(key)
	if err != nil {
		return "", false
	}
	return value, true
}

// Set writes a cookie on the response with SameSite=Lax and the configured
// secure flag. The cookie stays readable by page scripts, matching how the
// consent banner consumes it. Writing to an HTTP response cannot fail; the
// error return exists to satisfy the Store contract.
func (cs *CookieStore) Set(key, value string, ttl time.Duration) error {
	cs.ctx.SetSameSite(http.SameSiteLaxMode)
	cs.ctx.SetCookie(key, value, int(ttl.Seconds()), "/", "", cs.secure, false)
	cs.pending[key] = &value
	return nil
}

// Remove expires the cookie on the response and masks the request's copy so
// later reads in this request see it as absent.
func (cs *CookieStore) Remove(key string) {
	cs.ctx.SetSameSite(http.SameSiteLaxMode)
	cs.ctx.SetCookie(key, "", -1, "/", "", cs.secure, false)
	cs.pending[key] = nil
}
