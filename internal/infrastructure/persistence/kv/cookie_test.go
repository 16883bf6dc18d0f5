package kv

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCookieTestContext(t *testing.T, cookies ...*http.Cookie) (*CookieStore, *gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range cookies {
		ctx.Request.AddCookie(cookie)
	}

	return NewCookieStore(ctx, true), ctx, recorder
}

func TestCookieStoreGetFromRequest(t *testing.T) {
	payload := `{"sessionId":"abc","analytics":true}`
	store, _, _ := newCookieTestContext(t, &http.Cookie{Name: "w2w_consent", Value: url.QueryEscape(payload)})

	value, exists := store.Get("w2w_consent")
	require.True(t, exists)
	assert.Equal(t, payload, value, "JSON must survive the cookie round trip")
}

func TestCookieStoreGetMissing(t *testing.T) {
	store, _, _ := newCookieTestContext(t)

	_, exists := store.Get("w2w_consent")
	assert.False(t, exists)
}

func TestCookieStoreReadAfterWrite(t *testing.T) {
	store, _, _ := newCookieTestContext(t)

	require.NoError(t, store.Set("w2w_session_id", "id-1", time.Hour))

	value, exists := store.Get("w2w_session_id")
	assert.True(t, exists, "a write must be visible within the same request")
	assert.Equal(t, "id-1", value)
}

func TestCookieStoreSetWritesResponseCookie(t *testing.T) {
	store, _, recorder := newCookieTestContext(t)

	require.NoError(t, store.Set("w2w_consent", `{"analytics":true}`, 24*time.Hour))

	header := strings.Join(recorder.Header().Values("Set-Cookie"), "\n")
	assert.Contains(t, header, "w2w_consent=")
	assert.Contains(t, header, "Max-Age=86400")
	assert.Contains(t, header, "SameSite=Lax")
	assert.Contains(t, header, "Secure")
	assert.NotContains(t, header, "HttpOnly", "page scripts read the consent state")
}

func TestCookieStoreRemove(t *testing.T) {
	store, _, recorder := newCookieTestContext(t, &http.Cookie{Name: "w2w_consent", Value: "anything"})

	store.Remove("w2w_consent")

	_, exists := store.Get("w2w_consent")
	assert.False(t, exists, "removal must mask the request's copy")

	header := strings.Join(recorder.Header().Values("Set-Cookie"), "\n")
	assert.Contains(t, header, "w2w_consent=")
	assert.Contains(t, header, "Max-Age=0", "removal expires the cookie on the response")
}

func TestCookieStoreRemoveThenSet(t *testing.T) {
	store, _, _ := newCookieTestContext(t, &http.Cookie{Name: "w2w_session_id", Value: "old"})

	store.Remove("w2w_session_id")
	require.NoError(t, store.Set("w2w_session_id", "new", time.Hour))

	value, exists := store.Get("w2w_session_id")
	assert.True(t, exists)
	assert.Equal(t, "new", value)
}
