package clientip_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/listingdesk/backend/internal/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	t.Run("cloudflare header wins", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("CF-Connecting-IP", "203.0.113.10")
		r.Header.Set("X-Forwarded-For", "203.0.113.20")
		r.RemoteAddr = "203.0.113.30:1234"

		assert.Equal(t, "203.0.113.10", clientip.GetIP(r))
	})

	t.Run("first valid forwarded entry", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "not-an-ip, 203.0.113.20, 10.0.0.1")

		assert.Equal(t, "203.0.113.20", clientip.GetIP(r))
	})

	t.Run("x-real-ip fallback", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Real-IP", "203.0.113.40")

		assert.Equal(t, "203.0.113.40", clientip.GetIP(r))
	})

	t.Run("remote addr fallback", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "203.0.113.50:5678"

		assert.Equal(t, "203.0.113.50", clientip.GetIP(r))
	})

	t.Run("invalid header values are skipped", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("CF-Connecting-IP", "garbage")
		r.RemoteAddr = "203.0.113.60:1234"

		assert.Equal(t, "203.0.113.60", clientip.GetIP(r))
	})

	t.Run("ipv6", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "[2001:db8::1]:1234"

		assert.Equal(t, "2001:db8::1", clientip.GetIP(r))
	})
}
