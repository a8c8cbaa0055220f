package requestinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const chromeMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

func TestEnrich(t *testing.T) {
	var got *RequestInfo
	h := Enrich(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = From(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/register", nil)
	r.Header.Set("User-Agent", chromeMac)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	r.Header.Set("Accept-Language", "en-US,en;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got == nil {
		t.Fatal("RequestInfo not attached")
	}
	if got.IP.String() != "203.0.113.7" {
		t.Errorf("IP = %s", got.IP)
	}
	if got.ID == "" {
		t.Errorf("empty request ID")
	}
	if got.PrimaryLang != "en" {
		t.Errorf("PrimaryLang = %q", got.PrimaryLang)
	}
	if got.UA.Device != "Desktop" || got.UA.IsBot {
		t.Errorf("UA = %+v", got.UA)
	}
}

func TestClientIP_RemoteAddr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.2:5555"
	if ip := clientIP(r); ip.String() != "198.51.100.2" {
		t.Fatalf("clientIP = %s", ip)
	}
}

func TestFrom_Missing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if From(r.Context()) != nil {
		t.Fatal("expected nil")
	}
}
