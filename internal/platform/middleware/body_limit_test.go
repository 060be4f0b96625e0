package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runBodyLimit(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		// Drain the body like a real handler would.
		if _, err := io.ReadAll(c.Request().Body); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestBodyLimit_AllowsSmallBody(t *testing.T) {
	body := bytes.NewReader([]byte(`{"full_name":"Maria"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", body)
	req.Header.Set("Content-Type", "application/json")

	rec, called := runBodyLimit(t, BodyLimit("1M"), req)
	if !called {
		t.Fatal("handler not called for a body within the limit")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestBodyLimit_RejectsByContentLength(t *testing.T) {
	largeBody := bytes.Repeat([]byte("x"), 2048)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", bytes.NewReader(largeBody))
	req.Header.Set("Content-Type", "application/json")

	rec, called := runBodyLimit(t, BodyLimit("1K"), req)
	if called {
		t.Error("handler must not run for an oversized Content-Length")
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected an error message in the response")
	}
}

func TestBodyLimit_RejectsStreamedOverflow(t *testing.T) {
	// Without a Content-Length the limiting reader must still catch the
	// overflow mid-stream.
	largeBody := bytes.Repeat([]byte("x"), 2048)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", bytes.NewReader(largeBody))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/json")

	rec, _ := runBodyLimit(t, BodyLimit("1K"), req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestBodyLimit_SkipsEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)

	_, called := runBodyLimit(t, BodyLimit("1M"), req)
	if !called {
		t.Error("handler must run for a bodyless request")
	}
}

func TestParseLimit(t *testing.T) {
	cases := map[string]int64{
		"":     1 << 20,
		"1M":   1 << 20,
		"10M":  10 << 20,
		"512K": 512 << 10,
		"1G":   1 << 30,
		"2048": 2048,
		"bad":  1 << 20,
	}
	for in, want := range cases {
		if got := parseLimit(in); got != want {
			t.Errorf("parseLimit(%q) = %d, want %d", in, got, want)
		}
	}
}
