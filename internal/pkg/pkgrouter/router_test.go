package pkgrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/godash/internal/pkg/pkgerror"
)

type fileResult struct{}

func (fileResult) ContentType() string { return "text/csv; charset=utf-8" }
func (fileResult) FileName() string    { return "dashboard_data.csv" }
func (fileResult) Body() []byte        { return []byte("a,b\n1,2\n") }

type createdResult struct {
	ID string `json:"id"`
}

func (createdResult) StatusCode() int { return http.StatusCreated }

func TestEndpointWritesAttachment(t *testing.T) {
	router := NewRouter(nil)
	router.GET("/download", func(ctx context.Context, r *http.Request) (any, error) {
		return fileResult{}, nil
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename=dashboard_data.csv` {
		t.Fatalf("unexpected disposition: %q", got)
	}
	if got := rec.Body.String(); got != "a,b\n1,2\n" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestEndpointWritesEnvelopeWithStatus(t *testing.T) {
	router := NewRouter(nil)
	router.POST("/things", func(ctx context.Context, r *http.Request) (any, error) {
		return createdResult{ID: "1"}, nil
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/things", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var env struct {
		Message string        `json:"message"`
		Data    createdResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.ID != "1" || env.Message != "request has been successfully" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestEndpointMapsErrors(t *testing.T) {
	router := NewRouter(nil)
	router.GET("/missing", func(ctx context.Context, r *http.Request) (any, error) {
		return nil, pkgerror.NewNotFound("dataset not found")
	})
	router.GET("/invalid", func(ctx context.Context, r *http.Request) (any, error) {
		return nil, pkgerror.NewInvalidInput(errors.New("columns is required"))
	})
	router.GET("/boom", func(ctx context.Context, r *http.Request) (any, error) {
		return nil, errors.New("boom")
	})

	cases := map[string]struct {
		status int
		body   string
	}{
		"/missing": {status: http.StatusNotFound, body: "dataset not found"},
		"/invalid": {status: http.StatusUnprocessableEntity, body: "columns is required"},
		"/boom":    {status: http.StatusInternalServerError, body: "Internal server error"},
	}

	for path, want := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != want.status {
			t.Fatalf("%s: unexpected status %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), want.body) {
			t.Fatalf("%s: expected body to contain %q, got %s", path, want.body, rec.Body.String())
		}
	}
}

func TestLoggingRejectsOversizedBody(t *testing.T) {
	called := false
	router := NewRouter(nil)
	router.POST("/upload", func(ctx context.Context, r *http.Request) (any, error) {
		called = true
		return nil, nil
	})

	handler := http.MaxBytesHandler(router, 8)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("0123456789abcdef")))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if called {
		t.Fatal("handler must not run for oversized bodies")
	}
}
