package routing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/km-arc/go-container/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Get(t *testing.T) {
	r := routing.New()
	r.Get("/hello", okHandler)

	if rr := do(t, r, http.MethodGet, "/hello"); rr.Code != http.StatusOK {
		t.Errorf("GET /hello: got %d want 200", rr.Code)
	}
}

func TestRouter_Post(t *testing.T) {
	r := routing.New()
	r.Post("/users", okHandler)

	if rr := do(t, r, http.MethodPost, "/users"); rr.Code != http.StatusOK {
		t.Errorf("POST /users: got %d want 200", rr.Code)
	}
}

func TestRouter_MethodMismatch(t *testing.T) {
	r := routing.New()
	r.Get("/hello", okHandler)

	if rr := do(t, r, http.MethodPost, "/hello"); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /hello: got %d want 405", rr.Code)
	}
}

// ── Params ────────────────────────────────────────────────────────────────────

func TestRouter_Param(t *testing.T) {
	r := routing.New()
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(routing.Param(req, "id")))
	})

	rr := do(t, r, http.MethodGet, "/users/42")
	if rr.Body.String() != "42" {
		t.Errorf("param: got %q want '42'", rr.Body.String())
	}
}

// ── Groups & Prefixes ─────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := routing.New()
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/ping", okHandler)
	})

	if rr := do(t, r, http.MethodGet, "/api/v1/ping"); rr.Code != http.StatusOK {
		t.Errorf("GET /api/v1/ping: got %d want 200", rr.Code)
	}
	if rr := do(t, r, http.MethodGet, "/ping"); rr.Code != http.StatusNotFound {
		t.Errorf("GET /ping: got %d want 404", rr.Code)
	}
}

func TestRouter_GroupMiddleware(t *testing.T) {
	r := routing.New()
	r.Group(func(g *routing.Router) {
		g.Middleware(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if req.Header.Get("Authorization") == "" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, req)
			})
		})
		g.Get("/private", okHandler)
	})
	r.Get("/public", okHandler)

	if rr := do(t, r, http.MethodGet, "/private"); rr.Code != http.StatusUnauthorized {
		t.Errorf("GET /private without auth: got %d want 401", rr.Code)
	}
	if rr := do(t, r, http.MethodGet, "/public"); rr.Code != http.StatusOK {
		t.Errorf("GET /public: got %d want 200", rr.Code)
	}
}
