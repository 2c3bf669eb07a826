package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMiddleware_RecordsRequests(t *testing.T) {
	collector := NewCollector()

	r := chi.NewRouter()
	r.Use(Middleware(collector, nil))
	r.Get("/v1/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/v1/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	for _, path := range []string{"/v1/things/a", "/v1/things/b", "/v1/broken"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
	}

	api := collector.GetAPIMetrics()
	if got := api.RequestCounts["GET /v1/things/{id}"]; got != 2 {
		t.Errorf("request count for route = %d, want 2", got)
	}
	if got := api.ErrorCounts["GET /v1/things/{id}"]; got != 0 {
		t.Errorf("error count for healthy route = %d, want 0", got)
	}
	if got := api.ErrorCounts["GET /v1/broken"]; got != 1 {
		t.Errorf("error count for broken route = %d, want 1", got)
	}
	if api.TotalDurationSeconds["GET /v1/things/{id}"] < 0 {
		t.Error("duration should be non-negative")
	}
}

func TestCollector_CacheMetricsWithoutCache(t *testing.T) {
	collector := NewCollector()
	m := collector.GetCacheMetrics()
	if m.Hits != 0 || m.Misses != 0 || m.HitRate != 0 {
		t.Errorf("empty collector reported %+v, want zeros", m)
	}
}
