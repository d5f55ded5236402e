package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/k1networth/civicdesk/internal/api"
	"github.com/k1networth/civicdesk/internal/request"
)

func TestListSendsQueryParam(t *testing.T) {
	var gotQuery []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/requests" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotQuery = append(gotQuery, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1","name":"A","email":"a@x.com","phone":"","service_type":"S","status":"pending"}]`))
	}))
	t.Cleanup(srv.Close)

	c := api.NewClient(srv.URL + "/api")

	items, err := c.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != "1" {
		t.Fatalf("unexpected items %+v", items)
	}

	if _, err := c.List(context.Background(), "birth cert"); err != nil {
		t.Fatalf("list with term: %v", err)
	}

	if gotQuery[0] != "" {
		t.Fatalf("expected q omitted for empty term, got %q", gotQuery[0])
	}
	if gotQuery[1] != "q=birth+cert" && gotQuery[1] != "q=birth%20cert" {
		t.Fatalf("expected encoded q param, got %q", gotQuery[1])
	}
}

func TestCreateStripsIDAndDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/requests" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if _, ok := body["id"]; ok {
			t.Fatalf("expected no id in create body, got %v", body["id"])
		}
		if body["service_type"] != "Birth Certificate" {
			t.Fatalf("expected underscore field names, got %v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"srv-9","name":"A Kumar","email":"a@x.com","phone":"9876543210","service_type":"Birth Certificate","status":"pending"}`))
	}))
	t.Cleanup(srv.Close)

	c := api.NewClient(srv.URL + "/api")

	draft := request.ServiceRequest{
		ID: "client-should-strip-this", Name: "A Kumar", Email: "a@x.com",
		Phone: "9876543210", ServiceType: "Birth Certificate", Status: request.StatusPending,
	}
	created, err := c.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "srv-9" {
		t.Fatalf("expected server-assigned id, got %q", created.ID)
	}
}

func TestUpdateHitsItemRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/requests/id-3" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"id-3","name":"A","email":"a@x.com","phone":"","service_type":"S","status":"resolved"}`))
	}))
	t.Cleanup(srv.Close)

	c := api.NewClient(srv.URL + "/api")

	updated, err := c.Update(context.Background(), "id-3", request.ServiceRequest{
		Name: "A", Email: "a@x.com", ServiceType: "S", Status: request.StatusResolved,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != request.StatusResolved {
		t.Fatalf("expected resolved status echoed, got %q", updated.Status)
	}
}

func TestDeleteTreats404AsSuccess(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/requests/id-5" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c := api.NewClient(srv.URL + "/api")

	if err := c.Delete(context.Background(), "id-5"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	// Second delete of the same id: already absent, not an error.
	if err := c.Delete(context.Background(), "id-5"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected two round trips, got %d", calls)
	}
}

func TestServerErrorSurfacesAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := api.NewClient(srv.URL+"/api", api.WithMetrics(api.NewMetrics(prometheus.NewRegistry())))

	if _, err := c.List(context.Background(), ""); err == nil {
		t.Fatalf("expected list error on 500")
	}
	if _, err := c.Create(context.Background(), request.ServiceRequest{Name: "A"}); err == nil {
		t.Fatalf("expected create error on 500")
	}
	if err := c.Delete(context.Background(), "x"); err == nil {
		t.Fatalf("expected delete error on 500")
	}
}

func TestTransportErrorSurfacesAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := api.NewClient(srv.URL + "/api")

	if _, err := c.List(context.Background(), ""); err == nil {
		t.Fatalf("expected error against a closed server")
	}
}
