package roster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/racha-hq/racha-manager/internal/domain/participant"
	"github.com/racha-hq/racha-manager/internal/platform/resilience"
)

func TestClientListConfirmed_ParsesMembers(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/tenants/racha-jakarta-kamis/confirmed" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "roster-secret" {
			t.Fatalf("unexpected api key header: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"members":[
			{"id":"mbr-andri","name":"Andri Saputra","nickname":"Andri","position":"GK","monthly_payer":true},
			{"id":"mbr-klok","name":"Marc Klok","nickname":"Klok","position":"MID","monthly_payer":false}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "roster-secret", resilience.CircuitBreakerConfig{Enabled: false})

	members, err := client.ListConfirmed(context.Background(), "racha-jakarta-kamis")
	if err != nil {
		t.Fatalf("list confirmed failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].ID != "mbr-andri" || members[0].Position != participant.PositionGoalkeeper {
		t.Fatalf("unexpected first member: %+v", members[0])
	}
	if !members[0].IsMonthlyPayer || members[1].IsMonthlyPayer {
		t.Fatalf("monthly payer flags not carried over: %+v", members)
	}
}

func TestClientStarRatings_KeysByParticipant(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tenants/racha-jakarta-kamis/star-ratings" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ratings":[
			{"participant_id":"mbr-andri","stars":4},
			{"participant_id":"mbr-klok","stars":5}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "", resilience.CircuitBreakerConfig{Enabled: false})

	ratings, err := client.StarRatings(context.Background(), "racha-jakarta-kamis")
	if err != nil {
		t.Fatalf("star ratings failed: %v", err)
	}
	if ratings["mbr-andri"] != 4 || ratings["mbr-klok"] != 5 {
		t.Fatalf("unexpected ratings: %v", ratings)
	}
}

func TestClientPerformance_ParsesAggregates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tenants/racha-jakarta-kamis/performance" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entries":[
			{"participant_id":"mbr-klok","ranking_points":0.8,"win_rate":0.6,"goals_per_match":0.3,"assists_per_match":0.5}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "", resilience.CircuitBreakerConfig{Enabled: false})

	entries, err := client.Performance(context.Background(), "racha-jakarta-kamis")
	if err != nil {
		t.Fatalf("performance failed: %v", err)
	}
	got, ok := entries["mbr-klok"]
	if !ok {
		t.Fatalf("missing entry for mbr-klok: %v", entries)
	}
	if got.RankingPoints != 0.8 || got.WinRate != 0.6 || got.GoalsPerMatch != 0.3 || got.AssistsPerMatch != 0.5 {
		t.Fatalf("unexpected aggregates: %+v", got)
	}
}

func TestClient_RequiresTenant(t *testing.T) {
	t.Parallel()

	client := NewClient(nil, "http://localhost:0", "", resilience.CircuitBreakerConfig{Enabled: false})

	if _, err := client.ListConfirmed(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank tenant id")
	}
}

func TestClient_BreakerOpensAfterServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "", resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for i := 0; i < 2; i++ {
		if _, err := client.ListConfirmed(context.Background(), "racha-jakarta-kamis"); err == nil {
			t.Fatal("expected error from failing upstream")
		}
	}

	_, err := client.ListConfirmed(context.Background(), "racha-jakarta-kamis")
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected breaker to stop the third call, got %d upstream calls", calls.Load())
	}
}

func TestClient_ClientErrorDoesNotTripBreaker(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "", resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for i := 0; i < 3; i++ {
		_, err := client.ListConfirmed(context.Background(), "racha-jakarta-kamis")
		if err == nil {
			t.Fatal("expected error from 404 upstream")
		}
		if errors.Is(err, resilience.ErrCircuitOpen) {
			t.Fatalf("breaker should stay closed on 4xx, got %v", err)
		}
	}
}
