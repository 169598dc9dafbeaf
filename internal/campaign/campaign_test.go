package campaign

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCampaignActiveWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)

	boxed := Campaign{Slug: "boxed", StartsAt: &start, EndsAt: &end}
	if !boxed.Active(now) {
		t.Fatal("campaign inside its window should be active")
	}
	if boxed.Active(now.Add(2 * time.Hour)) {
		t.Fatal("campaign past its end should be inactive")
	}
	if boxed.Active(now.Add(-2 * time.Hour)) {
		t.Fatal("campaign before its start should be inactive")
	}

	open := Campaign{Slug: "open"}
	if !open.Active(now) {
		t.Fatal("campaign without a window should always be active")
	}
}

func TestCampaignRemaining(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := now.Add(90 * time.Minute)

	boxed := Campaign{Slug: "boxed", EndsAt: &end}
	if got := boxed.Remaining(now); got != 90*time.Minute {
		t.Fatalf("expected 90m remaining, got %s", got)
	}
	if got := boxed.Remaining(now.Add(2 * time.Hour)); got != 0 {
		t.Fatalf("expected 0 remaining after end, got %s", got)
	}

	open := Campaign{Slug: "open"}
	if got := open.Remaining(now); got != 0 {
		t.Fatalf("open-ended campaign should report 0, got %s", got)
	}
}

func TestBoardListFiltersExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	board := &Board{
		Now: func() time.Time { return now },
		Campaigns: []Campaign{
			{Slug: "live", Title: "Live", EndsAt: &future},
			{Slug: "done", Title: "Done", EndsAt: &past},
		},
	}

	rr := httptest.NewRecorder()
	board.List(rr, httptest.NewRequest(http.MethodGet, "/campaigns", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string][]map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body["data"]) != 1 {
		t.Fatalf("expected 1 active campaign, got %d", len(body["data"]))
	}
	if body["data"][0]["slug"] != "live" {
		t.Fatalf("unexpected campaign %v", body["data"][0]["slug"])
	}
	if body["data"][0]["remaining_seconds"].(float64) != 3600 {
		t.Fatalf("expected 3600 remaining seconds, got %v", body["data"][0]["remaining_seconds"])
	}
}

func TestDefaultBoardAlwaysOn(t *testing.T) {
	board := DefaultBoard()
	if len(board.Active()) != 3 {
		t.Fatalf("expected 3 active campaigns, got %d", len(board.Active()))
	}
}
