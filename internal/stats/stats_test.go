package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SlpAus/urble-backend/internal/platform/database/dbtest"
	"github.com/SlpAus/urble-backend/internal/user"
	"github.com/gin-gonic/gin"
)

const testUser = "01890a5d-ac96-774b-bcce-b302099a8057"

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := dbtest.Open(t, user.Migrate, Migrate)
	return NewService(db, user.NewService(db, nil, nil))
}

func TestRecordIsIdempotentPerDay(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Record(ctx, testUser, "2024-04-01", "g1", 3, 5)
	if err != nil || !created {
		t.Fatalf("first record: %v %v", created, err)
	}
	created, err = svc.Record(ctx, testUser, "2024-04-01", "g1", 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("second result for the same day should be ignored")
	}

	sum, err := svc.Summary(ctx, testUser, "2024-04-01")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Played != 1 || sum.TotalScore != 3 {
		t.Fatalf("expected first result to stick, got %+v", sum)
	}

	activated, err := user.NewService(svc.db, nil, nil).IsUserActivated(ctx, testUser)
	if err != nil || !activated {
		t.Fatalf("expected user activation on first result, got %v %v", activated, err)
	}
}

func TestSummaryStreaks(t *testing.T) {
	tests := []struct {
		name    string
		dates   []string
		today   string
		current int
		longest int
	}{
		{"none", nil, "2024-04-10", 0, 0},
		{"played today", []string{"2024-04-10", "2024-04-09", "2024-04-08"}, "2024-04-10", 3, 3},
		{"played yesterday", []string{"2024-04-09", "2024-04-08"}, "2024-04-10", 2, 2},
		{"broken", []string{"2024-04-07", "2024-04-06"}, "2024-04-10", 0, 2},
		{"gap", []string{"2024-04-10", "2024-04-08", "2024-04-07", "2024-04-06"}, "2024-04-10", 1, 3},
		{"month boundary", []string{"2024-03-01", "2024-02-29"}, "2024-03-01", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make([]Result, len(tt.dates))
			for i, d := range tt.dates {
				results[i] = Result{GameDate: d, Score: 5, Rounds: 5}
			}
			sum := summarize(results, tt.today)
			if sum.CurrentStreak != tt.current || sum.MaxStreak != tt.longest {
				t.Fatalf("expected %d/%d, got %d/%d", tt.current, tt.longest, sum.CurrentStreak, sum.MaxStreak)
			}
			if sum.Perfect != len(tt.dates) {
				t.Fatalf("expected %d perfect games, got %d", len(tt.dates), sum.Perfect)
			}
		})
	}
}

func TestGetStatsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestService(t)
	ctx := context.Background()
	svc.Record(ctx, testUser, "2024-04-01", "g1", 2, 5)
	svc.Record(ctx, testUser, "2024-04-02", "g2", 5, 5)

	r := gin.New()
	r.Use(user.LoadUserMiddleware())
	r.GET("/api/stats", NewHandler(svc, func() string { return "2024-04-02" }).GetStats)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.AddCookie(&http.Cookie{Name: user.CookieName, Value: testUser})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var sum Summary
	if err := json.Unmarshal(w.Body.Bytes(), &sum); err != nil {
		t.Fatal(err)
	}
	if sum.Played != 2 || sum.Perfect != 1 || sum.TotalScore != 7 || sum.CurrentStreak != 2 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if len(sum.History) != 2 || sum.History[0].Date != "2024-04-02" {
		t.Fatalf("expected newest-first history, got %+v", sum.History)
	}

	// 没有cookie时返回空统计
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous user, got %d", w.Code)
	}
}
