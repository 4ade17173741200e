package definition

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const sampleBody = `{"list":[
	{"defid":1,"word":"rizz","definition":"[Charisma] with\nstyle","thumbs_up":10,"thumbs_down":2},
	{"defid":2,"word":"rizz","definition":"  ","thumbs_up":99,"thumbs_down":0},
	{"defid":3,"word":"rizz","definition":"Flirting skill","thumbs_up":4,"thumbs_down":1}
]}`

type stubFetcher struct {
	body  []byte
	err   error
	calls atomic.Int32
	terms []string
}

func (s *stubFetcher) Fetch(_ context.Context, term string) ([]byte, error) {
	s.calls.Add(1)
	s.terms = append(s.terms, term)
	return s.body, s.err
}

func TestClientFetch(t *testing.T) {
	var gotTerm string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/define" {
			http.NotFound(w, r)
			return
		}
		gotTerm = r.URL.Query().Get("term")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second, nil)
	body, err := client.Fetch(context.Background(), "no cap")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotTerm != "no cap" {
		t.Fatalf("expected term %q, got %q", "no cap", gotTerm)
	}
	if string(body) != sampleBody {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestClientFetchNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, time.Second, nil).Fetch(context.Background(), "rizz"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestClientFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, 20*time.Millisecond, nil).Fetch(context.Background(), "rizz"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestServiceDefineCachesByLowercasedTerm(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(sampleBody)}
	svc := NewService(fetcher, nil, time.Minute)
	ctx := context.Background()

	defs := svc.Define(ctx, "Rizz")
	if len(defs) != 2 {
		t.Fatalf("expected 2 non-empty definitions, got %d", len(defs))
	}
	_ = svc.Define(ctx, " rizz ")
	if n := fetcher.calls.Load(); n != 1 {
		t.Fatalf("expected a single upstream call, got %d", n)
	}
	if fetcher.terms[0] != "rizz" {
		t.Fatalf("expected lowercased term, got %q", fetcher.terms[0])
	}
}

func TestServiceDefineDegradesToEmpty(t *testing.T) {
	ctx := context.Background()

	failing := NewService(&stubFetcher{err: errors.New("boom")}, nil, time.Minute)
	if defs := failing.Define(ctx, "rizz"); len(defs) != 0 {
		t.Fatalf("expected no definitions, got %v", defs)
	}

	malformed := &stubFetcher{body: []byte("<html>")}
	svc := NewService(malformed, nil, time.Minute)
	if defs := svc.Define(ctx, "rizz"); len(defs) != 0 {
		t.Fatalf("expected no definitions, got %v", defs)
	}
	_ = svc.Define(ctx, "rizz")
	if n := malformed.calls.Load(); n != 2 {
		t.Fatalf("malformed responses must not be cached, got %d calls", n)
	}

	if defs := failing.Define(ctx, "   "); defs != nil {
		t.Fatalf("expected nil for empty term, got %v", defs)
	}
}

func TestDefinitionHelpers(t *testing.T) {
	d := Definition{Definition: "[Charisma] with\nstyle", ThumbsUp: 10, ThumbsDown: 2}
	if got := d.Clean(); got != "Charisma with style" {
		t.Fatalf("unexpected clean text %q", got)
	}
	if d.Helpfulness() != 8 {
		t.Fatalf("expected helpfulness 8, got %d", d.Helpfulness())
	}
}

func TestMemoryCacheExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	cache.Set(ctx, "rizz", []byte("x"), 10*time.Minute)
	if _, ok := cache.Get(ctx, "rizz"); !ok {
		t.Fatal("expected cache hit")
	}
	now = now.Add(10 * time.Minute)
	if _, ok := cache.Get(ctx, "rizz"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cache := NewRedisCache(rdb)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "rizz"); ok {
		t.Fatal("expected miss")
	}
	cache.Set(ctx, "rizz", []byte(sampleBody), 10*time.Minute)
	value, ok := cache.Get(ctx, "rizz")
	if !ok || string(value) != sampleBody {
		t.Fatalf("expected hit with stored body, got %v %q", ok, value)
	}
	if ttl := mr.TTL(redisKeyPrefix + "rizz"); ttl != 10*time.Minute {
		t.Fatalf("expected ttl 10m, got %v", ttl)
	}

	mr.FastForward(11 * time.Minute)
	if _, ok := cache.Get(ctx, "rizz"); ok {
		t.Fatal("expected redis entry to expire")
	}
}

func TestTieredCacheFallsBackWhenUnhealthy(t *testing.T) {
	primary := NewMemoryCache()
	secondary := NewMemoryCache()
	healthy := true
	cache, err := NewTieredCache(primary, secondary, func() bool { return healthy })
	if err != nil {
		t.Fatalf("NewTieredCache: %v", err)
	}
	ctx := context.Background()

	cache.Set(ctx, "a", []byte("1"), time.Minute)
	if _, ok := primary.Get(ctx, "a"); !ok {
		t.Fatal("expected write to primary while healthy")
	}

	healthy = false
	cache.Set(ctx, "b", []byte("2"), time.Minute)
	if _, ok := secondary.Get(ctx, "b"); !ok {
		t.Fatal("expected write to secondary while unhealthy")
	}
	if _, ok := cache.Get(ctx, "a"); ok {
		t.Fatal("primary must not be consulted while unhealthy")
	}

	if _, err := NewTieredCache(primary, nil, nil); err == nil {
		t.Fatal("expected error without secondary cache")
	}
}

func TestHandlerDefine(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		fetcher  *stubFetcher
		query    string
		wantCode int
		wantBody string
	}{
		{"passthrough", &stubFetcher{body: []byte(sampleBody)}, "?term=rizz", http.StatusOK, sampleBody},
		{"missing term", &stubFetcher{body: []byte(sampleBody)}, "", http.StatusBadRequest, ""},
		{"blank term", &stubFetcher{body: []byte(sampleBody)}, "?term=%20", http.StatusBadRequest, ""},
		{"upstream down", &stubFetcher{err: errors.New("down")}, "?term=rizz", http.StatusOK, `{"list":[]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/api/word/define", NewHandler(NewService(tc.fetcher, nil, time.Minute)).Define)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/word/define"+tc.query, nil)
			router.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d (%s)", tc.wantCode, w.Code, w.Body.String())
			}
			if tc.wantBody != "" && w.Body.String() != tc.wantBody {
				t.Fatalf("unexpected body %s", w.Body.String())
			}
		})
	}
}
