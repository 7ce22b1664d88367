// Command cachecheck exercises the cached read endpoints of a running server
// and confirms the expected Redis keys were written.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"playarena/internal/shared/config"
	"playarena/internal/shared/constants"
	"playarena/pkg/cache"
)

type CheckResult struct {
	Endpoint  string        `json:"endpoint"`
	ColdTime  time.Duration `json:"cold_time"`
	WarmTime  time.Duration `json:"warm_time"`
	CacheKey  string        `json:"cache_key"`
	KeyExists bool          `json:"key_exists"`
	Error     string        `json:"error,omitempty"`
}

type suite struct {
	baseURL string
	http    *http.Client
	redis   *redis.Client
	results []CheckResult
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	rdb, err := cache.NewClient(ctx, cache.Config{Address: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}
	defer rdb.Close()
	fmt.Println("✅ Redis connection: OK")

	s := &suite{
		baseURL: fmt.Sprintf("http://localhost:%s%s", cfg.Port, cfg.GetAPIBasePath()),
		http:    &http.Client{Timeout: 30 * time.Second},
		redis:   rdb,
	}

	s.check(ctx, "/categories", constants.CACHE_KEY_CATEGORIES_ACTIVE)
	s.checkPattern(ctx, "/events?page=1&limit=10", constants.PATTERN_INVALIDATE_EVENT_LIST)

	if eventID, err := s.firstEventID(); err != nil {
		fmt.Printf("⚠️  Skipping event detail checks: %v\n", err)
	} else {
		s.check(ctx, "/events/"+eventID, constants.BuildEventDetailKey(eventID))
		s.check(ctx, "/events/"+eventID+"/charts", constants.BuildEventChartsKey(eventID))
	}

	s.report()
}

func (s *suite) get(endpoint string) ([]byte, time.Duration, error) {
	start := time.Now()
	resp, err := s.http.Get(s.baseURL + endpoint)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return nil, elapsed, err
	}
	if resp.StatusCode >= 400 {
		return body, elapsed, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return body, elapsed, nil
}

// warm requests the endpoint twice, the second read should be served from Redis
func (s *suite) warm(endpoint string) CheckResult {
	result := CheckResult{Endpoint: endpoint}
	_, cold, err := s.get(endpoint)
	result.ColdTime = cold
	if err != nil {
		result.Error = err.Error()
		return result
	}
	_, warm, err := s.get(endpoint)
	if err != nil {
		result.Error = err.Error()
	}
	result.WarmTime = warm
	return result
}

func (s *suite) check(ctx context.Context, endpoint, key string) {
	result := s.warm(endpoint)
	result.CacheKey = key
	n, err := s.redis.Exists(ctx, key).Result()
	if err != nil && result.Error == "" {
		result.Error = err.Error()
	}
	result.KeyExists = n > 0
	s.record(result)
}

func (s *suite) checkPattern(ctx context.Context, endpoint, pattern string) {
	result := s.warm(endpoint)
	result.CacheKey = pattern
	keys, _, err := s.redis.Scan(ctx, 0, pattern, 100).Result()
	if err != nil && result.Error == "" {
		result.Error = err.Error()
	}
	result.KeyExists = len(keys) > 0
	s.record(result)
}

func (s *suite) record(r CheckResult) {
	icon := "✅"
	if r.Error != "" || !r.KeyExists {
		icon = "❌"
	}
	fmt.Printf("%s %-40s cold=%v warm=%v key=%s\n", icon, r.Endpoint, r.ColdTime, r.WarmTime, r.CacheKey)
	s.results = append(s.results, r)
}

func (s *suite) firstEventID() (string, error) {
	body, _, err := s.get("/events?page=1&limit=1")
	if err != nil {
		return "", err
	}
	var envelope struct {
		Data struct {
			Events []struct {
				ID string `json:"id"`
			} `json:"events"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("failed to decode event list: %w", err)
	}
	if len(envelope.Data.Events) == 0 {
		return "", fmt.Errorf("no published events, run cmd/seed first")
	}
	return envelope.Data.Events[0].ID, nil
}

func (s *suite) report() {
	failed := 0
	for _, r := range s.results {
		if r.Error != "" || !r.KeyExists {
			failed++
		}
	}
	fmt.Printf("\n📊 %d checks, %d failed\n", len(s.results), failed)

	reportData, err := json.MarshalIndent(s.results, "", "  ")
	if err == nil {
		if err := os.WriteFile("cache_check_results.json", reportData, 0o644); err == nil {
			fmt.Println("💾 Detailed results saved to cache_check_results.json")
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}
