package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// Проверка на живом Redis: запускается только при заданном REDIS_ADDR
// (то же соглашение, что и у интеграционных тестов репозитория).
func TestRedisRateLimitBlocksOverLimit(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}

	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	InitRedisRateLimiter(addr, os.Getenv("REDIS_PASSWORD"), db)

	gin.SetMode(gin.TestMode)
	r := gin.New()

	const limit = 3
	r.GET("/ping", RedisRateLimit(limit, 2*time.Second), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	for i := 1; i <= limit; i++ {
		res, err := http.Get(srv.URL + "/ping")
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("request %d inside the window should pass, got %d", i, res.StatusCode)
		}
	}

	res, err := http.Get(srv.URL + "/ping")
	if err != nil {
		t.Fatalf("over-limit request: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("request %d should be limited, got %d", limit+1, res.StatusCode)
	}
}
