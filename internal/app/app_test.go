package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoGogDBD/inventory/internal/config"
	"github.com/RoGogDBD/inventory/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{MaxBodyBytes: 1 << 20, AllowedOrigins: []string{"*"}},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			Issuer:     "inventory-test",
			TokenTTL:   time.Hour,
			BcryptCost: 4,
			LoginRate:  100,
			LoginBurst: 100,
		},
		Inventory: config.InventoryConfig{MaxPageSize: 100},
		Cache:     config.CacheConfig{Driver: config.CacheDriverMemory, MaxItems: 10, TTL: time.Minute},
		Telemetry: config.TelemetryConfig{ServiceName: "inventory-test", MetricsEnabled: true, MetricsPath: "/metrics"},
	}
}

func TestAppInMemory(t *testing.T) {
	a := NewApp(testConfig())
	require.NoError(t, a.Init())
	t.Cleanup(func() { assert.NoError(t, a.Close(context.Background())) })

	_, ok := a.Store.(*repository.MemStorage)
	assert.True(t, ok, "expected in-memory store without DSN")
	_, ok = a.Cache.(*repository.LRUCache)
	assert.True(t, ok, "expected LRU cache for memory driver")

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := `{"username":"manager","email":"manager@inventory.com","password":"manager123"}`
	resp, err = http.Post(srv.URL+"/auth/register", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var env struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/items/stats", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+env.Data.Token)
	statsResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	statsResp.Body.Close()
	assert.Equal(t, http.StatusOK, statsResp.StatusCode)
}

func TestAppCacheDrivers(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		check  func(t *testing.T, c repository.ItemCache)
	}{
		{
			name:   "none",
			driver: config.CacheDriverNone,
			check: func(t *testing.T, c repository.ItemCache) {
				_, ok := c.(repository.NoopCache)
				assert.True(t, ok)
			},
		},
		{
			name:   "redis unavailable falls back to memory",
			driver: config.CacheDriverRedis,
			check: func(t *testing.T, c repository.ItemCache) {
				_, ok := c.(*repository.LRUCache)
				assert.True(t, ok)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Cache.Driver = tt.driver
			cfg.Cache.RedisAddr = "127.0.0.1:1"

			a := NewApp(cfg)
			a.initCache(context.Background())
			tt.check(t, a.Cache)
		})
	}
}
