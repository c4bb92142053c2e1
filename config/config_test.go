package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":8080"
database:
  driver: sqlite
  database: shop.db
redis:
  addr: localhost:6379
jwt:
  secret: s3cret
  ttl: 2h
catalog:
  seed:
    - name: Widget
      price: "9.99"
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.Server.Addr != ":8080" {
		t.Errorf("Expected addr :8080, got %s", config.Server.Addr)
	}
	if config.Database.Driver != "sqlite" || config.Database.Database != "shop.db" {
		t.Errorf("Expected sqlite shop.db, got %+v", config.Database)
	}
	if config.JWT.TTL != 2*time.Hour {
		t.Errorf("Expected ttl 2h, got %s", config.JWT.TTL)
	}
	if config.Redis.CacheTTL != 5*time.Minute {
		t.Errorf("Expected default cache ttl 5m, got %s", config.Redis.CacheTTL)
	}
	if config.Rabbit.Exchange != "ecommerce.events" {
		t.Errorf("Expected default exchange, got %s", config.Rabbit.Exchange)
	}

	items, err := config.Catalog.Items()
	if err != nil {
		t.Fatalf("Failed to parse catalog: %v", err)
	}
	if len(items) != 1 || !items[0].Price.Equal(decimal.RequireFromString("9.99")) {
		t.Errorf("Expected one 9.99 widget, got %+v", items)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Expected missing file to fall back to defaults, got %v", err)
	}
	if config.Server.Addr != ":3000" || config.Database.Driver != "mysql" || config.JWT.TTL != 24*time.Hour {
		t.Errorf("Unexpected defaults: %+v", config)
	}

	items, err := config.Catalog.Items()
	if err != nil {
		t.Fatalf("Failed to parse default catalog: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Round Widget" || items[1].Name != "Square Widget" {
		t.Errorf("Expected the two default widgets, got %+v", items)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: mysql\n")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("JWT_SECRET", "from-env")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.Database.Driver != MemoryDriver {
		t.Errorf("Expected driver memory, got %s", config.Database.Driver)
	}
	if config.Redis.Addr != "cache:6379" || config.Redis.Database != 2 {
		t.Errorf("Expected redis override, got %+v", config.Redis)
	}
	if config.JWT.Secret != "from-env" {
		t.Errorf("Expected secret from env, got %s", config.JWT.Secret)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected an error for invalid YAML")
	}
}

func TestCatalogInvalidPrice(t *testing.T) {
	catalog := CatalogConfig{Seed: []SeedItem{{Name: "Broken", Price: "abc"}}}
	if _, err := catalog.Items(); err == nil {
		t.Error("Expected an error for an invalid price")
	}
}

func TestSetupDatabaseSQLite(t *testing.T) {
	db, err := SetupDatabase(DatabaseConfig{
		Driver:   "sqlite",
		DSN:      "file:config_test?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	for _, table := range []string{"users", "items", "carts", "cart_lines", "user_orders", "order_lines", "login_tokens"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Expected table %s to exist", table)
		}
	}
}

func TestSetupDatabaseUnknownDriver(t *testing.T) {
	if _, err := SetupDatabase(DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Error("Expected an error for an unsupported driver")
	}
}

func TestSetupTokenManager(t *testing.T) {
	manager, err := SetupTokenManager(JWTConfig{Secret: "s3cret", TTL: time.Hour})
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	token, _, _, err := manager.GenerateToken(1, "alice")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if _, err := manager.VerifyToken(token); err != nil {
		t.Errorf("Expected token to verify, got %v", err)
	}

	if _, err := SetupTokenManager(JWTConfig{}); err == nil {
		t.Error("Expected an error without keys or secret")
	}
}

func TestSetupOptionalServices(t *testing.T) {
	rdb, err := SetupRedisConnection(RedisConfig{})
	if err != nil || rdb != nil {
		t.Errorf("Expected no redis client without an address, got %v (%v)", rdb, err)
	}
	publisher, closePublisher, err := SetupPublisher(RabbitConfig{})
	if err != nil || publisher == nil {
		t.Fatalf("Expected a no-op publisher, got %v (%v)", publisher, err)
	}
	closePublisher()
}

func TestSetupRedisConnection(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	rdb, err := SetupRedisConnection(RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("Failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	mr.Close()
	if _, err := SetupRedisConnection(RedisConfig{Addr: addr}); err == nil {
		t.Error("Expected an error when redis is unreachable")
	}
}
