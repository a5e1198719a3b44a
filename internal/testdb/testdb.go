// Package testdb opens throwaway sqlite databases carrying the storefront schema.
package testdb

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var schema = []string{
	`CREATE TABLE stores (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  is_open INTEGER NOT NULL DEFAULT 1,
  timezone TEXT NOT NULL DEFAULT 'America/Sao_Paulo',
  opens_at TEXT,
  closes_at TEXT,
  open_days TEXT,
  created_at DATETIME,
  updated_at DATETIME
)`,
	`CREATE TABLE categories (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  name TEXT NOT NULL,
  drink_category_id TEXT,
  display_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
)`,
	`CREATE TABLE product_sizes (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  max_flavors INTEGER NOT NULL DEFAULT 1,
  base_price NUMERIC NOT NULL,
  image_url TEXT,
  display_order INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE TABLE attribute_options (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  flavor_type TEXT,
  is_premium INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  display_order INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE TABLE attribute_prices (
  option_id TEXT NOT NULL,
  size_id TEXT NOT NULL,
  price NUMERIC NOT NULL,
  surcharge NUMERIC NOT NULL DEFAULT 0,
  PRIMARY KEY (option_id, size_id)
)`,
	`CREATE TABLE additionals (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  group_name TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  display_order INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE TABLE products (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  display_order INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE TABLE category_flow_steps (
  store_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  step_type TEXT NOT NULL,
  enabled INTEGER NOT NULL DEFAULT 1,
  next_step_id TEXT,
  updated_at DATETIME,
  PRIMARY KEY (store_id, category_id, step_type)
)`,
	`CREATE TABLE upsell_prompts (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  trigger_category_id TEXT NOT NULL,
  target_category_id TEXT,
  content_type TEXT NOT NULL DEFAULT 'generic',
  title TEXT NOT NULL,
  description TEXT,
  button_text TEXT,
  secondary_button_text TEXT,
  icon_glyph TEXT,
  max_products INTEGER NOT NULL DEFAULT 4,
  display_order INTEGER NOT NULL DEFAULT 0,
  primary_redirect_category_id TEXT,
  secondary_redirect_category_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1
)`,
	`CREATE TABLE cart_lines (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  session_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  product_id TEXT,
  name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
  description TEXT NOT NULL DEFAULT '',
  created_at DATETIME
)`,
}

// Open returns an in-memory sqlite handle with every storefront table created.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	// one connection keeps the in-memory database alive for the whole test
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return conn
}

// MustCreate inserts every row or fails the test.
func MustCreate(t *testing.T, conn *gorm.DB, rows ...any) {
	t.Helper()
	for _, row := range rows {
		if err := conn.Create(row).Error; err != nil {
			t.Fatalf("create %T: %v", row, err)
		}
	}
}
