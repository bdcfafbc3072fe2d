package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("MAX_IMPORT_ROWS", "")
	t.Setenv("SEED_DEMO_DATA", "")
	t.Setenv("IMPORT_RATE_LIMIT", "")

	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, DefaultMaxImportRows, cfg.MaxImportRows)
	assert.True(t, cfg.SeedDemoData, "demo data is seeded by default in development")
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, DefaultImportRateLimit, cfg.ImportRateLimit)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("MAX_IMPORT_ROWS", "250")
	t.Setenv("SEED_DEMO_DATA", "off")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("IMPORT_RATE_LIMIT", "-1")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 250, cfg.MaxImportRows)
	assert.False(t, cfg.SeedDemoData)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 0, cfg.ImportRateLimit)
}

func TestLoad_InvalidMaxImportRows(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "not a number", value: "lots"},
		{name: "zero", value: "0"},
		{name: "negative", value: "-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MAX_IMPORT_ROWS", tt.value)
			cfg := Load()
			assert.Equal(t, DefaultMaxImportRows, cfg.MaxImportRows)
		})
	}
}
