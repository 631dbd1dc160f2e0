package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	v.SetDefault("DISPLAY_HIDE_FUTURE_HOURS", true)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	if err != nil {
		t.Fatalf("fromViper() error = %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.HTTP.Host != "0.0.0.0" || cfg.HTTP.Port != 7090 {
		t.Errorf("HTTP = %s:%d, want 0.0.0.0:7090", cfg.HTTP.Host, cfg.HTTP.Port)
	}
	if cfg.Upstream.URL != DefaultUpstreamURL {
		t.Errorf("Upstream.URL = %q, want default", cfg.Upstream.URL)
	}
	if !cfg.Display.HideFutureHours {
		t.Error("HideFutureHours should default to true")
	}
	if !reflect.DeepEqual(cfg.HTTP.CORSOrigins, []string{"*"}) {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.HTTP.CORSOrigins)
	}
	if cfg.DB.Enabled() {
		t.Error("DB should be disabled without a DSN")
	}
}

func TestFromViperOverrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"APP_ENV":                   "production",
		"HTTP_PORT":                 8080,
		"UPSTREAM_URL":              " http://upstream.local/data ",
		"DISPLAY_HIDE_FUTURE_HOURS": false,
		"DISPLAY_TIMEZONE":          "UTC",
		"CORS_ALLOWED_ORIGINS":      "https://a.example, https://b.example,",
		"DB_DSN":                    "postgres://localhost/monitor",
		"DB_CONN_MAX_LIFETIME":      "5m",
	}))
	if err != nil {
		t.Fatalf("fromViper() error = %v", err)
	}

	if cfg.Upstream.URL != "http://upstream.local/data" {
		t.Errorf("Upstream.URL = %q", cfg.Upstream.URL)
	}
	if cfg.Display.HideFutureHours {
		t.Error("HideFutureHours should be false")
	}
	loc, err := cfg.Display.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("Location() = %v, %v; want UTC", loc, err)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.HTTP.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.HTTP.CORSOrigins, want)
	}
	if !cfg.DB.Enabled() {
		t.Error("DB should be enabled with a DSN")
	}
}

func TestFromViperValidation(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
	}{
		{"RelativeURL", map[string]any{"UPSTREAM_URL": "/data"}, "UPSTREAM_URL"},
		{"BadScheme", map[string]any{"UPSTREAM_URL": "ftp://host/data"}, "UPSTREAM_URL"},
		{"BadPort", map[string]any{"HTTP_PORT": 70000}, "HTTP_PORT"},
		{"BadTimezone", map[string]any{"DISPLAY_TIMEZONE": "Mars/Olympus"}, "DISPLAY_TIMEZONE"},
		{"BadLifetime", map[string]any{"DB_CONN_MAX_LIFETIME": "soon"}, "DB_CONN_MAX_LIFETIME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromViper(newViper(tt.values))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
