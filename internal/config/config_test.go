package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithDefaults_Succeeds(t *testing.T) {
	// Ensure envs are clean to use defaults
	for _, k := range []string{"DB_PATH", "GRPC_ADDRESS", "JWT_SECRET", "BLOB_BACKEND", "DB_OP_TIMEOUT", "RECONCILE_GRACE"} {
		os.Unsetenv(k)
	}
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.GRPC.Address == "" || cfg.Database.Path == "" || cfg.Auth.JWTSecret == "" {
		t.Fatalf("unexpected empty defaults: %+v", cfg)
	}
	if cfg.Database.OpTimeout != 3*time.Second || cfg.Blob.Backend != "local" || cfg.Reconcile.Grace != time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	// Clear JWT_SECRET ensures error
	os.Unsetenv("JWT_SECRET")
	// Other vars can be set or default
	t.Setenv("DB_PATH", "test.db")
	t.Setenv("GRPC_ADDRESS", ":1234")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is not set")
	}
	// When set, it should succeed
	t.Setenv("JWT_SECRET", "x")
	if _, err := Load(); err != nil {
		t.Fatalf("Load with secret set: %v", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DB_OP_TIMEOUT", "soon")
	t.Setenv("BLOB_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"DB_OP_TIMEOUT", "S3_BUCKET"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "test.env")
	if err := os.WriteFile(f, []byte("IMPORT_STRICT=true\nRATE_LIMIT_RPS=5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	os.Unsetenv("IMPORT_STRICT")
	os.Unsetenv("RATE_LIMIT_RPS")
	t.Cleanup(func() {
		os.Unsetenv("IMPORT_STRICT")
		os.Unsetenv("RATE_LIMIT_RPS")
	})
	if err := LoadDotEnv(f, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if !cfg.Import.Strict || cfg.GRPC.RateLimitRPS != 5 {
		t.Fatalf("dotenv values not applied: %+v", cfg)
	}
}

func TestString_MasksSecret(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{JWTSecret: "topsecret"}}
	if strings.Contains(cfg.String(), "topsecret") {
		t.Fatal("secret leaked")
	}
}
