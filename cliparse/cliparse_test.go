// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("DATABASE_TYPE", "postgres")
	os.Setenv("SESSION_SECRET", "test-secret")
	os.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.ServiceDatabaseURL != "postgres://test" {
		t.Errorf("service URL should default to DATABASE_URL, got %q", cfg.ServiceDatabaseURL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-session-secret", "s1", "-service-d", "file:svc.db"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite default, got %s", cfg.DatabaseType)
	}
	if cfg.ServiceDatabaseURL != "file:svc.db" {
		t.Errorf("expected service URL from flag, got %s", cfg.ServiceDatabaseURL)
	}
}

func TestParseFlags_MissingSecret(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	_, err := ParseFlags([]string{"-d", "file:test.db"})
	if err == nil {
		t.Fatal("expected error without SESSION_SECRET")
	}
}

func TestParseFlags_InvalidDatabaseType(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	_, err := ParseFlags([]string{"-d", "x", "-t", "mysql", "-session-secret", "s"})
	if err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	path := filepath.Join(t.TempDir(), "test.env")
	content := "DATABASE_URL=file:from-env-file.db\nSESSION_SECRET=file-secret\nCOOKIE_SECURE=true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseURL != "file:from-env-file.db" {
		t.Errorf("expected DATABASE_URL from env file, got %q", cfg.DatabaseURL)
	}
	if cfg.SessionSecret != "file-secret" {
		t.Errorf("expected SESSION_SECRET from env file, got %q", cfg.SessionSecret)
	}
	if !cfg.SecureCookies {
		t.Error("expected SecureCookies from env file")
	}
}

func TestParseFlags_EnvFileDoesNotOverride(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()
	os.Setenv("SESSION_SECRET", "from-env")

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("DATABASE_URL=x\nSESSION_SECRET=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SessionSecret != "from-env" {
		t.Errorf("env var should win over env file, got %q", cfg.SessionSecret)
	}
}
