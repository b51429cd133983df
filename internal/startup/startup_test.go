package startup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestIndex(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "awtf.db")
	if err := os.WriteFile(path, []byte("not really sqlite"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_PATH", writeTestIndex(t))
	t.Setenv("THUMBNAIL_DIR", filepath.Join(t.TempDir(), "thumbs"))
	t.Setenv("PORT", "")
	t.Setenv("FORCED_QUERY", "")
	t.Setenv("EXPENSIVE_JOBS", "")
	t.Setenv("CHEAP_JOBS", "")
	t.Setenv("SWEEP_INTERVAL", "")
	t.Setenv("RETENTION", "")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.Port != "6666" {
		t.Errorf("Port = %q, want 6666", config.Port)
	}
	if config.ExpensiveJobs != 3 {
		t.Errorf("ExpensiveJobs = %d, want 3", config.ExpensiveJobs)
	}
	if config.CheapJobs < 1 {
		t.Errorf("CheapJobs = %d, want >= 1", config.CheapJobs)
	}
	if config.SweepInterval != time.Hour {
		t.Errorf("SweepInterval = %v, want 1h", config.SweepInterval)
	}
	if config.Retention != 168*time.Hour {
		t.Errorf("Retention = %v, want 168h", config.Retention)
	}
	if config.ForcedQuery != "" {
		t.Errorf("ForcedQuery = %q, want empty", config.ForcedQuery)
	}

	// The thumbnail directory must exist after a successful load.
	if _, err := os.Stat(config.ThumbnailDir); err != nil {
		t.Errorf("thumbnail directory not created: %v", err)
	}
}

func TestLoadConfigMissingDatabase(t *testing.T) {
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "missing.db"))
	t.Setenv("THUMBNAIL_DIR", filepath.Join(t.TempDir(), "thumbs"))

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error for a missing index database")
	}
}

func TestLoadConfigInvalidDurations(t *testing.T) {
	t.Setenv("DATABASE_PATH", writeTestIndex(t))
	t.Setenv("THUMBNAIL_DIR", filepath.Join(t.TempDir(), "thumbs"))
	t.Setenv("SWEEP_INTERVAL", "not-a-duration")
	t.Setenv("RETENTION", "-5h")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.SweepInterval != time.Hour {
		t.Errorf("SweepInterval = %v, want 1h fallback", config.SweepInterval)
	}
	if config.Retention != 168*time.Hour {
		t.Errorf("Retention = %v, want 168h fallback", config.Retention)
	}
}

func TestLoadConfigJobFloors(t *testing.T) {
	t.Setenv("DATABASE_PATH", writeTestIndex(t))
	t.Setenv("THUMBNAIL_DIR", filepath.Join(t.TempDir(), "thumbs"))
	t.Setenv("EXPENSIVE_JOBS", "0")
	t.Setenv("CHEAP_JOBS", "-2")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.ExpensiveJobs != 1 {
		t.Errorf("ExpensiveJobs = %d, want floor of 1", config.ExpensiveJobs)
	}
	if config.CheapJobs != 1 {
		t.Errorf("CheapJobs = %d, want floor of 1", config.CheapJobs)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "notabool")
	if got := getEnvBool("TEST_BOOL", true); got != true {
		t.Errorf("invalid value should fall back to default, got %v", got)
	}
	t.Setenv("TEST_BOOL", "false")
	if got := getEnvBool("TEST_BOOL", true); got != false {
		t.Errorf("getEnvBool = %v, want false", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "12")
	if got := getEnvInt("TEST_INT", 3); got != 12 {
		t.Errorf("getEnvInt = %d, want 12", got)
	}
	t.Setenv("TEST_INT", "xyz")
	if got := getEnvInt("TEST_INT", 3); got != 3 {
		t.Errorf("invalid value should fall back to default, got %d", got)
	}
}
