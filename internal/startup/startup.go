package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"booru-bridge/internal/logging"
	"booru-bridge/internal/workers"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration
type Config struct {
	DatabasePath string
	ThumbnailDir string
	Port         string
	ForcedQuery  string

	ExpensiveJobs int64
	CheapJobs     int64

	SweepInterval time.Duration
	Retention     time.Duration

	LogHealthChecks bool
	MetricsEnabled  bool
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	databasePath := getEnv("DATABASE_PATH", filepath.Join(os.Getenv("HOME"), "awtf.db"))
	thumbnailDir := getEnv("THUMBNAIL_DIR", "/tmp/booru-bridge-thumbnails")
	port := getEnv("PORT", "6666")
	forcedQuery := os.Getenv("FORCED_QUERY")
	expensiveJobs := getEnvInt("EXPENSIVE_JOBS", 3)
	cheapJobs := getEnvInt("CHEAP_JOBS", workers.ForMixed(10))
	sweepIntervalStr := getEnv("SWEEP_INTERVAL", "1h")
	retentionStr := getEnv("RETENTION", "168h")
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)

	logging.Info("  DATABASE_PATH:     %s", databasePath)
	logging.Info("  THUMBNAIL_DIR:     %s", thumbnailDir)
	logging.Info("  PORT:              %s", port)
	logging.Info("  FORCED_QUERY:      %q", forcedQuery)
	logging.Info("  EXPENSIVE_JOBS:    %d", expensiveJobs)
	logging.Info("  CHEAP_JOBS:        %d", cheapJobs)
	logging.Info("  SWEEP_INTERVAL:    %s", sweepIntervalStr)
	logging.Info("  RETENTION:         %s", retentionStr)
	logging.Info("  LOG_HEALTH_CHECKS: %v", logHealthChecks)
	logging.Info("  METRICS_ENABLED:   %v", metricsEnabled)
	logging.Info("  LOG_LEVEL:         %s", logging.GetLevel())

	sweepInterval, err := time.ParseDuration(sweepIntervalStr)
	if err != nil || sweepInterval <= 0 {
		logging.Warn("  Invalid SWEEP_INTERVAL, using default: 1h")
		sweepInterval = time.Hour
	}
	retention, err := time.ParseDuration(retentionStr)
	if err != nil || retention <= 0 {
		logging.Warn("  Invalid RETENTION, using default: 168h")
		retention = 168 * time.Hour
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	databasePath, err = filepath.Abs(databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	if info, err := os.Stat(databasePath); err != nil {
		return nil, fmt.Errorf("index database not readable: %w", err)
	} else if info.IsDir() {
		return nil, fmt.Errorf("index database %s is a directory", databasePath)
	}
	logging.Info("  [OK] Index database: %s", databasePath)

	thumbnailDir, err = filepath.Abs(thumbnailDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve thumbnail directory path: %w", err)
	}
	if err := os.MkdirAll(thumbnailDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create thumbnail directory: %w", err)
	}
	if err := testWriteAccess(thumbnailDir); err != nil {
		return nil, fmt.Errorf("thumbnail directory is not writable: %w", err)
	}
	logging.Info("  [OK] Thumbnail directory is writable: %s", thumbnailDir)

	if expensiveJobs < 1 {
		logging.Warn("  EXPENSIVE_JOBS below 1, using 1")
		expensiveJobs = 1
	}
	if cheapJobs < 1 {
		logging.Warn("  CHEAP_JOBS below 1, using 1")
		cheapJobs = 1
	}

	return &Config{
		DatabasePath:    databasePath,
		ThumbnailDir:    thumbnailDir,
		Port:            port,
		ForcedQuery:     forcedQuery,
		ExpensiveJobs:   int64(expensiveJobs),
		CheapJobs:       int64(cheapJobs),
		SweepInterval:   sweepInterval,
		Retention:       retention,
		LogHealthChecks: logHealthChecks,
		MetricsEnabled:  metricsEnabled,
	}, nil
}

// LogToolAvailability reports which external thumbnailers are usable.
// Missing tools degrade the affected strategies, they do not block
// startup.
func LogToolAvailability() {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("EXTERNAL TOOLS")
	logging.Info("------------------------------------------------------------")

	for tool, purpose := range map[string]string{
		"ffprobe": "video metadata",
		"ffmpeg":  "video thumbnails",
		"convert": "document thumbnails",
	} {
		if err := checkTool(tool); err != nil {
			logging.Warn("  %s unavailable (%s): %v", tool, purpose, err)
		} else {
			logging.Info("  [OK] %s (%s)", tool, purpose)
		}
	}
}

// LogDatabaseInit logs database initialization
func LogDatabaseInit(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DATABASE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Index opened in %v", duration)
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:  %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Gallery API: http://0.0.0.0:%s/api", config.Port)
	logging.Info("    Health:      http://0.0.0.0:%s/health", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:     http://0.0.0.0:%s/metrics", config.Port)
	} else {
		logging.Info("    Metrics:     DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
    ____
   / __ )____  ____  _______  __      / /_  _____(_)___/ /___ ____
  / __  / __ \/ __ \/ ___/ / / /_____/ __ \/ ___/ / __  / __ '/ _ \
 / /_/ / /_/ / /_/ / /  / /_/ /_____/ /_/ / /  / / /_/ / /_/ /  __/
/_____/\____/\____/_/   \__,_/     /_.___/_/  /_/\__,_/\__, /\___/
                                                      /____/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func checkTool(name string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", name)
	}
	logging.Debug("  %s path: %s", name, path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, "-version")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("failed to get %s version: %w", name, err)
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		logging.Debug("  %s version: %s", name, strings.TrimSpace(lines[0]))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
