package thumbnail

import (
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"booru-bridge/internal/logging"
	"booru-bridge/internal/metrics"
)

// Sweeper periodically removes artifacts whose last access is older
// than the retention window. Artifacts are re-derivable, so deletion
// only costs a future regeneration.
type Sweeper struct {
	dir       string
	retention time.Duration
	cron      *cron.Cron

	// now is swappable in tests
	now func() time.Time
}

// NewSweeper creates a sweeper over dir.
func NewSweeper(dir string, retention time.Duration) *Sweeper {
	return &Sweeper{
		dir:       dir,
		retention: retention,
		now:       time.Now,
	}
}

// Start sweeps once immediately, then schedules sweeps at the given
// interval. The startup sweep clears artifacts that went stale while
// the process was down. Each run is isolated: a panic or error in one
// iteration is logged and the schedule keeps going.
func (s *Sweeper) Start(interval time.Duration) {
	sweep := func() {
		if err := s.Sweep(); err != nil {
			metrics.SweeperErrors.Inc()
			logging.Error("thumbnail sweep failed: %v", err)
		}
	}
	sweep()

	s.cron = cron.New(cron.WithChain(cron.Recover(cronLogger{})))
	s.cron.Schedule(cron.Every(interval), cron.FuncJob(sweep))
	s.cron.Start()
	logging.Info("Artifact sweeper scheduled every %v (retention %v)", interval, s.retention)
}

// Stop halts the schedule. A sweep already in progress finishes.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep scans the artifact directory once, deleting everything unused
// past the retention window. Concurrent deletion by another actor is
// not an error.
func (s *Sweeper) Sweep() error {
	logging.Info("sweeping thumbnails in %s", s.dir)
	metrics.SweeperRunsTotal.Inc()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			logging.Warn("failed to stat artifact %s: %v", entry.Name(), err)
			continue
		}

		if s.now().Sub(accessTime(info)) <= s.retention {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			logging.Warn("failed to remove artifact %s: %v", path, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		logging.Info("removed %d stale thumbnails", removed)
		metrics.SweeperRemovedTotal.Add(float64(removed))
	}
	metrics.SweeperLastRunTimestamp.SetToCurrentTime()
	return nil
}

// accessTime returns a file's last-access time, falling back to the
// modification time on filesystems that do not report one.
func accessTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Atim.Sec, st.Atim.Nsec)
	}
	return info.ModTime()
}

// cronLogger adapts the cron library's logging interface to ours.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logging.Debug("sweeper: %s %v", msg, keysAndValues)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logging.Error("sweeper: %s: %v %v", msg, err, keysAndValues)
}
