package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// JournalSchemaVersion defines the current schema version for run files
	JournalSchemaVersion = "1.0.0"
	// JournalFilePermissions defines the permissions for run files
	JournalFilePermissions = 0600
	// JournalDirPermissions defines the permissions for the journal directory
	JournalDirPermissions = 0700
	// LockTimeout defines the maximum time to wait for a lock
	LockTimeout = 30 * time.Second
	// LockRetryInterval defines the interval between lock retry attempts
	LockRetryInterval = 100 * time.Millisecond
)

var errLockBusy = errors.New("lock is held by another process")

// RunJournal stores one record per workflow invocation.
type RunJournal interface {
	Save(ctx context.Context, record *domain.RunRecord) error
	Load(ctx context.Context, runID string) (*domain.RunRecord, error)
	LoadLatest(ctx context.Context) (*domain.RunRecord, error)
	List(ctx context.Context) ([]*domain.RunRecord, error)
}

// journalMetadata contains metadata about the run file
type journalMetadata struct {
	SchemaVersion string    `json:"schema_version"`
	Checksum      string    `json:"checksum"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type journalEntry struct {
	Metadata journalMetadata   `json:"metadata"`
	Record   *domain.RunRecord `json:"record"`
}

// JSONRunJournal implements RunJournal with one JSON file per run, guarded by
// flock so concurrent CLI processes do not interleave writes.
type JSONRunJournal struct {
	fs     afero.Fs
	dir    string
	logger *zap.Logger
	mu     sync.RWMutex
}

// NewJSONRunJournal creates a journal rooted at dir. Lock files live on the
// OS filesystem next to the records, so fs must be backed by it.
func NewJSONRunJournal(fs afero.Fs, dir string, logger *zap.Logger) *JSONRunJournal {
	if dir == "" {
		dir = ".quickactions/runs"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONRunJournal{fs: fs, dir: dir, logger: logger}
}

// Save persists the record atomically under an exclusive lock
func (j *JSONRunJournal) Save(ctx context.Context, record *domain.RunRecord) error {
	if err := j.fs.MkdirAll(j.dir, JournalDirPermissions); err != nil {
		return fmt.Errorf("failed to ensure journal directory: %w", err)
	}
	lock := flock.New(j.lockFilename(record.RunID))
	if err := j.acquire(ctx, lock.TryLock); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer j.unlock(lock)
	recordData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}
	entry := journalEntry{
		Metadata: journalMetadata{
			SchemaVersion: JournalSchemaVersion,
			Checksum:      checksum(recordData),
			CreatedAt:     record.StartedAt,
			UpdatedAt:     time.Now(),
		},
		Record: record,
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}
	filename := j.recordFilename(record.RunID)
	if err := j.writeAtomic(filename, data); err != nil {
		return err
	}
	return j.updateLatest(filename)
}

// Load reads and verifies a run record
func (j *JSONRunJournal) Load(ctx context.Context, runID string) (*domain.RunRecord, error) {
	if _, err := j.fs.Stat(j.recordFilename(runID)); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: run %s", domain.ErrNotFound, runID)
		}
		return nil, fmt.Errorf("failed to stat run file: %w", err)
	}
	lock := flock.New(j.lockFilename(runID))
	if err := j.acquire(ctx, lock.TryRLock); err != nil {
		return nil, fmt.Errorf("failed to acquire shared lock: %w", err)
	}
	defer j.unlock(lock)
	data, err := afero.ReadFile(j.fs, j.recordFilename(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: run %s", domain.ErrNotFound, runID)
		}
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}
	var entry journalEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journal entry: %w", err)
	}
	if entry.Metadata.SchemaVersion != JournalSchemaVersion {
		return nil, fmt.Errorf("incompatible schema version: expected %s, got %s",
			JournalSchemaVersion, entry.Metadata.SchemaVersion)
	}
	recordData, err := json.Marshal(entry.Record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run record for checksum validation: %w", err)
	}
	if entry.Metadata.Checksum != checksum(recordData) {
		return nil, fmt.Errorf("run %s checksum mismatch: data may be corrupted", runID)
	}
	return entry.Record, nil
}

// LoadLatest returns the most recently saved record
func (j *JSONRunJournal) LoadLatest(ctx context.Context) (*domain.RunRecord, error) {
	j.mu.RLock()
	data, err := afero.ReadFile(j.fs, j.latestLink())
	j.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no runs recorded", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read latest link: %w", err)
	}
	runID := extractRunID(string(data))
	if runID == "" {
		return nil, fmt.Errorf("invalid latest link target: %s", string(data))
	}
	return j.Load(ctx, runID)
}

// List returns every readable record, newest first. Corrupted files are skipped.
func (j *JSONRunJournal) List(ctx context.Context) ([]*domain.RunRecord, error) {
	entries, err := afero.ReadDir(j.fs, j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}
	var records []*domain.RunRecord
	for _, e := range entries {
		runID := extractRunID(e.Name())
		if e.IsDir() || runID == "" {
			continue
		}
		rec, err := j.Load(ctx, runID)
		if err != nil {
			j.logger.Warn("skipping unreadable run record", zap.String("run_id", runID), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(a, b int) bool {
		return records[a].StartedAt.After(records[b].StartedAt)
	})
	return records, nil
}

// acquire polls tryLock until it succeeds or LockTimeout elapses
func (j *JSONRunJournal) acquire(ctx context.Context, tryLock func() (bool, error)) error {
	backoff := retry.WithMaxDuration(LockTimeout, retry.NewConstant(LockRetryInterval))
	return retry.Do(ctx, backoff, func(_ context.Context) error {
		locked, err := tryLock()
		if err != nil {
			return err
		}
		if !locked {
			return retry.RetryableError(errLockBusy)
		}
		return nil
	})
}

func (j *JSONRunJournal) unlock(lock *flock.Flock) {
	if err := lock.Unlock(); err != nil {
		j.logger.Warn("failed to unlock journal file", zap.String("path", lock.Path()), zap.Error(err))
	}
}

func (j *JSONRunJournal) writeAtomic(filename string, data []byte) error {
	tempFile := filename + ".tmp"
	if err := afero.WriteFile(j.fs, tempFile, data, JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp run file: %w", err)
	}
	if err := j.fs.Rename(tempFile, filename); err != nil {
		if removeErr := j.fs.Remove(tempFile); removeErr != nil {
			j.logger.Warn("failed to remove temp file", zap.String("path", tempFile), zap.Error(removeErr))
		}
		return fmt.Errorf("failed to rename run file: %w", err)
	}
	return nil
}

func (j *JSONRunJournal) updateLatest(target string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.writeAtomic(j.latestLink(), []byte(target)); err != nil {
		return fmt.Errorf("failed to update latest link: %w", err)
	}
	return nil
}

func (j *JSONRunJournal) recordFilename(runID string) string {
	return filepath.Join(j.dir, fmt.Sprintf("run-%s.json", runID))
}

func (j *JSONRunJournal) lockFilename(runID string) string {
	return filepath.Join(j.dir, fmt.Sprintf(".run-%s.lock", runID))
}

func (j *JSONRunJournal) latestLink() string {
	return filepath.Join(j.dir, "latest.txt")
}

func checksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// extractRunID extracts the run ID from a run-<id>.json file name
func extractRunID(filename string) string {
	base := filepath.Base(filename)
	if !strings.HasPrefix(base, "run-") || !strings.HasSuffix(base, ".json") {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(base, "run-"), ".json")
}
