package repository

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/riteshkumar/bank-ledger/internal/errors"
	"github.com/riteshkumar/bank-ledger/internal/models"
)

const DefaultAuditMaxBytes int64 = 5 * 1024 * 1024

type AuditRepository interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
}

// EntryRenderer turns an entry into its single log line.
type EntryRenderer interface {
	Render(entry *models.AuditEntry) string
}

// FileAuditRepository appends rendered entries to one owner-only file for the
// life of the process. Every append is flushed to disk before returning.
type FileAuditRepository struct {
	mu        sync.Mutex
	file      *os.File
	path      string
	renderer  EntryRenderer
	size      int64
	maxBytes  int64
	suspended bool
	logger    *slog.Logger
	now       func() time.Time
}

// OpenFileAuditRepository opens path for appending, creating it with 0600 and
// its directory with 0700 when missing. maxBytes <= 0 disables the size guard.
func OpenFileAuditRepository(path string, maxBytes int64, renderer EntryRenderer, logger *slog.Logger) (*FileAuditRepository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve audit log path: %w", err)
	}

	dir := filepath.Dir(absPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create audit log directory: %w", err)
		}
		if err := os.Chmod(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to restrict audit log directory: %w", err)
		}
	}

	_, statErr := os.Stat(absPath)
	created := os.IsNotExist(statErr)

	file, err := os.OpenFile(absPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	if created {
		// Pin the mode regardless of the process umask.
		if err := file.Chmod(0o600); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to restrict audit log: %w", err)
		}
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat audit log: %w", err)
	}

	return &FileAuditRepository{
		file:     file,
		path:     absPath,
		renderer: renderer,
		size:     info.Size(),
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
	}, nil
}

func (r *FileAuditRepository) Path() string {
	return r.path
}

// Append renders entry and writes it as one line. Once the size guard trips,
// further appends are refused with ErrLogSizeExceeded; nothing is truncated.
func (r *FileAuditRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return fmt.Errorf("%w: audit log is closed", errors.ErrLogWriteFailure)
	}
	if r.suspended {
		return errors.ErrLogSizeExceeded
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now()
	}

	line := r.renderer.Render(entry) + "\n"
	if r.maxBytes > 0 && r.size+int64(len(line)) > r.maxBytes {
		r.suspended = true
		r.logger.WarnContext(ctx, "audit log size limit reached, suspending further entries",
			"path", r.path,
			"max_bytes", r.maxBytes,
		)
		return errors.ErrLogSizeExceeded
	}

	n, err := r.file.WriteString(line)
	r.size += int64(n)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrLogWriteFailure, err)
	}
	if err := r.file.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %v", errors.ErrLogWriteFailure, err)
	}

	return nil
}

func (r *FileAuditRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	if err != nil {
		return fmt.Errorf("failed to close audit log: %w", err)
	}
	return nil
}
