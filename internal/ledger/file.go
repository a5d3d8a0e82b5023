package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"lead-qualifier/internal/common/logger"
	"lead-qualifier/internal/models"
)

// FileLedger keeps every record in one indented JSON array. Each append
// rewrites the file through a temp file and rename.
type FileLedger struct {
	mu      sync.Mutex
	path    string
	records []models.ClassificationRecord
	logger  logger.Logger
}

// NewFileLedger loads path if it exists. A missing or unreadable file starts
// an empty ledger.
func NewFileLedger(path string, log logger.Logger) (*FileLedger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	l := &FileLedger{
		path:   path,
		logger: log.WithFields(map[string]interface{}{"component": "file-ledger", "path": path}),
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		l.logger.WithError(err).Warn("could not read ledger file, starting empty", nil)
	case len(data) > 0:
		if err := json.Unmarshal(data, &l.records); err != nil {
			l.logger.WithError(err).Warn("ledger file is corrupt, starting empty", nil)
			l.records = nil
		}
	}
	return l, nil
}

func (l *FileLedger) Append(_ context.Context, record models.ClassificationRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.records {
		if r.ID == record.ID {
			return ErrDuplicateRecord
		}
	}

	next := append(append([]models.ClassificationRecord(nil), l.records...), record)
	if err := l.write(next); err != nil {
		return err
	}
	l.records = next
	return nil
}

func (l *FileLedger) Recent(_ context.Context, n int) ([]models.ClassificationRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return newestFirst(l.records, n), nil
}

func (l *FileLedger) write(records []models.ClassificationRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), filepath.Base(l.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp ledger file: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}
