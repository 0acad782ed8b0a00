package auditjson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"guardian/internal/logger"
	"guardian/pkg/models"
)

// Writer appends audit events to a JSON lines file.
type Writer struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewWriter creates a JSONL writer for audit events.
func NewWriter(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	logger.Infof("Audit JSON writer initialized: %s", path)
	return &Writer{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// WriteEvent appends one audit event.
func (w *Writer) WriteEvent(ev models.AuditEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(ev); err != nil {
		return fmt.Errorf("failed to encode audit event: %w", err)
	}
	return nil
}

// Close closes the output file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
