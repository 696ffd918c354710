package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

// FileMedium persists the session record as a signed token in a local file.
// Writes go through a temp file plus rename so a concurrent reader never sees
// a partial record.
type FileMedium struct {
	path  string
	codec *Codec
	log   zerolog.Logger
}

func NewFileMedium(path string, codec *Codec, log zerolog.Logger) *FileMedium {
	return &FileMedium{path: path, codec: codec, log: log}
}

// Read returns the stored record, or nil when the file is missing, unreadable,
// or fails signature verification.
func (m *FileMedium) Read(context.Context) (*domain.SessionRecord, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	record, err := m.codec.Decode(string(data))
	if err != nil {
		m.log.Warn().Err(err).Str("path", m.path).Msg("session file failed verification, ignoring")
		return nil, nil
	}
	return record, nil
}

func (m *FileMedium) Write(_ context.Context, record *domain.SessionRecord) error {
	token, err := m.codec.Encode(record)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	if _, err := tmp.WriteString(token); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (m *FileMedium) Delete(context.Context) error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session file: %w", err)
	}
	return nil
}
