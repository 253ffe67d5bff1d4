package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// Delivery places an encoded payload where the user can reach it.
type Delivery interface {
	Deliver(payload Payload) (string, error)
}

// FileDelivery writes payloads into a directory on disk.
type FileDelivery struct {
	Dir string
}

// NewFileDelivery creates a delivery targeting the given directory.
func NewFileDelivery(dir string) *FileDelivery {
	return &FileDelivery{Dir: dir}
}

// Deliver writes the payload and returns the final path. The write
// goes through a temp file and rename so a crash never leaves a
// half-written export behind.
func (d *FileDelivery) Deliver(payload Payload) (string, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(d.Dir, payload.Filename+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	if _, err = tmp.Write(payload.Data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	path := filepath.Join(d.Dir, payload.Filename)
	if err = os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to finalize export file: %w", err)
	}
	return path, nil
}
