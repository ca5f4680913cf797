package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// JSONFileWriter persists reports as pretty-printed JSON.
// An empty Path disables writing.
type JSONFileWriter struct {
	Path string
}

// WriteJSON writes v to a temp file in the target directory and renames it
// over Path, so readers never see a half-written report.
func (w JSONFileWriter) WriteJSON(v any) error {
	if w.Path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(w.Path), 0o755); err != nil {
		return err
	}

	tmp := fmt.Sprintf("%s.tmp.%d", w.Path, time.Now().UnixNano())
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, w.Path)
}
