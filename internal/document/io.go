package document

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/weftline/weft/internal/engine"
)

// Read loads the document at path in full. The engine requires the
// whole content before a pass begins; a partial read is a failed read.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, engine.NewInputMissingError(path, err)
	}
	return FromBytes(data), nil
}

// Commit atomically replaces the file at path with the document's
// content: write to a temporary file in the same directory, flush,
// fsync, close, then rename over the original. On any failure the
// temporary is removed and the original file is untouched.
//
// The temporary inherits the original file's mode when the original
// exists; otherwise the platform default applies.
func Commit(path string, doc *Document) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".weft-*")
	if err != nil {
		return engine.NewWriteFailureError(path, err)
	}
	tmpPath := tmp.Name()

	if info, statErr := os.Stat(path); statErr == nil {
		_ = os.Chmod(tmpPath, info.Mode().Perm())
	}

	bw := bufio.NewWriter(tmp)
	if _, err := bw.Write(doc.Content()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return engine.NewWriteFailureError(path, err)
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return engine.NewWriteFailureError(path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return engine.NewWriteFailureError(path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return engine.NewWriteFailureError(path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return engine.NewCommitFailureError(path, err)
	}

	// Best effort: sync the directory so the rename survives a crash.
	syncDir(dir)
	return nil
}

func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
