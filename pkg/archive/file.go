package archive

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vango-dev/shadowtree/internal/errors"
	"github.com/vango-dev/shadowtree/pkg/inspect"
)

// FileSink stores snapshots on the local filesystem.
type FileSink struct {
	dir    string
	format inspect.Format
}

// NewFileSink creates a FileSink writing under dir, creating it if needed.
// An empty format means JSON.
func NewFileSink(dir string, format inspect.Format) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New(errors.CodeSnapshotWrite).WithOp("archive.NewFileSink").Wrap(err)
	}
	if format == "" {
		format = inspect.FormatJSON
	}
	return &FileSink{dir: dir, format: format}, nil
}

// Path returns the file snap is stored at.
func (s *FileSink) Path(snap *inspect.GenerationSnapshot) string {
	return filepath.Join(s.dir, filepath.FromSlash(Key("", snap, s.format)))
}

// Store writes snap to a temporary file and renames it into place, so
// readers never observe a partial snapshot.
func (s *FileSink) Store(ctx context.Context, snap *inspect.GenerationSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(snap, s.format)
	if err != nil {
		return s.fail(snap, err)
	}

	path := s.Path(snap)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return s.fail(snap, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".gen-*")
	if err != nil {
		return s.fail(snap, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return s.fail(snap, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return s.fail(snap, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return s.fail(snap, err)
	}
	return nil
}

func (s *FileSink) fail(snap *inspect.GenerationSnapshot, err error) error {
	return errors.New(errors.CodeSnapshotWrite).
		WithOp("archive.FileSink").
		WithDetailf("generation %d in %s", snap.Generation, s.dir).
		Wrap(err)
}
