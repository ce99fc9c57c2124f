package document

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CommitResult reports what CommitIfChanged did.
type CommitResult int

const (
	// Unchanged means the content equalled the snapshot and nothing was written.
	Unchanged CommitResult = iota

	// Written means the new content replaced the file.
	Written
)

func (r CommitResult) String() string {
	switch r {
	case Unchanged:
		return "unchanged"
	case Written:
		return "written"
	default:
		return fmt.Sprintf("CommitResult(%d)", int(r))
	}
}

// WriteFunc persists data at path. Implementations must either fully
// replace the file or leave it untouched.
type WriteFunc func(path string, data []byte, perm fs.FileMode) error

// Store performs the conditional commit of an artifact.
type Store struct {
	write WriteFunc
}

// Option configures a Store.
type Option func(*Store)

// WithWriter overrides the file writer. Tests use it to simulate failures.
func WithWriter(w WriteFunc) Option {
	return func(s *Store) {
		s.write = w
	}
}

// NewStore creates a Store that writes atomically by default.
func NewStore(opts ...Option) *Store {
	s := &Store{write: WriteAtomic}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CommitIfChanged writes the artifact when its pending content differs from
// the snapshot. At most one write happens per call.
func (s *Store) CommitIfChanged(a *Artifact) (CommitResult, error) {
	content := a.Pending()
	if content == a.original {
		return Unchanged, nil
	}

	if err := s.write(a.Path, []byte(content), a.mode); err != nil {
		return Unchanged, &Error{Kind: WriteError, Path: a.Path, Err: err}
	}

	// The artifact is discarded after a run, but keep it consistent in case
	// the caller inspects it.
	a.Text = content
	a.original = content
	return Written, nil
}

// WriteAtomic writes data to a temp file in the target directory, syncs it
// and renames it over path. On any failure the temp file is removed and the
// target keeps its previous content.
func WriteAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".converge-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
