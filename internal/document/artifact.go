package document

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"
)

// defaultMode is used for artifacts that were not loaded from disk.
const defaultMode fs.FileMode = 0o644

// Artifact is the single text document under edit.
type Artifact struct {
	// Path identifies the artifact; the engine never reinterprets it.
	Path string

	// Text is the working copy mutated by the pipeline.
	Text string

	original string
	mode     fs.FileMode
}

// New creates an artifact from in-memory text. The snapshot equals text.
func New(path, text string) *Artifact {
	return &Artifact{Path: path, Text: text, original: text, mode: defaultMode}
}

// Load reads the artifact at path and snapshots its content.
func Load(path string) (*Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Kind: NotFound, Path: path, Err: err}
		}
		return nil, &Error{Kind: ReadError, Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &Error{Kind: ReadError, Path: path, Err: errors.New("is a directory")}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Kind: NotFound, Path: path, Err: err}
		}
		return nil, &Error{Kind: ReadError, Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &Error{Kind: ReadError, Path: path, Err: errors.New("content is not valid UTF-8")}
	}

	text := string(data)
	return &Artifact{Path: path, Text: text, original: text, mode: info.Mode().Perm()}, nil
}

// Original returns the snapshot taken at load time.
func (a *Artifact) Original() string {
	return a.original
}

// Mode returns the permission bits the artifact is written back with.
func (a *Artifact) Mode() fs.FileMode {
	return a.mode
}

// Pending returns the exact content a commit would write: the working text
// with the original's trailing line terminators restored. A file that ended
// in one newline still ends in exactly one; a file without a final newline
// does not gain one.
func (a *Artifact) Pending() string {
	if a.Text == a.original {
		return a.original
	}
	return withTrailer(a.Text, trailer(a.original))
}

// Dirty reports whether committing would write anything.
func (a *Artifact) Dirty() bool {
	return a.Pending() != a.original
}

func trailer(s string) string {
	return s[len(strings.TrimRight(s, "\r\n")):]
}

func withTrailer(s, tail string) string {
	body := strings.TrimRight(s, "\r\n")
	if body == "" {
		return s
	}
	return body + tail
}
