package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Source is an audio byte source owned by exactly one transcription session.
// Release frees the backing storage; it must be safe to call more than once.
type Source interface {
	io.ReadSeeker
	Release() error
}

// Prober inspects a source and reports its playback duration. Implementations
// must leave the source positioned at offset 0.
type Prober interface {
	Duration(src Source) (time.Duration, error)
}

// FileSource is a Source backed by an uploaded temp file that is removed on release.
type FileSource struct {
	file *os.File
	path string

	once       sync.Once
	releaseErr error
}

func OpenFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	return &FileSource{file: f, path: path}, nil
}

// CreateFileSource copies r into a new temp file under dir and opens it for reading.
func CreateFileSource(dir, pattern string, r io.Reader) (*FileSource, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("create temp audio file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("write temp audio file: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("rewind temp audio file: %w", err)
	}
	return &FileSource{file: f, path: f.Name()}, nil
}

func (s *FileSource) Path() string {
	return s.path
}

func (s *FileSource) Read(p []byte) (int, error) {
	return s.file.Read(p)
}

func (s *FileSource) Seek(offset int64, whence int) (int64, error) {
	return s.file.Seek(offset, whence)
}

func (s *FileSource) Release() error {
	s.once.Do(func() {
		closeErr := s.file.Close()
		removeErr := os.Remove(s.path)
		if errors.Is(removeErr, os.ErrNotExist) {
			removeErr = nil
		}
		s.releaseErr = errors.Join(closeErr, removeErr)
	})
	return s.releaseErr
}
