package fs

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

// CompressedFS wraps another FS and gzips file contents on every write path,
// including temp files, so atomic writes through it stay readable.
type CompressedFS struct {
	underlying FS
}

func NewCompressedFS(base FS) *CompressedFS {
	return &CompressedFS{underlying: base}
}

func (c *CompressedFS) Open(path string) (io.ReadSeekCloser, error) {
	data, err := c.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &memReadSeekCloser{Reader: bytes.NewReader(data)}, nil
}

func (c *CompressedFS) ReadFile(path string) ([]byte, error) {
	raw, err := c.underlying.ReadFile(path)
	if err != nil {
		return nil, err
	}

	gz, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to open compressed %s: %w", path, err)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	return data, nil
}

func (c *CompressedFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return c.underlying.WriteFile(path, buf.Bytes(), perm)
}

func (c *CompressedFS) CreateTempFile(dir, pattern string) (io.WriteCloser, string, error) {
	wc, name, err := c.underlying.CreateTempFile(dir, pattern)
	if err != nil {
		return nil, "", err
	}
	return &gzipWriteCloser{gz: gzip.NewWriter(wc), dst: wc}, name, nil
}

type gzipWriteCloser struct {
	gz  *gzip.Writer
	dst io.WriteCloser
}

func (w *gzipWriteCloser) Write(p []byte) (int, error) { return w.gz.Write(p) }

func (w *gzipWriteCloser) Close() error {
	if err := w.gz.Close(); err != nil {
		w.dst.Close()
		return err
	}
	return w.dst.Close()
}

// Pass-through for other operations
func (c *CompressedFS) MkdirAll(path string, perm os.FileMode) error {
	return c.underlying.MkdirAll(path, perm)
}
func (c *CompressedFS) Remove(path string) error { return c.underlying.Remove(path) }
func (c *CompressedFS) Rename(oldPath, newPath string) error {
	return c.underlying.Rename(oldPath, newPath)
}
func (c *CompressedFS) Stat(path string) (os.FileInfo, error)      { return c.underlying.Stat(path) }
func (c *CompressedFS) ReadDir(path string) ([]os.DirEntry, error) { return c.underlying.ReadDir(path) }
func (c *CompressedFS) IsNotExist(err error) bool                  { return c.underlying.IsNotExist(err) }
func (c *CompressedFS) IsDir(path string) bool                     { return c.underlying.IsDir(path) }
func (c *CompressedFS) Exists(path string) bool                    { return c.underlying.Exists(path) }
