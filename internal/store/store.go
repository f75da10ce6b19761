// Package store holds the small pieces of on-disk state autosync touches:
// the lock around the shared working clone and markdown documents with a
// YAML header.
package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// WriteDocument writes body to path preceded by meta encoded as a YAML
// header. The file is replaced atomically.
func WriteDocument(path string, meta any, body string) error {
	header, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding header for %s: %w", path, err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(body)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return replaceFile(path, buf.Bytes())
}

// ReadDocument decodes the YAML header of path into meta and returns the body.
// A document without a header is an error.
func ReadDocument(path string, meta any) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	body, err := frontmatter.MustParse(bytes.NewReader(data), meta)
	if err != nil {
		return "", fmt.Errorf("parsing header of %s: %w", path, err)
	}
	// WriteDocument separates header and body with a blank line.
	return strings.TrimPrefix(string(body), "\n"), nil
}

// replaceFile writes into a temp file in the target directory and renames it
// over path, so readers never see a partial document.
func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
