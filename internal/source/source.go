// Package source lists the animation documents of a run and reads the image
// assets they reference.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is an ordered set of documents to convert.
type Source interface {
	Len() int
	Path(index int) string
	Read(index int) ([]byte, error)
	// AssetDir is the directory image assets of a document are relative to.
	AssetDir(index int) string
	IsBatch() bool
}

// FileSource is a single document or every *.json document of a directory.
type FileSource struct {
	paths []string
	batch bool
}

// New opens path as a file or a directory of documents.
func New(path string) (*FileSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return &FileSource{paths: []string{path}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && IsDocument(entry.Name()) {
			paths = append(paths, filepath.Join(path, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("в папке %s нет файлов анимации", path)
	}
	sort.Strings(paths)
	return &FileSource{paths: paths, batch: true}, nil
}

// IsDocument reports whether name looks like an animation document.
func IsDocument(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

func (s *FileSource) Len() int { return len(s.paths) }

func (s *FileSource) Path(index int) string { return s.paths[index] }

func (s *FileSource) Read(index int) ([]byte, error) {
	return os.ReadFile(s.paths[index])
}

func (s *FileSource) AssetDir(index int) string {
	return filepath.Dir(s.paths[index])
}

func (s *FileSource) IsBatch() bool { return s.batch }

// BaseName is the document file name without extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
