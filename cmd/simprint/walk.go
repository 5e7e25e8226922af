package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

// fileFilter selects files by their path relative to the walked root.
// Patterns use '/' as separator, so "*" stays within a directory and "**"
// crosses directories.
type fileFilter struct {
	include []glob.Glob
	exclude []glob.Glob
}

func newFileFilter(include, exclude []string) (*fileFilter, error) {
	f := &fileFilter{}
	for _, p := range include {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("include pattern %q: %w", p, err)
		}
		f.include = append(f.include, g)
	}
	for _, p := range exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		f.exclude = append(f.exclude, g)
	}
	return f, nil
}

func (f *fileFilter) match(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, g := range f.exclude {
		if g.Match(relPath) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, g := range f.include {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}

// collectFiles expands roots into the regular files below them that pass
// filter. A root that is a file is matched by its base name.
func collectFiles(roots []string, filter *fileFilter) ([]string, error) {
	var files []string
	for _, root := range roots {
		fi, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("error stat'ing %q: %w", root, err)
		}
		if !fi.IsDir() {
			if filter.match(filepath.Base(root)) {
				files = append(files, root)
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				fmt.Fprintf(stdout, "failure accessing a path %q: %v\n", path, err)
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			relPath, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if !filter.match(relPath) {
				logVerbose(grey(" - " + relPath))
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking the path %s: %w", root, err)
		}
	}
	return files, nil
}
