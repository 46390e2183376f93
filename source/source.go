// Package source finds the Swift files to process and names their
// generated companions.
package source

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/teranos/jsongen/errors"
)

// RuntimeFile is the name of a vendored copy of the JSON runtime. It is
// compiled with the batch but never gets a companion.
const RuntimeFile = "JsonGen.swift"

// Naming holds the file naming conventions.
type Naming struct {
	// SourceExt is the extension of input files, e.g. ".swift".
	SourceExt string
	// GeneratedSuffix is inserted before the extension of companions,
	// Foo.swift becomes Foo+JsonGen.swift.
	GeneratedSuffix string
	// OverrideSuffix marks hand-written extension files, which are never inputs.
	OverrideSuffix string
}

// DefaultNaming returns the standard conventions.
func DefaultNaming() Naming {
	return Naming{
		SourceExt:       ".swift",
		GeneratedSuffix: "+JsonGen",
		OverrideSuffix:  "+Extensions",
	}
}

// File describes one input and its companion.
type File struct {
	Name    string // base name of the input
	Path    string // absolute path of the input
	Outbase string // base name of the companion
	Outfile string // path of the companion
	// SkipCompanion is set for the runtime file.
	SkipCompanion bool
}

// IsInput reports whether a base name is a source file that is not
// itself generated or a hand-written override file.
func (n Naming) IsInput(name string) bool {
	if !strings.HasSuffix(name, n.SourceExt) {
		return false
	}
	stem := strings.TrimSuffix(name, n.SourceExt)
	if stem == "" {
		return false
	}
	if n.GeneratedSuffix != "" && strings.HasSuffix(stem, n.GeneratedSuffix) {
		return false
	}
	if n.OverrideSuffix != "" && strings.HasSuffix(stem, n.OverrideSuffix) {
		return false
	}
	return true
}

// Companion returns the companion's base name for an input base name.
func (n Naming) Companion(name string) string {
	return strings.TrimSuffix(name, n.SourceExt) + n.GeneratedSuffix + n.SourceExt
}

// Describe names the companion of path, placed in outDir when set and
// next to the input otherwise.
func (n Naming) Describe(path, outDir string) (File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return File{}, errors.Wrapf(err, "failed to resolve %s", path)
	}

	name := filepath.Base(abs)
	outbase := n.Companion(name)
	dir := filepath.Dir(abs)
	if outDir != "" {
		if dir, err = filepath.Abs(outDir); err != nil {
			return File{}, errors.Wrapf(err, "failed to resolve %s", outDir)
		}
	}

	return File{
		Name:          name,
		Path:          abs,
		Outbase:       outbase,
		Outfile:       filepath.Join(dir, outbase),
		SkipCompanion: name == RuntimeFile,
	}, nil
}

// Discover expands paths into the list of files beneath them, recursing
// into directories in lexical order.
func Discover(fsys afero.Fs, paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := fsys.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read input %s", p)
		}
		if !info.IsDir() {
			if !info.Mode().IsRegular() {
				return nil, errors.Newf("input %s is neither a file nor a directory", p)
			}
			files = append(files, p)
			continue
		}

		err = afero.Walk(fsys, p, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.Mode().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk %s", p)
		}
	}
	return files, nil
}

// Collect discovers files under paths and describes every input among them.
func Collect(fsys afero.Fs, paths []string, outDir string, naming Naming) ([]File, error) {
	found, err := Discover(fsys, paths)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	owners := make(map[string]string)
	var files []File
	for _, path := range found {
		if !naming.IsInput(filepath.Base(path)) {
			continue
		}
		f, err := naming.Describe(path, outDir)
		if err != nil {
			return nil, err
		}
		if seen[f.Path] {
			continue
		}
		seen[f.Path] = true

		// Companions are written concurrently; one destination per input.
		if !f.SkipCompanion {
			if other, ok := owners[f.Outfile]; ok {
				return nil, errors.WithHint(
					errors.Newf("%s and %s would both write %s", other, f.Path, f.Outfile),
					"rename one of the inputs or generate without --output")
			}
			owners[f.Outfile] = f.Path
		}
		files = append(files, f)
	}
	return files, nil
}
