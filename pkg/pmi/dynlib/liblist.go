package dynlib

import (
	"os"
	"path/filepath"
	"strings"
)

// Lister enumerates candidate absolute filesystem paths for a logical
// library name, in priority order. It is the Go-native analogue of
// flux-core's liblist_create/liblist_destroy collaborator: the core
// only ever consumes it through this interface.
type Lister interface {
	Candidates(name string) []string
}

// defaultSearchDirs mirrors the directories a dynamic linker typically
// consults for a bare library name, checked after any explicit path and
// any LD_LIBRARY_PATH entries.
var defaultSearchDirs = []string{
	"/usr/lib64",
	"/usr/lib",
	"/usr/lib/x86_64-linux-gnu",
	"/usr/local/lib64",
	"/usr/local/lib",
	"/lib64",
	"/lib",
}

// EnvLister is the default Lister: if name already contains a path
// separator it is tried as given (and only as given); otherwise every
// directory in LD_LIBRARY_PATH is tried, followed by a fixed list of
// common system library directories.
type EnvLister struct {
	// LDLibraryPath overrides os.Getenv("LD_LIBRARY_PATH") for testing.
	// Empty means "read the real environment variable".
	LDLibraryPath string
}

func (l EnvLister) Candidates(name string) []string {
	if strings.ContainsRune(name, filepath.Separator) {
		return []string{name}
	}

	ldPath := l.LDLibraryPath
	if ldPath == "" {
		ldPath = os.Getenv("LD_LIBRARY_PATH")
	}

	var candidates []string
	for _, dir := range strings.Split(ldPath, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}
		candidates = append(candidates, filepath.Join(dir, name))
	}
	for _, dir := range defaultSearchDirs {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	return candidates
}
