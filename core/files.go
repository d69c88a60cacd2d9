package core

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SkippedFile records a file excluded from a batch and why.
type SkippedFile struct {
	Path   string
	Reason string
}

// CollectFiles expands a path into the list of uploadable files under it.
// A file path yields itself (if valid); a directory yields its valid files,
// recursing when recursive is set. Hidden files are skipped. Invalid files
// are returned in skipped together with the validation message.
func CollectFiles(path string, recursive bool) (valid []string, skipped []SkippedFile) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, []SkippedFile{{Path: path, Reason: "path does not exist"}}
	}

	if !info.IsDir() {
		if err := ValidateFile(path); err != nil {
			return nil, []SkippedFile{{Path: path, Reason: err.Error()}}
		}
		return []string{path}, nil
	}

	walk := func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			skipped = append(skipped, SkippedFile{Path: p, Reason: walkErr.Error()})
			return nil
		}
		if d.IsDir() {
			if !recursive && p != path {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			skipped = append(skipped, SkippedFile{Path: p, Reason: "hidden file"})
			return nil
		}
		if err := ValidateFile(p); err != nil {
			skipped = append(skipped, SkippedFile{Path: p, Reason: err.Error()})
			return nil
		}
		valid = append(valid, p)
		return nil
	}

	// WalkDir visits entries in lexical order, which keeps batch order stable.
	_ = filepath.WalkDir(path, walk)

	return valid, skipped
}

// CleanPathInput strips quoting and escape characters that terminals add to
// drag-and-dropped paths.
func CleanPathInput(input string) string {
	path := strings.TrimSpace(input)

	if len(path) >= 2 {
		if (strings.HasPrefix(path, `"`) && strings.HasSuffix(path, `"`)) ||
			(strings.HasPrefix(path, "'") && strings.HasSuffix(path, "'")) {
			path = path[1 : len(path)-1]
		}
	}

	replacer := strings.NewReplacer(
		`\ `, " ",
		`\(`, "(",
		`\)`, ")",
		`\&`, "&",
		`\'`, "'",
	)
	return replacer.Replace(path)
}
