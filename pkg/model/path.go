package model

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/matzehuels/typediagram/pkg/diagnostics"
)

// DefaultSourceExt is appended to the id path when the extension of the
// declaring file is unknown.
const DefaultSourceExt = ".ts"

// NewID builds the type id of a declaration named localName in the file at
// sourcePath. The extension of sourcePath is dropped.
func NewID(sourcePath, localName string) string {
	p := filepath.ToSlash(sourcePath)
	p = strings.TrimSuffix(p, path.Ext(p))
	return `"` + p + `".` + localName
}

// ParseID splits an id into the quoted source path and the local name.
// ok is false when id does not start with a quoted path.
func ParseID(id string) (sourcePath, localName string, ok bool) {
	if !strings.HasPrefix(id, `"`) {
		return "", "", false
	}
	end := strings.Index(id[1:], `".`)
	if end < 0 {
		return "", "", false
	}
	return id[1 : end+1], id[end+3:], true
}

// RelativeFilePath returns the path of the file that declares d.
//
// ext is the extension of the declaring file (DefaultSourceExt when empty).
// When fromFile is set the path is relative to the directory of fromFile,
// otherwise it is absolute. Ids without the quoted path prefix are reported
// as a warning and yield "".
func (d *Declaration) RelativeFilePath(ext, fromFile string, sink diagnostics.Sink) string {
	sink = diagnostics.OrNull(sink)

	sourcePath, _, ok := ParseID(d.ID)
	if !ok {
		sink.Warn("malformed type id, cannot link to source", "id", d.ID, "name", d.Name)
		return ""
	}
	if ext == "" {
		ext = DefaultSourceExt
	}

	target, err := filepath.Abs(filepath.FromSlash(sourcePath + ext))
	if err != nil {
		sink.Warn("cannot resolve source path", "id", d.ID, "err", err)
		return ""
	}
	if fromFile == "" {
		return filepath.ToSlash(target)
	}

	fromDir, err := filepath.Abs(filepath.Dir(fromFile))
	if err != nil {
		sink.Warn("cannot resolve diagram path", "path", fromFile, "err", err)
		return filepath.ToSlash(target)
	}
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}
