package extract

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/typediagram/pkg/errors"
)

// pattern is a compiled source glob.
type pattern struct {
	// root is the deepest directory (URL or local path) without wildcards.
	root string
	glob string
}

// compileGlob splits glob into a walk root and a matcher. Local globs are
// made absolute; URL globs ("mem://host/src/**/*.ts") match on the URL path.
//
// The syntax is doublestar's: "**" for any number of directories, "*" and
// "?" within one segment, "[...]" classes, "{a,b}" alternatives (which may
// nest) and backslash escapes.
func compileGlob(glob string) (*pattern, error) {
	if err := errors.ValidateGlob(glob); err != nil {
		return nil, err
	}

	prefix, p := "", filepath.ToSlash(glob)
	if i := strings.Index(glob, "://"); i >= 0 {
		rest := glob[i+3:]
		j := strings.Index(rest, "/")
		if j < 0 {
			return nil, errors.New(errors.ErrCodeInvalidGlob, "glob has no path: %s", glob)
		}
		prefix, p = glob[:i+3+j], rest[j:]
	} else if !path.IsAbs(p) {
		abs, err := filepath.Abs(glob)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGlob, err, "resolve glob %s", glob)
		}
		p = filepath.ToSlash(abs)
	}

	base, _ := doublestar.SplitPattern(p)
	return &pattern{root: prefix + unescape(base), glob: p}, nil
}

// match reports whether the slash-separated path p is selected.
func (g *pattern) match(p string) bool {
	ok, err := doublestar.Match(g.glob, p)
	return err == nil && ok
}

// unescape drops the backslashes that quote meta characters in the static
// part of a glob, which is walked as a plain directory.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
