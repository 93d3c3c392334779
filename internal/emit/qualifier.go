package emit

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"projector-generator/internal/analyze"
	"projector-generator/primitive"
)

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// String renders the import line body.
func (s importSpec) String() string {
	if s.Alias == "" {
		return strconv.Quote(s.Path)
	}

	return s.Alias + " " + strconv.Quote(s.Path)
}

// stdNames are packages generated code references by name.
var stdNames = []string{"iter", "maps", "reflect", "slices"}

// qualifier rewrites path-qualified names for one generated file.
//
// Types in the file's own package lose their qualifier, other packages get
// their declared name, made unique within the file.
type qualifier struct {
	self     string
	aliases  map[string]string // package path -> alias
	used     map[string]bool
	patterns map[string]*regexp.Regexp
	replacer *strings.Replacer
}

func newQualifier(table *analyze.TypeTable, self string) *qualifier {
	q := &qualifier{
		self:     self,
		aliases:  make(map[string]string),
		used:     make(map[string]bool),
		patterns: make(map[string]*regexp.Regexp),
	}

	paths := []string{primitive.RuntimePkgPath}
	for path := range table.Packages {
		if path != primitive.RuntimePkgPath {
			paths = append(paths, path)
		}
	}
	slices.Sort(paths)

	taken := make(map[string]bool)
	for _, name := range stdNames {
		taken[name] = true
	}

	for _, path := range paths {
		if path == self {
			continue
		}

		alias := table.PackageName(path)
		if slices.Contains(stdNames, path) {
			q.aliases[path] = path
			continue
		}

		for i := 2; taken[alias]; i++ {
			alias = table.PackageName(path) + strconv.Itoa(i)
		}
		taken[alias] = true
		q.aliases[path] = alias
	}

	// Longest paths first so that "a/b/c." wins over "b/c.".
	slices.SortFunc(paths, func(a, b string) int { return len(b) - len(a) })

	var pairs []string
	for _, path := range paths {
		q.patterns[path] = regexp.MustCompile(`(?:^|[^\w./-])` + regexp.QuoteMeta(path) + `\.`)

		switch alias := q.aliases[path]; {
		case path == self:
			pairs = append(pairs, path+".", "")
		case alias != path:
			pairs = append(pairs, path+".", alias+".")
		}
	}
	q.replacer = strings.NewReplacer(pairs...)

	return q
}

// Qualify rewrites every qualified name in text and records the imports it needs.
func (q *qualifier) Qualify(text string) string {
	for path, re := range q.patterns {
		if path != q.self && !q.used[path] && re.MatchString(text) {
			q.used[path] = true
		}
	}

	return q.replacer.Replace(text)
}

// Alias returns the alias of a package path within the file.
func (q *qualifier) Alias(path string) string {
	if path == q.self {
		return ""
	}

	return q.aliases[path]
}

// Taken reports whether name may be a package alias in the file.
func (q *qualifier) Taken(name string) bool {
	if slices.Contains(stdNames, name) {
		return true
	}

	for _, alias := range q.aliases {
		if alias == name {
			return true
		}
	}

	return false
}

// Imports returns the imports recorded so far, ordered by path.
func (q *qualifier) Imports() []importSpec {
	var out []importSpec
	for path := range q.used {
		alias := q.aliases[path]
		if alias == lastElem(path) {
			alias = ""
		}
		out = append(out, importSpec{Alias: alias, Path: path})
	}

	slices.SortFunc(out, func(a, b importSpec) int { return strings.Compare(a.Path, b.Path) })

	return out
}

func lastElem(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}
