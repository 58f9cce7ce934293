package main

import (
	"flag"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// modulePath must match the module line in go.mod.
const modulePath = "kura"

// layerPolicy lists the service-relative packages a layer may import.
// Standard library imports are always allowed unless stdlibOnly is set.
type layerPolicy struct {
	allowed    []string
	stdlibOnly bool
}

var policies = map[string]layerPolicy{
	"domain":      {allowed: []string{"domain"}},
	"ports":       {allowed: []string{"domain", "ports"}},
	"application": {allowed: []string{"application", "domain", "ports"}},
	"transport":   {stdlibOnly: true},
}

type finding struct {
	file   string
	line   int
	pkg    string
	reason string
}

func (f finding) String() string {
	if f.pkg == "" {
		return fmt.Sprintf("- %s:%d %s", f.file, f.line, f.reason)
	}
	return fmt.Sprintf("- %s:%d imports %q (%s)", f.file, f.line, f.pkg, f.reason)
}

func main() {
	root := flag.String("root", "contexts", "directory holding the bounded contexts")
	flag.Parse()

	findings, err := scan(*root)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if len(findings) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	slices.SortFunc(findings, func(a, b finding) int {
		if c := strings.Compare(a.file, b.file); c != 0 {
			return c
		}
		if a.line != b.line {
			return a.line - b.line
		}
		return strings.Compare(a.pkg, b.pkg)
	})
	fmt.Printf("%d boundary violations found:\n", len(findings))
	for _, f := range findings {
		fmt.Println(f)
	}
	os.Exit(1)
}

// scan walks contexts/<context>/<service>/<layer>/... and checks every
// non-test Go file against its layer policy.
func scan(root string) ([]finding, error) {
	var findings []finding
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 4 {
			return nil
		}
		service := strings.Join([]string{modulePath, "contexts", parts[0], parts[1]}, "/")
		findings = append(findings, checkFile(path, service, parts[2])...)
		return nil
	})
	return findings, err
}

func checkFile(path string, service string, layer string) []finding {
	name := filepath.ToSlash(path)
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []finding{{file: name, line: 1, reason: "file must parse: " + err.Error()}}
	}

	policy, layered := policies[layer]
	var findings []finding
	for _, spec := range file.Imports {
		pkg := strings.Trim(spec.Path.Value, `"`)
		at := finding{file: name, line: fset.Position(spec.Pos()).Line, pkg: pkg}

		if within(pkg, modulePath+"/contexts") && !within(pkg, service) {
			at.reason = "cross-service imports are forbidden"
			findings = append(findings, at)
			continue
		}
		if !layered {
			continue
		}
		if reason := policy.check(pkg, service, layer); reason != "" {
			at.reason = reason
			findings = append(findings, at)
		}
	}
	return findings
}

func (p layerPolicy) check(pkg string, service string, layer string) string {
	if stdlib(pkg) {
		return ""
	}
	if p.stdlibOnly {
		return layer + " must only import the standard library"
	}
	switch {
	case strings.Contains(pkg, "/adapters/") || strings.HasSuffix(pkg, "/adapters"):
		return layer + " must not import adapters"
	case within(pkg, modulePath+"/internal"), within(pkg, modulePath+"/cmd"):
		return layer + " must not import runtime infrastructure"
	}
	for _, allowed := range p.allowed {
		if within(pkg, service+"/"+allowed) {
			return ""
		}
	}
	return layer + " import is outside its allowlist"
}

func within(pkg string, prefix string) bool {
	return pkg == prefix || strings.HasPrefix(pkg, prefix+"/")
}

// stdlib treats any import whose first element has no dot as standard
// library, except the module itself.
func stdlib(pkg string) bool {
	if within(pkg, modulePath) {
		return false
	}
	first, _, _ := strings.Cut(pkg, "/")
	return !strings.Contains(first, ".")
}
