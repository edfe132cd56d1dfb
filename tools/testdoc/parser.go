package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// TestFunc is a single parsed test function.
type TestFunc struct {
	Name string // function name, e.g. "TestCommit_ReviewStateGate"
	Doc  string // doc comment text
	Line int    // line number in the source file
}

// TestFile groups the test functions of one file.
type TestFile struct {
	Name  string
	Path  string
	Tests []TestFunc
}

// TestPackage groups the test files of one package, keyed by the
// package path relative to the module root.
type TestPackage struct {
	Name       string
	Files      []TestFile
	TotalTests int
}

// ParseTestFiles walks the module tree and parses every *_test.go
// file. Vendor, testdata, hidden and underscore-prefixed directories
// are skipped.
func ParseTestFiles(root string) ([]TestPackage, error) {
	packageMap := make(map[string]*TestPackage)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if name == "vendor" || name == "testdata" ||
				strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, "_test.go") {
			return nil
		}

		testFile, err := parseTestFile(path)
		if err != nil {
			return err
		}
		if len(testFile.Tests) == 0 {
			return nil
		}

		pkgPath, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			pkgPath = filepath.Dir(path)
		}
		if pkgPath == "." {
			pkgPath = filepath.Base(root)
		}

		pkg, ok := packageMap[pkgPath]
		if !ok {
			pkg = &TestPackage{Name: pkgPath}
			packageMap[pkgPath] = pkg
		}
		pkg.Files = append(pkg.Files, *testFile)
		pkg.TotalTests += len(testFile.Tests)
		return nil
	})
	if err != nil {
		return nil, err
	}

	packages := make([]TestPackage, 0, len(packageMap))
	for _, pkg := range packageMap {
		sort.Slice(pkg.Files, func(i, j int) bool {
			return pkg.Files[i].Name < pkg.Files[j].Name
		})
		packages = append(packages, *pkg)
	}
	sort.Slice(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})
	return packages, nil
}

func parseTestFile(path string) (*TestFile, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	testFile := &TestFile{
		Name: filepath.Base(path),
		Path: path,
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || !isTestFunc(fn) {
			continue
		}

		tf := TestFunc{
			Name: fn.Name.Name,
			Line: fset.Position(fn.Pos()).Line,
		}
		if fn.Doc != nil {
			tf.Doc = strings.TrimSpace(fn.Doc.Text())
		}
		testFile.Tests = append(testFile.Tests, tf)
	}
	return testFile, nil
}

// isTestFunc reports whether fn is a TestXxx(t *testing.T) function,
// as opposed to a helper that happens to start with Test.
func isTestFunc(fn *ast.FuncDecl) bool {
	if !strings.HasPrefix(fn.Name.Name, "Test") {
		return false
	}
	if fn.Type.Params == nil || len(fn.Type.Params.List) != 1 {
		return false
	}
	star, ok := fn.Type.Params.List[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	sel, ok := star.X.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	return ok && ident.Name == "testing" && sel.Sel.Name == "T"
}
