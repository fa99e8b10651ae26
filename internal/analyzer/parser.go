package analyzer

import (
	"go/ast"
	"go/parser"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/apidocgen/apidocgen/internal/annotation"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"testdata":     true,
	"node_modules": true,
}

// sourceFiles lists the Go files of the project in lexical order.
func (a *Analyzer) sourceFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(a.projectPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != a.projectPath && (skipDirs[name] || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func (a *Analyzer) parseSourceFile(filePath string, idx *classIndex) error {
	src, err := parser.ParseFile(a.fileSet, filePath, nil, parser.ParseComments)
	if err != nil {
		return err
	}

	methods := 0
	for _, decl := range src.Decls {
		funcDecl, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}

		class := src.Name.Name
		if funcDecl.Recv != nil && len(funcDecl.Recv.List) > 0 {
			class = receiverTypeName(funcDecl.Recv.List[0].Type)
		}

		bag := annotation.Bag{}
		if funcDecl.Doc != nil {
			text, start := a.commentText(funcDecl.Doc)
			bag, err = parseAnnotations(text, start)
			if err != nil {
				return err
			}
		}
		if funcDecl.Recv == nil && bag.Empty() {
			continue
		}

		idx.add(class, annotation.Method{Name: funcDecl.Name.Name, Bag: bag})
		if !bag.Empty() {
			methods++
		}
	}

	if methods > 0 {
		a.logger.Debug("parsed file", "path", filePath, "annotated_methods", methods)
	}
	return nil
}

// commentText returns the doc comment with its markers removed and every
// other byte kept, so line k of the text is line start+k of the file.
func (a *Analyzer) commentText(doc *ast.CommentGroup) (string, int) {
	start := a.fileSet.Position(doc.Pos()).Line
	line := start

	var b strings.Builder
	for _, c := range doc.List {
		for at := a.fileSet.Position(c.Pos()).Line; line < at; line++ {
			b.WriteByte('\n')
		}

		text := c.Text
		if strings.HasPrefix(text, "//") {
			text = strings.TrimPrefix(text[2:], " ")
		} else {
			text = strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
		}
		b.WriteString(text)
		line += strings.Count(text, "\n")
	}
	return b.String(), start
}

// receiverTypeName returns the base type name of a method receiver,
// dropping pointers and type parameters.
func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	case *ast.ParenExpr:
		return receiverTypeName(t.X)
	default:
		return "interface{}"
	}
}
