package code

import (
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/basilwick/chunkline/internal/core/domain"
)

// parseGo extracts top-level chunk-point symbols from Go source using the
// standard library parser: function_declaration, method_declaration, and
// type_declaration, matching the language table.
func parseGo(content string) ([]domain.Symbol, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", content, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var symbols []domain.Symbol
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			symbols = append(symbols, funcSymbol(fset, d))
		case *ast.GenDecl:
			if d.Tok == token.TYPE {
				symbols = append(symbols, typeSymbols(fset, d)...)
			}
		}
	}
	return symbols, nil
}

func funcSymbol(fset *token.FileSet, fn *ast.FuncDecl) domain.Symbol {
	start := fset.Position(fn.Pos())
	end := fset.Position(fn.End())

	kind := domain.SymbolKindFunction
	parent := ""
	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		kind = domain.SymbolKindMethod
		parent = receiverTypeName(fn.Recv.List[0].Type)
	}

	if fn.Doc != nil {
		docStart := fset.Position(fn.Doc.Pos())
		start.Line = docStart.Line
	}

	return domain.Symbol{
		Name:      fn.Name.Name,
		Kind:      kind,
		StartLine: start.Line,
		EndLine:   end.Line,
		Parent:    parent,
	}
}

func typeSymbols(fset *token.FileSet, decl *ast.GenDecl) []domain.Symbol {
	var out []domain.Symbol
	for _, spec := range decl.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}

		start := fset.Position(ts.Pos())
		end := fset.Position(ts.End())
		if decl.Lparen == 0 {
			start = fset.Position(decl.Pos())
			end = fset.Position(decl.End())
		}
		if decl.Doc != nil {
			docStart := fset.Position(decl.Doc.Pos())
			start.Line = docStart.Line
		} else if ts.Doc != nil {
			docStart := fset.Position(ts.Doc.Pos())
			start.Line = docStart.Line
		}

		out = append(out, domain.Symbol{
			Name:      ts.Name.Name,
			Kind:      domain.SymbolKindType,
			StartLine: start.Line,
			EndLine:   end.Line,
		})
	}
	return out
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return ""
	}
}
