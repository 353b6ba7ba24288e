package domain

// SymbolKind enumerates the code-path node kinds CodeChunker recognises
// as chunk points, across every supported language.
type SymbolKind string

// Recognised symbol kinds.
const (
	SymbolKindFunction  SymbolKind = "function"
	SymbolKindMethod    SymbolKind = "method"
	SymbolKindClass     SymbolKind = "class"
	SymbolKindStruct    SymbolKind = "struct"
	SymbolKindEnum      SymbolKind = "enum"
	SymbolKindInterface SymbolKind = "interface"
	SymbolKindTrait     SymbolKind = "trait"
	SymbolKindType      SymbolKind = "type"
	SymbolKindModule    SymbolKind = "module"
)

// Symbol is code-path metadata describing a single AST chunk point.
type Symbol struct {
	Name      string
	Kind      SymbolKind
	StartLine int
	EndLine   int

	// Parent is the name of the enclosing symbol, if any (e.g. a method's
	// containing struct/class/impl).
	Parent string
}
