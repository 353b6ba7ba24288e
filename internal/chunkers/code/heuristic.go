package code

import (
	"regexp"
	"strings"

	"github.com/basilwick/chunkline/internal/core/domain"
)

// chunkPointPattern pairs a regex matching a chunk-point declaration line
// with the symbol kind it denotes. Capture group 1 must be the symbol
// name. There is no tree-sitter grammar anywhere in the reference corpus,
// so non-Go languages are recognised by line-anchored regular
// expressions over the declaration keywords named in the language table,
// rather than a true incremental parse.
type chunkPointPattern struct {
	re   *regexp.Regexp
	kind domain.SymbolKind
}

var languagePatterns = map[Language][]chunkPointPattern{
	LangRust: {
		{regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?fn\s+(\w+)`), domain.SymbolKindFunction},
		{regexp.MustCompile(`^\s*impl(?:<[^>]*>)?\s+(?:\w+\s+for\s+)?(\w+)`), domain.SymbolKindClass},
		{regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?struct\s+(\w+)`), domain.SymbolKindStruct},
		{regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?enum\s+(\w+)`), domain.SymbolKindEnum},
		{regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?trait\s+(\w+)`), domain.SymbolKindTrait},
		{regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?mod\s+(\w+)`), domain.SymbolKindModule},
	},
	LangPython: {
		{regexp.MustCompile(`^\s*(?:async\s+)?def\s+(\w+)`), domain.SymbolKindFunction},
		{regexp.MustCompile(`^\s*class\s+(\w+)`), domain.SymbolKindClass},
		{regexp.MustCompile(`^\s*@\w+`), ""}, // decorator line; handled specially
	},
	LangJavaScript: {
		{regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s*\*?\s+(\w+)`), domain.SymbolKindFunction},
		{regexp.MustCompile(`^\s*(?:export\s+)?class\s+(\w+)`), domain.SymbolKindClass},
		{regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s*)?\([^)]*\)\s*=>`), domain.SymbolKindFunction},
		{regexp.MustCompile(`^\s*(\w+)\s*\([^)]*\)\s*\{`), domain.SymbolKindMethod},
	},
	LangTypeScript: {
		{regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s*\*?\s+(\w+)`), domain.SymbolKindFunction},
		{regexp.MustCompile(`^\s*(?:export\s+)?class\s+(\w+)`), domain.SymbolKindClass},
		{regexp.MustCompile(`^\s*(?:export\s+)?interface\s+(\w+)`), domain.SymbolKindInterface},
		{regexp.MustCompile(`^\s*(?:export\s+)?type\s+(\w+)\s*=`), domain.SymbolKindType},
		{regexp.MustCompile(`^\s*(\w+)\s*\([^)]*\)\s*:\s*\w+\s*\{`), domain.SymbolKindMethod},
	},
	LangJava: {
		{regexp.MustCompile(`^\s*(?:public|private|protected)?\s*(?:static\s+)?class\s+(\w+)`), domain.SymbolKindClass},
		{regexp.MustCompile(`^\s*(?:public|private|protected)?\s*interface\s+(\w+)`), domain.SymbolKindInterface},
		{regexp.MustCompile(`^\s*(?:public|private|protected)?\s*(?:static\s+|final\s+)*[\w<>\[\]]+\s+(\w+)\s*\([^)]*\)\s*(?:throws\s+[\w,\s]+)?\{`), domain.SymbolKindMethod},
	},
	LangC: {
		{regexp.MustCompile(`^\s*[\w\*]+[\w\s\*]*\s+(\w+)\s*\([^;]*\)\s*\{`), domain.SymbolKindFunction},
		{regexp.MustCompile(`^\s*struct\s+(\w+)`), domain.SymbolKindStruct},
	},
	LangCPP: {
		{regexp.MustCompile(`^\s*[\w:\*&]+[\w\s:\*&<>]*\s+(\w+)\s*\([^;]*\)\s*(?:const\s*)?\{`), domain.SymbolKindFunction},
		{regexp.MustCompile(`^\s*struct\s+(\w+)`), domain.SymbolKindStruct},
		{regexp.MustCompile(`^\s*class\s+(\w+)`), domain.SymbolKindClass},
	},
	LangRuby: {
		{regexp.MustCompile(`^\s*def\s+(?:self\.)?(\w+)`), domain.SymbolKindMethod},
		{regexp.MustCompile(`^\s*class\s+(\w+)`), domain.SymbolKindClass},
		{regexp.MustCompile(`^\s*module\s+(\w+)`), domain.SymbolKindModule},
	},
}

// lineCommentPrefix maps a language to its line-comment marker, used to
// extend a chunk-point span upward over contiguous leading doc/line
// comments (no blank line gap), per the component design.
var lineCommentPrefix = map[Language]string{
	LangRust:       "//",
	LangJavaScript: "//",
	LangTypeScript: "//",
	LangJava:       "//",
	LangC:          "//",
	LangCPP:        "//",
	LangPython:     "#",
	LangRuby:       "#",
}

// parseHeuristic scans content line by line for the language's
// chunk-point patterns and returns a best-effort symbol list. Brace
// languages close a span on the line where the brace depth, counted from
// the declaration's first opening brace, returns to zero; indentation
// languages
// (python, ruby) close at the first subsequent line with indentation
// <= the declaration's.
func parseHeuristic(content string, lang Language) []domain.Symbol {
	patterns := languagePatterns[lang]
	if len(patterns) == 0 {
		return nil
	}

	lines := strings.Split(content, "\n")
	var symbols []domain.Symbol

	for i, line := range lines {
		for _, p := range patterns {
			if p.kind == "" {
				continue // decorator marker, not a chunk point itself
			}
			m := p.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			name := m[1]
			startLine := extendOverLeadingComments(lines, i, lang)
			endLine := findSpanEnd(lines, i, lang)
			symbols = append(symbols, domain.Symbol{
				Name:      name,
				Kind:      p.kind,
				StartLine: startLine,
				EndLine:   endLine,
			})
			break
		}
	}

	return symbols
}

// extendOverLeadingComments walks upward from declIndex while the
// preceding line is a line comment (or, for Python, a decorator) with no
// blank line gap, and returns the 1-based line the span should start at.
func extendOverLeadingComments(lines []string, declIndex int, lang Language) int {
	prefix, ok := lineCommentPrefix[lang]
	start := declIndex
	for i := declIndex - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			break
		}
		isComment := ok && strings.HasPrefix(trimmed, prefix)
		isDecorator := lang == LangPython && strings.HasPrefix(trimmed, "@")
		if !isComment && !isDecorator {
			break
		}
		start = i
	}
	return start + 1
}

func findSpanEnd(lines []string, declIndex int, lang Language) int {
	switch lang {
	case LangPython, LangRuby:
		return findIndentEnd(lines, declIndex)
	default:
		return findBraceEnd(lines, declIndex)
	}
}

func findIndentEnd(lines []string, declIndex int) int {
	declIndent := leadingSpaces(lines[declIndex])
	for i := declIndex + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		if leadingSpaces(lines[i]) <= declIndent {
			return i
		}
	}
	return len(lines)
}

func leadingSpaces(s string) int {
	n := 0
	for _, r := range s {
		if r == ' ' {
			n++
		} else if r == '\t' {
			n += 4
		} else {
			break
		}
	}
	return n
}

func findBraceEnd(lines []string, declIndex int) int {
	depth := 0
	seenOpen := false
	for i := declIndex; i < len(lines); i++ {
		for _, r := range lines[i] {
			if r == '{' {
				depth++
				seenOpen = true
			} else if r == '}' {
				depth--
			}
		}
		if seenOpen && depth <= 0 {
			return i + 1
		}
	}
	return len(lines)
}
