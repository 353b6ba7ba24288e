package code

import (
	"path"
	"strings"

	"github.com/basilwick/chunkline/internal/core/domain"
)

// Language identifies one of the chunk-point tables CodeChunker knows
// about. Any language not in this set falls back to RecursiveChunker,
// same as a parse failure.
type Language string

// Supported languages, matching the content_type:/extension table.
const (
	LangGo         Language = "go"
	LangRust       Language = "rust"
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangJava       Language = "java"
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangRuby       Language = "ruby"
)

var extToLang = map[string]Language{
	".go":   LangGo,
	".rs":   LangRust,
	".py":   LangPython,
	".js":   LangJavaScript,
	".jsx":  LangJavaScript,
	".ts":   LangTypeScript,
	".tsx":  LangTypeScript,
	".java": LangJava,
	".c":    LangC,
	".h":    LangC,
	".cpp":  LangCPP,
	".cc":   LangCPP,
	".hpp":  LangCPP,
	".rb":   LangRuby,
}

// DetectLanguage derives a chunk-point language from, in order: the
// "text/code:<lang>" content_type suffix, metadata.language, or the file
// extension of metadata.path. Returns ("", false) when none identify a
// supported language.
func DetectLanguage(item domain.SourceItem) (Language, bool) {
	if suffix, ok := strings.CutPrefix(item.ContentType, "text/code:"); ok && suffix != "" {
		if lang, ok := normalizeLang(suffix); ok {
			return lang, true
		}
	}

	if item.Metadata != nil {
		if v, ok := item.Metadata["language"]; ok {
			if s, ok := v.(string); ok {
				if lang, ok := normalizeLang(s); ok {
					return lang, true
				}
			}
		}
		if v, ok := item.Metadata["path"]; ok {
			if s, ok := v.(string); ok {
				if lang, ok := extToLang[strings.ToLower(path.Ext(s))]; ok {
					return lang, true
				}
			}
		}
	}

	return "", false
}

func normalizeLang(s string) (Language, bool) {
	switch strings.ToLower(s) {
	case "go", "golang":
		return LangGo, true
	case "rust", "rs":
		return LangRust, true
	case "python", "py":
		return LangPython, true
	case "javascript", "js", "jsx":
		return LangJavaScript, true
	case "typescript", "ts", "tsx":
		return LangTypeScript, true
	case "java":
		return LangJava, true
	case "c":
		return LangC, true
	case "cpp", "c++", "cc":
		return LangCPP, true
	case "ruby", "rb":
		return LangRuby, true
	default:
		return "", false
	}
}
