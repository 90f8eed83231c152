package backup

import (
	"path/filepath"
	"strings"
)

// commentTokens maps an editor language id to its line-comment token. The
// table is total: unknown ids fall back to "//". Only used to prefix an
// optional description line into a backed-up text file.
var commentTokens = map[string]string{
	"c":          "//",
	"cpp":        "//",
	"csharp":     "//",
	"go":         "//",
	"java":       "//",
	"javascript": "//",
	"jsonc":      "//",
	"kotlin":     "//",
	"php":        "//",
	"rust":       "//",
	"scala":      "//",
	"swift":      "//",
	"typescript": "//",

	"dockerfile":  "#",
	"elixir":      "#",
	"makefile":    "#",
	"perl":        "#",
	"python":      "#",
	"r":           "#",
	"ruby":        "#",
	"shellscript": "#",
	"toml":        "#",
	"yaml":        "#",

	"haskell": "--",
	"lua":     "--",
	"sql":     "--",

	"clojure": ";;",
	"lisp":    ";;",

	"erlang": "%",
	"latex":  "%",

	"vb": "'",
}

// CommentToken returns the line-comment token for a language id, defaulting
// to "//" for unrecognized ids.
func CommentToken(langID string) string {
	if tok, ok := commentTokens[langID]; ok {
		return tok
	}
	return "//"
}

var extLangs = map[string]string{
	".c":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
	".ex":   "elixir",
	".go":   "go",
	".hs":   "haskell",
	".java": "java",
	".js":   "javascript",
	".kt":   "kotlin",
	".lua":  "lua",
	".php":  "php",
	".pl":   "perl",
	".py":   "python",
	".r":    "r",
	".rb":   "ruby",
	".rs":   "rust",
	".sh":   "shellscript",
	".sql":  "sql",
	".tex":  "latex",
	".toml": "toml",
	".ts":   "typescript",
	".yaml": "yaml",
	".yml":  "yaml",
}

// LangFromPath guesses a language id from a file extension. Unknown
// extensions return "", which CommentToken treats as the default.
func LangFromPath(path string) string {
	return extLangs[strings.ToLower(filepath.Ext(path))]
}
