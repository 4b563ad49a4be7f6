package integration

import "strings"

// languageAliases maps block language tags to renderer ids.
var languageAliases = map[string]string{
	"mermaid":  "mermaid",
	"mmd":      "mermaid",
	"plantuml": "plantuml",
	"puml":     "plantuml",
	"uml":      "plantuml",
	"d2":       "d2",
	"gnuplot":  "gnuplot",
}

// NormalizeLanguage maps a code block's language tag to the
// renderer id that handles it. Returns "" for languages no renderer
// claims.
func NormalizeLanguage(lang string) string {
	return languageAliases[strings.ToLower(strings.TrimSpace(lang))]
}
