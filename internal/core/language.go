package core

import "strings"

// languageEntry pairs a canonical language name with the keywords that
// count as a mention of it in free-form task text.
type languageEntry struct {
	name     string
	keywords []string
}

// languageTable is scanned in order; when several non-python languages are
// mentioned, the first entry (and first keyword) wins. Keep it a slice, not
// a map, so the tie-break stays reproducible.
var languageTable = []languageEntry{
	{"python", []string{"python", "py"}},
	{"javascript", []string{"javascript", "js", "node.js", "nodejs"}},
	{"typescript", []string{"typescript", "ts"}},
	{"java", []string{"java"}},
	{"c++", []string{"c++", "cpp", "c + +", "c p p"}},
	{"c#", []string{"c#", "c sharp", "csharp"}},
	{"go", []string{"go", "golang"}},
	{"rust", []string{"rust"}},
	{"php", []string{"php"}},
}

// InferLanguage decides which programming language the user actually wants,
// defaulting to python.
//
// Rules:
//   - If declared is empty, the default candidate is "python".
//   - A non-python language mentioned in the task text wins over both the
//     declared language and any simultaneous python mention, so "here is my
//     python snippet, convert it to Rust" yields rust.
//   - A python mention wins over the declared language.
//   - Otherwise the normalized declared language (or the default) is used.
func InferLanguage(declared, task string) string {
	base := strings.ToLower(strings.TrimSpace(declared))
	if base == "" {
		base = "python"
	}

	text := strings.ToLower(task)
	// Whitespace-stripped copy catches obfuscated spellings like "c + +".
	normalized := strings.ReplaceAll(text, " ", "")

	pythonMentioned := false
	for _, entry := range languageTable {
		for _, kw := range entry.keywords {
			matched := keywordMentioned(text, kw)
			if !matched && entry.name == "c++" {
				matched = strings.Contains(normalized, strings.ReplaceAll(kw, " ", ""))
			}
			if !matched {
				continue
			}
			if entry.name == "python" {
				pythonMentioned = true
				break
			}
			return entry.name
		}
	}

	if pythonMentioned {
		return "python"
	}
	return base
}

// keywordMentioned reports whether kw appears in text as a raw substring or
// in a phrase like "in javascript" / "javascript code".
func keywordMentioned(text, kw string) bool {
	return strings.Contains(text, "in "+kw) ||
		strings.Contains(text, kw+" code") ||
		strings.Contains(text, kw)
}
