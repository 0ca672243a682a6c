package workspace

import (
	"path"
	"sort"
	"strings"
)

// extensionToLanguage maps file extensions to language names.
var extensionToLanguage = map[string]string{
	".go":    "Go",
	".py":    "Python",
	".pyi":   "Python",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".mts":   "TypeScript",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".mjs":   "JavaScript",
	".cjs":   "JavaScript",
	".java":  "Java",
	".rs":    "Rust",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".cc":    "C++",
	".cxx":   "C++",
	".hpp":   "C++",
	".cs":    "C#",
	".rb":    "Ruby",
	".erb":   "Ruby",
	".slim":  "Ruby",
	".php":   "PHP",
	".swift": "Swift",
	".kt":    "Kotlin",
	".kts":   "Kotlin",
	".scala": "Scala",
	".sh":    "Shell",
	".bash":  "Shell",
	".zsh":   "Shell",
	".sql":   "SQL",
	".html":  "HTML",
	".htm":   "HTML",
	".css":   "CSS",
	".scss":  "CSS",
	".sass":  "CSS",
	".less":  "CSS",
	".yaml":  "YAML",
	".yml":   "YAML",
	".json":  "JSON",
	".md":    "Markdown",
	".lua":   "Lua",
	".r":     "R",
	".jl":    "Julia",
	".ex":    "Elixir",
	".exs":   "Elixir",
	".hs":    "Haskell",
	".pl":    "Perl",
	".pm":    "Perl",
	".vue":   "Vue",
}

// filenameToLanguage maps specific filenames to language names.
var filenameToLanguage = map[string]string{
	"Dockerfile":  "Dockerfile",
	"Makefile":    "Makefile",
	"Gemfile":     "Ruby",
	"Rakefile":    "Ruby",
	"Vagrantfile": "Ruby",
}

// agFlags maps languages to ag's --<type> file filters.
var agFlags = map[string]string{
	"Go":         "--go",
	"Python":     "--python",
	"TypeScript": "--ts",
	"JavaScript": "--js",
	"Java":       "--java",
	"Rust":       "--rust",
	"C":          "--cc",
	"C++":        "--cpp",
	"C#":         "--csharp",
	"Ruby":       "--ruby",
	"PHP":        "--php",
	"Swift":      "--swift",
	"Kotlin":     "--kotlin",
	"Scala":      "--scala",
	"Shell":      "--shell",
	"SQL":        "--sql",
	"HTML":       "--html",
	"CSS":        "--css",
	"YAML":       "--yaml",
	"JSON":       "--json",
	"Markdown":   "--markdown",
	"Lua":        "--lua",
	"R":          "--r",
	"Julia":      "--julia",
	"Elixir":     "--elixir",
	"Haskell":    "--haskell",
	"Perl":       "--perl",
	"Vue":        "--vue",
	"Makefile":   "--make",
}

// markupLanguages only count towards the dominant language when nothing
// else is present.
var markupLanguages = map[string]bool{
	"HTML": true, "CSS": true, "YAML": true, "JSON": true, "Markdown": true,
}

// DetectLanguage returns the language of a file from its name, or
// "unknown".
func DetectLanguage(name string) string {
	base := path.Base(name)
	if lang, ok := filenameToLanguage[base]; ok {
		return lang
	}
	if lang, ok := extensionToLanguage[strings.ToLower(path.Ext(base))]; ok {
		return lang
	}
	return "unknown"
}

// DominantLanguage returns the most common programming language among
// paths. Markup languages are used only when no programming language is
// found. Ties go to the alphabetically first language. It returns "" for
// an empty or unrecognised set.
func DominantLanguage(paths []string) string {
	counts := map[string]int{}
	markup := map[string]int{}
	for _, p := range paths {
		lang := DetectLanguage(p)
		switch {
		case lang == "unknown":
		case markupLanguages[lang]:
			markup[lang]++
		default:
			counts[lang]++
		}
	}
	if len(counts) == 0 {
		counts = markup
	}

	langs := make([]string, 0, len(counts))
	for lang := range counts {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		if counts[langs[i]] != counts[langs[j]] {
			return counts[langs[i]] > counts[langs[j]]
		}
		return langs[i] < langs[j]
	})
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}

// AgFlag returns ag's file type flag for a language, or "" when ag has none.
func AgFlag(language string) string {
	return agFlags[language]
}
