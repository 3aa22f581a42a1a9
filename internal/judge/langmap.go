package judge

// judgeLangTokens translates local language slugs into the tokens the judge
// expects. Unknown slugs pass through unchanged, which lets new judge
// languages work without a client update.
var judgeLangTokens = map[string]string{
	"go":         "golang",
	"python":     "python3",
	"python3":    "python3",
	"js":         "javascript",
	"javascript": "javascript",
	"ts":         "typescript",
	"typescript": "typescript",
	"c++":        "cpp",
	"cpp":        "cpp",
	"c#":         "csharp",
	"csharp":     "csharp",
	"rb":         "ruby",
	"ruby":       "ruby",
	"rs":         "rust",
	"rust":       "rust",
	"kt":         "kotlin",
	"kotlin":     "kotlin",
}

// JudgeLang returns the judge-specific language token for a local slug.
func JudgeLang(slug string) string {
	if token, ok := judgeLangTokens[slug]; ok {
		return token
	}
	return slug
}

// solutionExtensions maps judge language tokens to local file extensions,
// used when generating solution files from fetched snippets.
var solutionExtensions = map[string]string{
	"golang":     "go",
	"python3":    "py",
	"python":     "py",
	"javascript": "js",
	"typescript": "ts",
	"cpp":        "cpp",
	"c":          "c",
	"java":       "java",
	"csharp":     "cs",
	"ruby":       "rb",
	"rust":       "rs",
	"kotlin":     "kt",
	"swift":      "swift",
	"scala":      "scala",
	"php":        "php",
}

// SolutionExtension returns the local file extension for a judge language
// token, falling back to the token itself.
func SolutionExtension(lang string) string {
	if ext, ok := solutionExtensions[lang]; ok {
		return ext
	}
	return lang
}
