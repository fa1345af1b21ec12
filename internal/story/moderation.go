package story

import "strings"

// bannedWords is matched as a plain case-insensitive substring, without word boundaries.
var bannedWords = []string{
	"mierda", "puto", "puta", "maricón", "marica",
}

var htmlEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func ContainsBannedWords(content string) bool {
	lower := strings.ToLower(content)
	for _, w := range bannedWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Sanitize trims the content and escapes the characters the map popup would render as markup.
func Sanitize(content string) string {
	return htmlEscaper.Replace(strings.TrimSpace(content))
}
