package helpers

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE/ILIKE metacharacters so s matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// SplitList splits a comma separated query value, dropping blanks.
func SplitList(values ...string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
