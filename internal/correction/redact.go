package correction

import (
	"regexp"
	"sort"
	"strings"
)

var sqlFence = regexp.MustCompile("(?is)```\\s*sql\\b.*?```")

// Redact removes fenced SQL blocks and every known query text from answer.
func Redact(answer string, queries []string) string {
	out := sqlFence.ReplaceAllString(answer, "")

	sorted := append([]string(nil), queries...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for _, q := range sorted {
		if q = strings.TrimSpace(q); q != "" {
			out = strings.ReplaceAll(out, q, "")
		}
	}
	return strings.TrimSpace(out)
}
