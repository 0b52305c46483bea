package segment

import "regexp"

// boundary matches an ASCII terminator followed by whitespace. The split
// happens right after the terminator, which stays with its sentence.
var boundary = regexp.MustCompile(`[.!?]\s+`)

func splitGeneric(text string) []string {
	var out []string
	start := 0
	for _, loc := range boundary.FindAllStringIndex(text, -1) {
		end := loc[0] + 1
		out = append(out, text[start:end])
		start = loc[1]
	}
	return append(out, text[start:])
}
