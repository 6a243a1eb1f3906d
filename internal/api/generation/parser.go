package generation

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/kazantrip/routegen/internal/types"
)

// Name matching thresholds. Substring matches need half the longer name
// covered; anything looser falls through to edit distance.
const (
	minSubstringRatio   = 0.5
	minLevenshteinRatio = 0.8
)

// parseSuggestions extracts an ordered list of attraction names from a
// raw model response. The JSON contract is tried first (tolerating
// markdown fences and surrounding prose); bullet or numbered lines are
// the fallback for models that ignore the format instructions.
func parseSuggestions(raw string, maxSuggestions int) []string {
	if names := parseSuggestionJSON(raw); len(names) > 0 {
		return capNames(names, maxSuggestions)
	}
	return capNames(parseSuggestionLines(raw), maxSuggestions)
}

func parseSuggestionJSON(raw string) []string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	open := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if open < 0 || end <= open {
		return nil
	}

	var payload struct {
		Attractions []struct {
			Name string `json:"name"`
		} `json:"attractions"`
	}
	if err := json.Unmarshal([]byte(cleaned[open:end+1]), &payload); err != nil {
		return nil
	}

	names := make([]string, 0, len(payload.Attractions))
	for _, a := range payload.Attractions {
		if name := strings.TrimSpace(a.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func parseSuggestionLines(raw string) []string {
	var names []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if name := stripListMarker(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func stripListMarker(line string) string {
	switch {
	case strings.HasPrefix(line, "- "):
		return strings.TrimSpace(line[2:])
	case strings.HasPrefix(line, "* "):
		return strings.TrimSpace(line[2:])
	}
	// Numbered entries like "3. Kremlin".
	i := 0
	for i < len(line) && unicode.IsDigit(rune(line[i])) {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:])
	}
	return ""
}

func capNames(names []string, max int) []string {
	if len(names) > max {
		return names[:max]
	}
	return names
}

// resolution is the outcome of matching suggested names to the pool.
type resolution struct {
	matched []types.Attraction
	// dropped counts suggestions with no reasonable match; any drop sets
	// the route's fallback flag.
	dropped int
}

// resolveNames maps each suggested name to its attraction record:
// case-insensitive exact match, then substring containment with a length
// ratio of at least 0.5, then normalized Levenshtein similarity of at
// least 0.8. Unresolved names are dropped, not errors. Duplicate matches
// resolve to a single stop.
func resolveNames(names []string, pool []types.Attraction) resolution {
	var res resolution
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		match, ok := matchName(name, pool)
		if !ok {
			res.dropped++
			continue
		}
		if _, dup := seen[match.ID.String()]; dup {
			continue
		}
		seen[match.ID.String()] = struct{}{}
		res.matched = append(res.matched, match)
	}
	return res
}

func matchName(name string, pool []types.Attraction) (types.Attraction, bool) {
	folded := strings.ToLower(strings.TrimSpace(name))
	if folded == "" {
		return types.Attraction{}, false
	}

	for _, a := range pool {
		if strings.ToLower(a.Name) == folded {
			return a, true
		}
	}

	best := -1
	bestScore := 0.0
	for i, a := range pool {
		if s := substringScore(folded, strings.ToLower(a.Name)); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best >= 0 && bestScore >= minSubstringRatio {
		return pool[best], true
	}

	best = -1
	bestScore = 0.0
	for i, a := range pool {
		if s := levenshteinSimilarity(folded, strings.ToLower(a.Name)); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best >= 0 && bestScore >= minLevenshteinRatio {
		return pool[best], true
	}
	return types.Attraction{}, false
}

// substringScore rates containment by the share of the longer string the
// shorter one covers, 0 when neither contains the other.
func substringScore(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	switch {
	case strings.Contains(b, a):
		return float64(len(a)) / float64(len(b))
	case strings.Contains(a, b):
		return float64(len(b)) / float64(len(a))
	}
	return 0
}

func levenshteinSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein computes edit distance with a rolling single-row table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min3(row[j]+1, row[j-1]+1, prev+cost)
			prev = row[j]
			row[j] = next
		}
	}
	return row[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
