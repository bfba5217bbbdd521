package usecase

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Organizational tokens that vary by source but never by identity: club
// prefixes ("CN Barcelona" vs "Barcelona CN"), sponsor glue words and sport
// qualifiers. Dropped before comparison. Diacritics are stripped first, so
// "natació" is listed in its bare form.
var teamNameStopTokens = map[string]struct{}{
	"cn":        {},
	"club":      {},
	"natacio":   {},
	"ce":        {},
	"cd":        {},
	"ad":        {},
	"cf":        {},
	"fc":        {},
	"wp":        {},
	"waterpolo": {},
	"de":        {},
}

// NormalizeTeamName canonicalizes a scraped team name: diacritics stripped,
// lower-cased, punctuation collapsed to spaces, organizational tokens removed.
// Two spellings of the same club from different sources normalize to the same
// string in the common case.
func NormalizeTeamName(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}

	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripper, value); err == nil {
		value = stripped
	}

	var builder strings.Builder
	lastSpace := false
	for _, r := range value {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			builder.WriteByte(' ')
			lastSpace = true
		}
	}

	tokens := strings.Fields(builder.String())
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, drop := teamNameStopTokens[token]; drop {
			continue
		}
		kept = append(kept, token)
	}
	if len(kept) == 0 {
		// A name made entirely of organizational tokens keeps them, otherwise
		// it would collapse to the empty string and match nothing.
		kept = tokens
	}

	return strings.Join(kept, " ")
}

// TeamSimilarity scores two raw team names in [0,100]. Names that are equal
// after normalization score 100. Everything else takes the better of a
// token-set overlap and a normalized edit-distance ratio, so both
// reorderings ("Barcelona CN" vs "CN Barcelona") and small misspellings
// score high without letting unrelated clubs through.
func TeamSimilarity(a, b string) int {
	left := NormalizeTeamName(a)
	right := NormalizeTeamName(b)
	if left == "" || right == "" {
		return 0
	}
	if left == right {
		return 100
	}

	tokenScore := tokenSetOverlap(left, right)
	editScore := editDistanceRatio(left, right)
	if tokenScore > editScore {
		return tokenScore
	}
	return editScore
}

func tokenSetOverlap(left, right string) int {
	leftTokens := strings.Fields(left)
	rightTokens := strings.Fields(right)
	if len(leftTokens) == 0 || len(rightTokens) == 0 {
		return 0
	}

	seen := make(map[string]struct{}, len(leftTokens))
	for _, token := range leftTokens {
		seen[token] = struct{}{}
	}

	shared := 0
	counted := make(map[string]struct{}, len(rightTokens))
	for _, token := range rightTokens {
		if _, ok := seen[token]; !ok {
			continue
		}
		if _, dup := counted[token]; dup {
			continue
		}
		counted[token] = struct{}{}
		shared++
	}

	return (2 * shared * 100) / (len(leftTokens) + len(rightTokens))
}

func editDistanceRatio(left, right string) int {
	longest := len([]rune(left))
	if l := len([]rune(right)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}

	distance := levenshtein.ComputeDistance(left, right)
	if distance >= longest {
		return 0
	}
	return ((longest - distance) * 100) / longest
}
