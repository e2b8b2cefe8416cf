package team

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalTokens are club-form words that never distinguish two clubs.
var legalTokens = map[string]struct{}{
	"sad":  {},
	"sa":   {},
	"fc":   {},
	"cf":   {},
	"cd":   {},
	"ud":   {},
	"sd":   {},
	"rcd":  {},
	"rc":   {},
	"ca":   {},
	"club": {},
}

// Normalizer maps raw team spellings to one canonical name per club.
// It is safe for concurrent use once built.
type Normalizer struct {
	byKey map[string]string
}

// NewNormalizer builds a normalizer from alias -> canonical pairs. Every
// canonical name also resolves to itself. Two spellings that fold to the same
// lookup key but point at different canonicals are rejected.
func NewNormalizer(aliases map[string]string) (*Normalizer, error) {
	n := &Normalizer{byKey: make(map[string]string, len(aliases)*2)}

	// Sorted so the reported conflict does not depend on map order.
	raws := make([]string, 0, len(aliases))
	for raw := range aliases {
		raws = append(raws, raw)
	}
	sort.Strings(raws)

	for _, raw := range raws {
		canonical := strings.TrimSpace(aliases[raw])
		if canonical == "" {
			return nil, fmt.Errorf("alias %q has an empty canonical name", raw)
		}
		if err := n.register(canonical, canonical); err != nil {
			return nil, err
		}
		if err := n.register(raw, canonical); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// MustNewNormalizer is NewNormalizer for static tables.
func MustNewNormalizer(aliases map[string]string) *Normalizer {
	n, err := NewNormalizer(aliases)
	if err != nil {
		panic(err)
	}
	return n
}

// DefaultNormalizer covers the La Liga spellings used by football-data.co.uk,
// the football-data.org API and the stats scraper.
func DefaultNormalizer() *Normalizer {
	return MustNewNormalizer(DefaultAliases())
}

func (n *Normalizer) register(raw, canonical string) error {
	key := lookupKey(raw)
	if key == "" {
		return fmt.Errorf("alias %q folds to an empty key", raw)
	}
	if existing, ok := n.byKey[key]; ok && existing != canonical {
		return fmt.Errorf("alias %q maps to %q but its key %q already maps to %q", raw, canonical, key, existing)
	}
	n.byKey[key] = canonical
	return nil
}

// Normalize returns the canonical name for raw, or raw trimmed when the
// spelling is unknown. Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if n == nil || trimmed == "" {
		return trimmed
	}
	if canonical, ok := n.byKey[lookupKey(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Known reports whether raw resolves through the alias table.
func (n *Normalizer) Known(raw string) bool {
	if n == nil {
		return false
	}
	_, ok := n.byKey[lookupKey(raw)]
	return ok
}

// Canonicals lists every canonical name, sorted.
func (n *Normalizer) Canonicals() []string {
	if n == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(n.byKey))
	out := make([]string, 0, len(n.byKey))
	for _, canonical := range n.byKey {
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// lookupKey folds case and accents, drops punctuation, legal-entity tokens
// and a trailing scraper ordinal ("Girona 2").
func lookupKey(raw string) string {
	folded, _, err := transform.String(foldAccents, raw)
	if err != nil {
		folded = raw
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == '.' || r == '\'':
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	if len(fields) > 1 && isDigits(fields[len(fields)-1]) {
		fields = fields[:len(fields)-1]
	}

	kept := fields[:0]
	for _, f := range fields {
		if _, drop := legalTokens[f]; drop {
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		// A name made only of legal tokens ("CF") keeps them.
		return strings.Join(fields, " ")
	}
	return strings.Join(kept, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
