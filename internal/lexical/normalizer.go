// Package lexical produces canonical token-set representations of text
// for keyword overlap scoring. It is the sparse half of hybrid
// retrieval: chunks store a fingerprint at ingestion time and queries
// are normalized with the same rules at search time.
package lexical

import (
	"regexp"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the normalizer's memoization cache.
const DefaultCacheSize = 4096

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9_]+`)

// Normalizer converts text into a deduplicated, order-independent set
// of lowercase alphanumeric/underscore tokens. Results for repeated
// inputs are served from an explicit bounded LRU cache.
type Normalizer struct {
	cache *lru.Cache[string, []string]
}

// New creates a normalizer with a cache of the given size.
// A non-positive size uses DefaultCacheSize.
func New(cacheSize int) *Normalizer {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	// lru.New only fails for non-positive sizes, which are filtered above.
	cache, _ := lru.New[string, []string](cacheSize)
	return &Normalizer{cache: cache}
}

// Normalize returns the sorted, deduplicated token set of text.
// Callers must not mutate the returned slice; it may be shared with
// the cache.
func (n *Normalizer) Normalize(text string) []string {
	if cached, ok := n.cache.Get(text); ok {
		return cached
	}

	matches := tokenPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		lowered := strings.ToLower(m)
		if _, dup := seen[lowered]; dup {
			continue
		}
		seen[lowered] = struct{}{}
		tokens = append(tokens, lowered)
	}
	sort.Strings(tokens)

	n.cache.Add(text, tokens)
	return tokens
}

// Fingerprint returns the space-joined normalized token set, the form
// stored per chunk for overlap scoring.
func (n *Normalizer) Fingerprint(text string) string {
	return strings.Join(n.Normalize(text), " ")
}

// CountOverlap returns the number of terms present in the fingerprint's
// token set.
func CountOverlap(fingerprint string, terms []string) int {
	if fingerprint == "" || len(terms) == 0 {
		return 0
	}
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(fingerprint) {
		set[tok] = struct{}{}
	}
	hits := 0
	for _, term := range terms {
		if _, ok := set[strings.ToLower(term)]; ok {
			hits++
		}
	}
	return hits
}
