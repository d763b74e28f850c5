// Package segment provides deterministic token-window text segmentation.
package segment

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// DefaultTargetTokens is the default window size in tokens.
const DefaultTargetTokens = 1000

// DefaultOverlapRatio is the default fraction of the window shared with
// the previous segment.
const DefaultOverlapRatio = 0.12

// Segment is a contiguous character range of the input text.
type Segment struct {
	// CharStart and CharEnd are half-open [start, end) offsets.
	CharStart int
	CharEnd   int

	// TokenCount is the number of tokens inside the range.
	TokenCount int
}

// Segmenter splits text into overlapping token windows with exact
// character offsets. It is deterministic: identical input always yields
// identical output, with no randomness and no I/O.
//
// A "token" is a maximal run of non-whitespace characters plus its
// trailing whitespace. This is an approximation for window sizing, not
// linguistic tokenization.
type Segmenter struct {
	targetTokens int
	overlapRatio float64
	step         int
}

// New creates a segmenter. targetTokens must be positive and
// overlapRatio must lie in [0, 1); anything else is rejected here so
// segmentation itself can never fail.
func New(targetTokens int, overlapRatio float64) (*Segmenter, error) {
	if targetTokens <= 0 {
		return nil, fmt.Errorf("%w: target tokens must be positive, got %d", domain.ErrInvalidConfig, targetTokens)
	}
	if overlapRatio < 0 || overlapRatio >= 1 {
		return nil, fmt.Errorf("%w: overlap ratio must be in [0, 1), got %g", domain.ErrInvalidConfig, overlapRatio)
	}

	step := int(math.Ceil(float64(targetTokens) * (1.0 - overlapRatio)))
	if step < 1 {
		step = 1
	}

	return &Segmenter{
		targetTokens: targetTokens,
		overlapRatio: overlapRatio,
		step:         step,
	}, nil
}

// TargetTokens returns the configured window size.
func (s *Segmenter) TargetTokens() int {
	return s.targetTokens
}

// OverlapRatio returns the configured overlap ratio.
func (s *Segmenter) OverlapRatio() float64 {
	return s.overlapRatio
}

// Segment splits text into overlapping windows of targetTokens tokens,
// advancing by step = ceil(targetTokens * (1 - overlapRatio)).
//
// Invariant: for nonempty text the union of the returned char ranges is
// exactly [0, len(text)). If the final window ends before the last
// token, an explicit trailing segment covers the remainder.
func (s *Segmenter) Segment(text string) []Segment {
	tokens := scanTokens(text)
	if len(tokens) == 0 {
		return nil
	}

	var segments []Segment
	for startIdx := 0; startIdx < len(tokens); startIdx += s.step {
		endIdx := startIdx + s.targetTokens
		if endIdx > len(tokens) {
			endIdx = len(tokens)
		}
		window := tokens[startIdx:endIdx]
		segments = append(segments, Segment{
			CharStart:  window[0].start,
			CharEnd:    window[len(window)-1].end,
			TokenCount: len(window),
		})
		if endIdx >= len(tokens) {
			break
		}
	}

	// Trailing remainder guard: the step can land the final window short
	// of the last token.
	lastEnd := tokens[len(tokens)-1].end
	if last := segments[len(segments)-1]; last.CharEnd < lastEnd {
		segments = append(segments, Segment{
			CharStart:  last.CharStart,
			CharEnd:    lastEnd,
			TokenCount: len(tokens),
		})
	}

	return segments
}

// token is a half-open character range covering a word plus its
// trailing whitespace.
type token struct {
	start int
	end   int
}

// scanTokens walks text once and emits token ranges whose union is
// exactly [0, len(text)): leading whitespace is folded into the first
// token and each token absorbs the whitespace that follows it.
func scanTokens(text string) []token {
	n := len(text)
	if n == 0 {
		return nil
	}

	var tokens []token
	i := 0
	for i < n {
		// Find the next word. Whitespace before it already belongs to
		// the previous token (or to the first token at the head).
		j := i
		for j < n {
			r, size := utf8.DecodeRuneInString(text[j:])
			if !unicode.IsSpace(r) {
				break
			}
			j += size
		}
		if j >= n {
			break
		}

		// Consume the word and its trailing whitespace.
		k := j
		for k < n {
			r, size := utf8.DecodeRuneInString(text[k:])
			if unicode.IsSpace(r) {
				break
			}
			k += size
		}
		for k < n {
			r, size := utf8.DecodeRuneInString(text[k:])
			if !unicode.IsSpace(r) {
				break
			}
			k += size
		}

		tokens = append(tokens, token{start: i, end: k})
		i = k
	}

	if len(tokens) == 0 {
		// Whitespace-only text is a single degenerate token so the
		// coverage invariant still holds.
		return []token{{start: 0, end: n}}
	}
	return tokens
}

// CharToLine returns the 1-indexed line number for a character offset.
func CharToLine(text string, index int) int {
	if index > len(text) {
		index = len(text)
	}
	if index < 0 {
		index = 0
	}
	return strings.Count(text[:index], "\n") + 1
}

// PageRange maps a page index to its half-open character range within
// the concatenated document text.
type PageRange struct {
	Page  int
	Start int
	End   int
}

// LocatePages returns the inclusive page span covering [start, end).
func LocatePages(ranges []PageRange, start, end int) (startPage, endPage int) {
	if len(ranges) == 0 {
		return 0, 0
	}
	startPage = ranges[0].Page
	endPage = ranges[len(ranges)-1].Page
	for _, pr := range ranges {
		if pr.Start <= start && start < pr.End {
			startPage = pr.Page
		}
		if pr.Start < end && end <= pr.End {
			endPage = pr.Page
		}
	}
	if endPage < startPage {
		endPage = startPage
	}
	return startPage, endPage
}
