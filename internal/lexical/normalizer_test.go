package lexical

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_LowercasesAndDeduplicates(t *testing.T) {
	n := New(0)

	tokens := n.Normalize("Hello, hello WORLD! snake_case 42 world")
	assert.Equal(t, []string{"42", "hello", "snake_case", "world"}, tokens)
}

func TestNormalize_StripsNonAlnum(t *testing.T) {
	n := New(0)

	tokens := n.Normalize("rate: $19.99/kg (net)")
	assert.Equal(t, []string{"19", "99", "kg", "net", "rate"}, tokens)
}

func TestNormalize_EmptyText(t *testing.T) {
	n := New(0)

	assert.Empty(t, n.Normalize(""))
	assert.Empty(t, n.Normalize("   \t\n"))
	assert.Empty(t, n.Normalize("!!! ---"))
}

func TestNormalize_CacheBounded(t *testing.T) {
	n := New(8)

	for i := 0; i < 100; i++ {
		n.Normalize(fmt.Sprintf("text number %d", i))
	}
	// Repeated input still normalizes correctly after heavy eviction.
	assert.Equal(t, []string{"5", "number", "text"}, n.Normalize("text number 5"))
}

func TestFingerprint_Stable(t *testing.T) {
	n := New(0)

	a := n.Fingerprint("shipping rates for zone two")
	b := n.Fingerprint("two zone for rates shipping")
	assert.Equal(t, a, b, "fingerprint is order-independent")
	assert.Equal(t, "for rates shipping two zone", a)
}

func TestCountOverlap(t *testing.T) {
	n := New(0)
	fp := n.Fingerprint("The FedEx ground rate applies to zone two")

	assert.Equal(t, 2, CountOverlap(fp, []string{"rate", "zone", "absent"}))
	assert.Equal(t, 0, CountOverlap(fp, nil))
	assert.Equal(t, 0, CountOverlap("", []string{"rate"}))
	// Duplicate query terms each count once per occurrence in terms.
	assert.Equal(t, 2, CountOverlap(fp, []string{"rate", "rate"}))
}
