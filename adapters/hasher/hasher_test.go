package hasher_test

import (
	"testing"

	"github.com/artpar/judegen/adapters/hasher"
)

func TestBlake2b_Sum(t *testing.T) {
	h := hasher.Blake2b{}

	a := h.Sum([]byte("Object Person: {}"))
	b := h.Sum([]byte("Object Person: {}"))
	c := h.Sum([]byte("Object People: {}"))

	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
	if a != b {
		t.Error("equal content should have equal digests")
	}
	if a == c {
		t.Error("different content should have different digests")
	}
}

func TestBlake2b_Empty(t *testing.T) {
	// BLAKE2b-256 of the empty input.
	const want = "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"
	if got := (hasher.Blake2b{}).Sum(nil); got != want {
		t.Errorf("Sum(nil) = %s, want %s", got, want)
	}
}
