package convert

import "testing"

func TestCollisionResolver_DistinctInputsSameOutput(t *testing.T) {
	cr := newCollisionResolver()

	tests := []struct {
		input     string
		requested string
		expected  string
	}{
		{"take.wav", "take.flac", "take.flac"},
		{"take.mp3", "take.flac", "take (1).flac"},
		{"take.aiff", "take.flac", "take (2).flac"},
		{"other.wav", "other.flac", "other.flac"},
	}

	for _, test := range tests {
		result := cr.resolve(test.input, test.requested)
		if result != test.expected {
			t.Errorf("resolve(%s, %s) = %s, expected %s", test.input, test.requested, result, test.expected)
		}
	}
}

func TestCollisionResolver_SameInputIsStable(t *testing.T) {
	cr := newCollisionResolver()

	first := cr.resolve("take.wav", "take.flac")
	second := cr.resolve("take.wav", "take.flac")

	if first != second {
		t.Errorf("resolve returned %s then %s for the same input, expected stable names", first, second)
	}
}
