package extract

import "testing"

func TestCleanup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hyphenation", "educa-\ntion policy", "education policy"},
		{"hyphen keeps real dashes", "well-known fact", "well-known fact"},
		{"unicode word break", "na\u00efve-\nt\u00e9s", "na\u00efvet\u00e9s"},
		{"ligatures", "\ufb01nal \ufb02ight", "final flight"},
		{"guillemets", "«quote» ‹inner›", `"quote" 'inner'`},
		{"carets", "x^^2", "x^2"},
		{"spaces and tabs", "a  \t b", "a b"},
		{"line endings", "a\r\nb\rc", "a\nb\nc"},
		{"blank lines", "a\n\n\n\nb", "a\n\nb"},
		{"nfc", "caf" + "e\u0301", "caf\u00e9"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Cleanup(tc.in); got != tc.want {
				t.Fatalf("Cleanup(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanupIsIdempotent(t *testing.T) {
	in := "The pro-\ngram «began»\r\n\r\n\r\n\ufb01ne   print"
	once := Cleanup(in)
	if twice := Cleanup(once); twice != once {
		t.Fatalf("expected idempotent cleanup, got %q then %q", once, twice)
	}
}
