package usecase

import "testing"

func TestNormalizeTeamName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "lowercase and trim", raw: "  CN Sabadell  ", want: "sabadell"},
		{name: "diacritics stripped", raw: "Club Natació Atlètic-Barceloneta", want: "atletic barceloneta"},
		{name: "punctuation collapsed", raw: "W.P. Navarra", want: "w p navarra"},
		{name: "organizational suffix dropped", raw: "Barcelona CN", want: "barcelona"},
		{name: "all stop tokens kept verbatim", raw: "CN Club", want: "cn club"},
		{name: "empty", raw: "   ", want: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeTeamName(tc.raw); got != tc.want {
				t.Fatalf("NormalizeTeamName(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestTeamSimilarity_ExactAfterNormalization(t *testing.T) {
	t.Parallel()

	if got := TeamSimilarity("CN Barcelona", "Barcelona CN"); got != 100 {
		t.Fatalf("expected 100 for reordered club name, got %d", got)
	}
	if got := TeamSimilarity("Club Natació Sabadell", "CN SABADELL"); got != 100 {
		t.Fatalf("expected 100 across spelling variants, got %d", got)
	}
}

func TestTeamSimilarity_PartialAndUnrelated(t *testing.T) {
	t.Parallel()

	if got := TeamSimilarity("CN Terrassa", "CN Terassa"); got < 80 {
		t.Fatalf("expected high score for a one-letter typo, got %d", got)
	}
	if got := TeamSimilarity("Pro Recco", "Olympiacos"); got >= 40 {
		t.Fatalf("expected unrelated clubs below the similarity floor, got %d", got)
	}
	if got := TeamSimilarity("", "CN Sabadell"); got != 0 {
		t.Fatalf("expected 0 for empty name, got %d", got)
	}
}

func TestTeamSimilarity_SharedTokens(t *testing.T) {
	t.Parallel()

	got := TeamSimilarity("CN Sant Andreu", "Sant Andreu Waterpolo")
	if got != 100 {
		t.Fatalf("expected identical token sets to score 100, got %d", got)
	}
}
