package outcome

import "testing"

func TestFromScore_Thresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  Outcome
	}{
		{0, Cold},
		{40, Cold},
		{40.5, Warm},
		{75, Warm},
		{75.5, Hot},
		{100, Hot},
	}

	for _, tc := range cases {
		if got := FromScore(tc.score); got != tc.want {
			t.Fatalf("FromScore(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestParse_LegacyVocabularies(t *testing.T) {
	cases := map[string]Outcome{
		"HOT":        Hot,
		"won":        Hot,
		"Conversion": Hot,
		"Qualified":  Warm,
		"WARM":       Warm,
		"cold":       Cold,
		"LOST":       Lost,
	}

	for raw, want := range cases {
		got, ok := Parse(raw)
		if !ok {
			t.Fatalf("Parse(%q) not recognized", raw)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %s, want %s", raw, got, want)
		}
	}

	if _, ok := Parse("Churned"); ok {
		t.Fatalf("expected unknown vocabulary to be rejected")
	}
}

func TestScanningLabel(t *testing.T) {
	if Hot.ScanningLabel() != "Conversion" {
		t.Fatalf("expected Hot to map to Conversion, got %q", Hot.ScanningLabel())
	}
	if Warm.ScanningLabel() != "Qualified" {
		t.Fatalf("expected Warm to map to Qualified, got %q", Warm.ScanningLabel())
	}
}

func TestPositiveAndQualified(t *testing.T) {
	if !Hot.Positive() || Warm.Positive() {
		t.Fatalf("only Hot should be positive")
	}
	if !Hot.Qualified() || !Warm.Qualified() || Cold.Qualified() || Lost.Qualified() {
		t.Fatalf("qualified set should be exactly {Hot, Warm}")
	}
}
