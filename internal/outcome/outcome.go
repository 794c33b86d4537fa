// Package outcome defines the canonical contact outcome vocabulary and the
// mappings to the legacy string sets that older schema revisions persisted.
// Everything else in the codebase works with the canonical values; only the
// edges (repositories, classifier responses) translate.
package outcome

import "strings"

// Outcome is a contact's derived sales-pipeline classification.
type Outcome string

const (
	Hot  Outcome = "HOT"
	Warm Outcome = "WARM"
	Cold Outcome = "COLD"
	Lost Outcome = "LOST"
)

// FromScore derives the canonical outcome from a minutes score.
// Thresholds: score > 75 is Hot, score > 40 is Warm, otherwise Cold.
func FromScore(score float64) Outcome {
	switch {
	case score > 75:
		return Hot
	case score > 40:
		return Warm
	default:
		return Cold
	}
}

// Valid reports whether o is a member of the canonical set. The contacts
// table carries a constrained status column; values outside this set are
// written to the free-text outcome field only.
func (o Outcome) Valid() bool {
	switch o {
	case Hot, Warm, Cold, Lost:
		return true
	}
	return false
}

// Positive reports whether the outcome counts toward positive funnel
// outcomes. The legacy "WON" value maps to Hot before this check.
func (o Outcome) Positive() bool {
	return o == Hot
}

// Qualified reports whether the outcome counts a contact as a qualified
// lead for conversion-rate purposes.
func (o Outcome) Qualified() bool {
	return o == Hot || o == Warm
}

// legacy maps every string the drifted schema revisions ever stored to the
// canonical outcome. Keys are upper-cased before lookup.
var legacy = map[string]Outcome{
	"HOT":        Hot,
	"WON":        Hot,
	"CONVERSION": Hot,
	"WARM":       Warm,
	"QUALIFIED":  Warm,
	"COLD":       Cold,
	"LOST":       Lost,
}

// Parse maps a stored or classifier-produced outcome string to the
// canonical value. The second return is false for unknown vocabulary.
func Parse(raw string) (Outcome, bool) {
	o, ok := legacy[strings.ToUpper(strings.TrimSpace(raw))]
	return o, ok
}

// scanning maps canonical outcomes to the vocabulary the scanned-contacts
// revision of the schema expects in its free-text outcome column.
var scanning = map[Outcome]string{
	Hot:  "Conversion",
	Warm: "Qualified",
	Cold: "Cold",
	Lost: "Lost",
}

// ScanningLabel returns the legacy scanned-contacts representation of o.
func (o Outcome) ScanningLabel() string {
	if label, ok := scanning[o]; ok {
		return label
	}
	return string(o)
}
