package workout

import "strings"

// Phase is one ordered stage within a session.
type Phase string

const (
	PhaseStretch Phase = "stretch"
	PhaseMain    Phase = "main"
	PhaseCardio  Phase = "cardio"
	PhaseDone    Phase = "done"
)

// StretchGroup is the catalog group supplying every session's warm-up phase,
// independent of the session's target group.
const StretchGroup = "stretch"

// CardioSuffix extends a history record's group label when the optional
// cardio phase was taken.
const CardioSuffix = " + Cardio"

// strengthGroups are the programs that offer the optional cardio extension
// after the main phase. Matching is case-insensitive.
var strengthGroups = map[string]bool{
	"falcon":       true,
	"deep horizon": true,
	"challenger":   true,
	"trident":      true,
}

// IsStrengthGroup reports whether a group is one of the fixed strength
// programs eligible for the cardio extension.
func IsStrengthGroup(group string) bool {
	return strengthGroups[strings.ToLower(group)]
}
