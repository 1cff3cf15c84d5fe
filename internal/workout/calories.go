package workout

import "strings"

// Activity classifies a workout label for the health-data sink. Categories
// mirror the calorie table's rate classes.
type Activity string

const (
	ActivityMixedCardio        Activity = "mixed_cardio"
	ActivityElliptical         Activity = "elliptical"
	ActivityStrengthTraining   Activity = "traditional_strength_training"
	ActivityFunctionalStrength Activity = "functional_strength_training"
	ActivityFlexibility        Activity = "flexibility"
	ActivityOther              Activity = "other"
)

// EstimateCalories maps a finalized group label and duration to estimated
// kilocalories via a fixed per-minute rate table.
//
// Rule order matters: a composite label such as "Falcon + Cardio" contains
// "cardio" and therefore takes the cardio rate for the whole duration, even
// though "falcon" alone is a strength group.
func EstimateCalories(groupLabel string, durationSeconds int) float64 {
	return ratePerMinute(groupLabel) * float64(durationSeconds) / 60.0
}

func ratePerMinute(groupLabel string) float64 {
	label := strings.ToLower(groupLabel)

	switch {
	case strings.Contains(label, "cardio"):
		return 10.0
	case label == "elliptical":
		return 9.0
	case strengthGroups[label]:
		return 8.0
	case label == "calisthenics":
		return 6.0
	case label == "stretch":
		return 2.5
	default:
		return 5.0
	}
}

// ActivityFor classifies a group label into a health-sink activity category
// using the same rules (and the same ordering) as the calorie table.
func ActivityFor(groupLabel string) Activity {
	label := strings.ToLower(groupLabel)

	switch {
	case strings.Contains(label, "cardio"):
		return ActivityMixedCardio
	case label == "elliptical":
		return ActivityElliptical
	case strengthGroups[label]:
		return ActivityStrengthTraining
	case label == "calisthenics":
		return ActivityFunctionalStrength
	case label == "stretch":
		return ActivityFlexibility
	default:
		return ActivityOther
	}
}
