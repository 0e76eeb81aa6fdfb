package leads

import "strings"

const (
	// TagUrgent marks a lead that needs same-day triage.
	TagUrgent = "urgent"
	// TagVerifyInsurance marks a lead whose coverage must be checked
	// before booking.
	TagVerifyInsurance = "verify_insurance"
)

const painSymptom = "Pain/Discomfort"

// BuildTags derives triage tags from the intake fields. Pure function:
// painful symptoms or a same-day urgency produce "urgent"; missing or
// Self-Pay insurance produces "verify_insurance". Order is fixed,
// urgent first. The result is comma-joined for the form payload.
func BuildTags(symptoms []string, urgency, insurance string) string {
	var tags []string
	if containsSymptom(symptoms, painSymptom) || urgency == "Today" {
		tags = append(tags, TagUrgent)
	}
	if insurance == "" || insurance == "Self-Pay" {
		tags = append(tags, TagVerifyInsurance)
	}
	return strings.Join(tags, ",")
}

func containsSymptom(symptoms []string, want string) bool {
	for _, s := range symptoms {
		if s == want {
			return true
		}
	}
	return false
}
