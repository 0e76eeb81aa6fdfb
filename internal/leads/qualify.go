package leads

import "strings"

// Qualification score thresholds. Scores start at a neutral base and
// move with urgency, symptoms, coverage and financing interest.
const (
	scoreBase          = 50
	qualifiedThreshold = 70
	nurtureThreshold   = 40
)

// Qualification is the engine's verdict for a submission.
type Qualification struct {
	Status  QualificationStatus
	Score   int
	Reasons []string
}

// Qualify scores an intake submission and assigns a status. The reasons
// list is ordered by evaluation: urgency, symptoms, insurance, financing.
func Qualify(f *IntakeForm) Qualification {
	score := scoreBase
	var reasons []string

	switch f.Urgency {
	case "Today":
		score += 20
		reasons = append(reasons, "wants treatment today")
	case "This Week":
		score += 10
		reasons = append(reasons, "wants treatment this week")
	}

	if containsSymptom(f.Symptoms, painSymptom) || hasEmergencySymptom(f.Symptoms) {
		score += 10
		reasons = append(reasons, "reports pain or emergency symptoms")
	}

	switch {
	case f.Insurance == "" || f.Insurance == "Self-Pay":
		score -= 10
		reasons = append(reasons, "no insurance on file")
	default:
		score += 15
		reasons = append(reasons, "insured with "+f.Insurance)
	}

	if strings.EqualFold(f.Financing, "Yes") {
		score += 5
		reasons = append(reasons, "interested in financing")
	}

	status := StatusDisqualified
	switch {
	case score >= qualifiedThreshold:
		status = StatusQualified
	case score >= nurtureThreshold:
		status = StatusNurture
	}

	return Qualification{Status: status, Score: score, Reasons: reasons}
}

func hasEmergencySymptom(symptoms []string) bool {
	for _, s := range symptoms {
		if strings.HasPrefix(s, "Emergency") {
			return true
		}
	}
	return false
}
