package followups

import (
	"strings"

	"github.com/dentalops/leadflow/internal/leads"
)

// Vars builds the placeholder substitutions available to template
// content for a given lead.
func Vars(lead *leads.Lead, clinicName string) map[string]string {
	return map[string]string{
		"first_name":  lead.FirstName,
		"last_name":   lead.LastName,
		"full_name":   strings.TrimSpace(lead.FirstName + " " + lead.LastName),
		"email":       lead.Email,
		"phone":       lead.Phone,
		"insurance":   lead.Insurance,
		"urgency":     lead.Urgency,
		"clinic_name": clinicName,
	}
}

// Render substitutes {{name}} placeholders in s. Placeholders with no
// matching variable are left intact so a typo in a template is visible
// in the delivered message rather than silently erased.
func Render(s string, vars map[string]string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
