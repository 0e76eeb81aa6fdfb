package followups

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dentalops/leadflow/internal/leads"
)

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	lead := &leads.Lead{FirstName: "Maria", LastName: "Chen", Email: "maria@example.com"}
	vars := Vars(lead, "BrightSmile Dental")

	got := Render("Hi {{first_name}}, welcome to {{clinic_name}}!", vars)
	assert.Equal(t, "Hi Maria, welcome to BrightSmile Dental!", got)
}

func TestRenderFullName(t *testing.T) {
	vars := Vars(&leads.Lead{FirstName: "Maria", LastName: "Chen"}, "")
	assert.Equal(t, "Maria Chen", Render("{{full_name}}", vars))
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	vars := Vars(&leads.Lead{FirstName: "Maria"}, "")
	got := Render("Hi {{first_nmae}}", vars)
	assert.Equal(t, "Hi {{first_nmae}}", got, "typos must stay visible")
}

func TestRenderPlainTextUntouched(t *testing.T) {
	assert.Equal(t, "no placeholders here", Render("no placeholders here", nil))
}
