package models

import (
	"html/template"
	"strings"
)

// TimestampLayout is the textual format captured at submission time.
const TimestampLayout = "2006-01-02 15:04:05"

// CSVHeader is the column layout of the persisted leads file, in order.
var CSVHeader = []string{"ID", "Name", "Email", "Phone", "Company", "Timestamp"}

// Lead is one captured contact record from the public form
type Lead struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"` // Optional, may be empty
	Timestamp string `json:"timestamp"`
}

// Record returns the lead as a CSV row matching CSVHeader
func (l Lead) Record() []string {
	return []string{l.ID, l.Name, l.Email, l.Phone, l.Company, l.Timestamp}
}

// LeadFromRecord rebuilds a Lead from a CSV row matching CSVHeader
func LeadFromRecord(record []string) Lead {
	return Lead{
		ID:        record[0],
		Name:      record[1],
		Email:     record[2],
		Phone:     record[3],
		Company:   record[4],
		Timestamp: record[5],
	}
}

// LeadForm holds the raw visitor input plus per-field validation errors,
// so a failed submission can be re-rendered with the typed values intact
type LeadForm struct {
	Name        string            `form:"name"`
	Email       string            `form:"email"`
	Phone       string            `form:"phone"`
	Company     string            `form:"company"`
	FieldErrors map[string]string `form:"-"`
}

// Validate performs the presence checks on the required fields.
// No format validation is applied beyond non-emptiness.
func (f *LeadForm) Validate() bool {
	f.FieldErrors = map[string]string{}
	if strings.TrimSpace(f.Name) == "" {
		f.FieldErrors["name"] = "Full name is required"
	}
	if strings.TrimSpace(f.Email) == "" {
		f.FieldErrors["email"] = "Email is required"
	}
	if strings.TrimSpace(f.Phone) == "" {
		f.FieldErrors["phone"] = "Phone number is required"
	}
	return len(f.FieldErrors) == 0
}

// LoginForm is what's sent from the admin login form
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// TemplateData is the base data structure for HTML templates
type TemplateData struct {
	Form       any           // To hold form data and errors (e.g., LeadForm)
	Flash      string        // Success/error messages
	Leads      []Lead        // Admin dashboard table rows
	LoggedIn   bool          // Whether the admin session is active
	CSRFField  template.HTML // Hidden CSRF input injected into every form
	Consent    template.HTML // Rendered consent notice (markdown)
	NextSteps  template.HTML // Rendered thank-you follow-up copy (markdown)
	GuideLabel string        // Download label for the gated guide
}
