package main

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stirlingqr/leadgate/internal/models"
)

func TestHomeShowsLeadForm(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app)

	status, _, body := ts.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Download Our Quality Assurance Recruitment Guide")
	assert.Contains(t, body, `name="name"`)
	assert.Contains(t, body, "Admin Login")
}

func TestHomeUnknownPath(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app)

	status, _, _ := ts.get(t, "/nope")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSubmitThenThankYou(t *testing.T) {
	app, repo := newTestApplication(t)
	ts := newTestServer(t, app)

	status, header, _ := ts.postForm(t, "/submit", url.Values{
		"name":    {"Jane Doe"},
		"email":   {"jane@x.com"},
		"phone":   {"555-1234"},
		"company": {""},
	})
	require.Equal(t, http.StatusSeeOther, status)
	require.Equal(t, "/", header.Get("Location"))

	// The same session now lands on the thank-you view, not the form
	status, _, body := ts.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Download Complete!")
	assert.NotContains(t, body, `name="phone"`)

	leads, appErr := repo.ListAll()
	require.Nil(t, appErr)
	require.Len(t, leads, 1)
	assert.Equal(t, "Jane Doe", leads[0].Name)
	assert.Empty(t, leads[0].Company)
	_, err := time.ParseInLocation(models.TimestampLayout, leads[0].Timestamp, time.Local)
	assert.NoError(t, err)
}

func TestSubmitValidationFailure(t *testing.T) {
	app, repo := newTestApplication(t)
	ts := newTestServer(t, app)

	status, _, body := ts.postForm(t, "/submit", url.Values{
		"name":    {"Jane Doe"},
		"email":   {""},
		"phone":   {"555-1234"},
		"company": {"Acme"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "Email is required")
	// The typed values survive the re-render
	assert.Contains(t, body, `value="Jane Doe"`)
	assert.Contains(t, body, `value="Acme"`)

	leads, appErr := repo.ListAll()
	require.Nil(t, appErr)
	assert.Empty(t, leads)

	// The form is still the view for this session
	status, _, home := ts.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, home, `name="phone"`)
}

func TestGuideGatedBehindSubmission(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app)

	status, header, _ := ts.get(t, "/guide")
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/", header.Get("Location"))

	ts.postForm(t, "/submit", url.Values{
		"name": {"Jane"}, "email": {"j@x.com"}, "phone": {"1"},
	})

	status, header, body := ts.get(t, "/guide")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, header.Get("Content-Disposition"), "QA_Recruitment_Guide.pdf")
	assert.Equal(t, "%PDF-1.4 test", body)
}

func TestLoginInvalidCredentials(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app)

	status, _, body := ts.postForm(t, "/login", url.Values{
		"username": {testAdminUser},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "Invalid credentials")
	// Still the visitor view, with the form intact
	assert.Contains(t, body, `name="phone"`)
}

func TestLoginThenDashboardThenLogout(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app)
	ts.login(t)

	status, _, body := ts.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Leads Dashboard")
	assert.Contains(t, body, "No leads collected yet")

	status, header, _ := ts.postForm(t, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/", header.Get("Location"))

	_, _, body = ts.get(t, "/")
	assert.Contains(t, body, "Download Our Quality Assurance Recruitment Guide")
}

func TestAdminDeleteFlow(t *testing.T) {
	app, repo := newTestApplication(t)
	ts := newTestServer(t, app)

	names := []string{"Alice", "Bob", "Carol"}
	for _, name := range names {
		_, appErr := app.svc.CreateLead(&models.LeadForm{Name: name, Email: name + "@x.com", Phone: "1"})
		require.Nil(t, appErr)
	}
	seeded, appErr := repo.ListAll()
	require.Nil(t, appErr)
	require.Len(t, seeded, 3)

	ts.login(t)

	_, _, body := ts.get(t, "/")
	for _, name := range names {
		assert.Contains(t, body, name)
	}

	status, header, _ := ts.postForm(t, "/admin/delete", url.Values{
		"lead": {seeded[0].ID},
	})
	require.Equal(t, http.StatusSeeOther, status)
	require.Equal(t, "/", header.Get("Location"))

	// The dashboard reports the removed count once
	_, _, body = ts.get(t, "/")
	assert.Contains(t, body, "Deleted 1 leads")
	_, _, body = ts.get(t, "/")
	assert.NotContains(t, body, "Deleted 1 leads")

	remaining, appErr := repo.ListAll()
	require.Nil(t, appErr)
	require.Len(t, remaining, 2)
	assert.Equal(t, "Bob", remaining[0].Name)
	assert.Equal(t, "Carol", remaining[1].Name)
}

func TestAdminDeleteEmptySelection(t *testing.T) {
	app, repo := newTestApplication(t)
	ts := newTestServer(t, app)

	_, appErr := app.svc.CreateLead(&models.LeadForm{Name: "Alice", Email: "a@x.com", Phone: "1"})
	require.Nil(t, appErr)

	ts.login(t)

	status, _, _ := ts.postForm(t, "/admin/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, status)

	leads, appErr := repo.ListAll()
	require.Nil(t, appErr)
	assert.Len(t, leads, 1)
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app)

	status, header, _ := ts.postForm(t, "/admin/delete", url.Values{"lead": {"x"}})
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/", header.Get("Location"))

	status, header, _ = ts.get(t, "/admin/export")
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/", header.Get("Location"))
}

func TestAdminExport(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app)

	_, appErr := app.svc.CreateLead(&models.LeadForm{Name: "Jane Doe", Email: "jane@x.com", Phone: "555-1234", Company: "Stirling"})
	require.Nil(t, appErr)

	ts.login(t)

	status, header, body := ts.get(t, "/admin/export")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, header.Get("Content-Type"), "text/csv")
	assert.Contains(t, header.Get("Content-Disposition"), "leads.csv")
	assert.Contains(t, body, "ID,Name,Email,Phone,Company,Timestamp")
	assert.Contains(t, body, "Jane Doe,jane@x.com,555-1234,Stirling")
}

func TestHealthz(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app)

	status, header, body := ts.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, header.Get("Content-Type"), "application/json")
	assert.Contains(t, body, `"status":"available"`)
}
