package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stirlingqr/leadgate/internal/apperrors"
	"github.com/stirlingqr/leadgate/internal/models"
	"github.com/stirlingqr/leadgate/internal/session"
)

// currentSession returns the live session for this client, creating one and
// setting the cookie on the first interaction.
func (app *application) currentSession(w http.ResponseWriter, r *http.Request) (string, session.Session, error) {
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		if sess, ok := app.sessions.Get(cookie.Value); ok {
			return cookie.Value, sess, nil
		}
	}

	token, err := app.sessions.Create()
	if err != nil {
		return "", session.Session{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   !app.config.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
	sess, _ := app.sessions.Get(token)
	return token, sess, nil
}

// serverError logs the unexpected failure and shows the operator a short
// message without killing the process
func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorf("%s %s: %v", r.Method, r.URL.RequestURI(), err)

	message := http.StatusText(http.StatusInternalServerError)
	if appErr, ok := err.(*apperrors.AppError); ok {
		message = appErr.Message
	}
	http.Error(w, message, http.StatusInternalServerError)
}

// home runs the top-level view selection: admin dashboard when logged in,
// thank-you once submitted, the lead form otherwise
func (app *application) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, sess, err := app.currentSession(w, r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	switch selectView(sess) {
	case showAdminDashboard:
		app.renderDashboard(w, r, token, sess, http.StatusOK)
	case showThankYou:
		app.render(w, r, http.StatusOK, "thanks.page.tmpl", app.newTemplateData(r, token, sess))
	default:
		data := app.newTemplateData(r, token, sess)
		data.Form = &models.LeadForm{}
		app.render(w, r, http.StatusOK, "lead.page.tmpl", data)
	}
}

// renderDashboard shows the full lead collection to the operator
func (app *application) renderDashboard(w http.ResponseWriter, r *http.Request, token string, sess session.Session, status int) {
	leads, appErr := app.svc.ListLeads()
	if appErr != nil {
		app.serverError(w, r, appErr)
		return
	}

	data := app.newTemplateData(r, token, sess)
	data.Leads = leads
	app.render(w, r, status, "dashboard.page.tmpl", data)
}

// submitLead handles the public form submission
func (app *application) submitLead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, sess, err := app.currentSession(w, r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	form := &models.LeadForm{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Phone:   r.PostForm.Get("phone"),
		Company: r.PostForm.Get("company"),
	}

	if _, appErr := app.svc.CreateLead(form); appErr != nil {
		if apperrors.Is(appErr, apperrors.ErrInvalidInput) {
			// Re-render with the typed values and the inline field errors
			data := app.newTemplateData(r, token, sess)
			data.Form = form
			data.Flash = appErr.Message
			app.render(w, r, http.StatusUnprocessableEntity, "lead.page.tmpl", data)
			return
		}
		app.serverError(w, r, appErr)
		return
	}

	sess.Submitted = true
	app.sessions.Put(token, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// logo serves the configured logo image
func (app *application) logo(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, app.config.Assets.Logo)
}

// downloadGuide serves the PDF guide, gated behind a completed submission
func (app *application) downloadGuide(w http.ResponseWriter, r *http.Request) {
	_, sess, err := app.currentSession(w, r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if !sess.Submitted && !sess.Admin {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="QA_Recruitment_Guide.pdf"`)
	http.ServeFile(w, r, app.config.Assets.Guide)
}

// login runs the LoggedOut -> LoggedIn transition of the admin gate
func (app *application) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, sess, err := app.currentSession(w, r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	form := models.LoginForm{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}

	if !app.verifier.Verify(form.Username, form.Password) {
		// Stay logged out and re-render the current visitor view with the
		// error inline; nothing else about the session changes
		data := app.newTemplateData(r, token, sess)
		data.Flash = apperrors.ErrInvalidCredentials.Message
		page := "lead.page.tmpl"
		if selectView(sess) == showThankYou {
			page = "thanks.page.tmpl"
		} else {
			data.Form = &models.LeadForm{}
		}
		app.render(w, r, http.StatusUnauthorized, page, data)
		return
	}

	sess.Admin = true
	app.sessions.Put(token, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// logout runs the unconditional LoggedIn -> LoggedOut transition
func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, sess, err := app.currentSession(w, r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	sess.Admin = false
	app.sessions.Put(token, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// adminDelete removes the selected leads and reports the removed count
func (app *application) adminDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, sess, err := app.currentSession(w, r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if !sess.Admin {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	ids := r.PostForm["lead"]
	if len(ids) == 0 {
		// Confirm with an empty selection is a no-op
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	removed, appErr := app.svc.DeleteLeads(ids)
	if appErr != nil {
		app.serverError(w, r, appErr)
		return
	}

	sess.Flash = fmt.Sprintf("Deleted %d leads", removed)
	app.sessions.Put(token, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// adminExport offers the full collection as a CSV download
func (app *application) adminExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	_, sess, err := app.currentSession(w, r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if !sess.Admin {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// Build the export in memory so an I/O failure can still produce a
	// clean error response instead of a truncated download
	buf := new(bytes.Buffer)
	if appErr := app.svc.ExportCSV(buf); appErr != nil {
		app.serverError(w, r, appErr)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)
	buf.WriteTo(w)
}

// healthz reports process liveness
func (app *application) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":      "available",
		"environment": app.config.App.Env,
	})
}
