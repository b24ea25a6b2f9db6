package main

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/stirlingqr/leadgate/web" // For embedded files
)

// routes maps the application endpoints to their respective handlers
func (app *application) routes() (http.Handler, error) {
	mux := http.NewServeMux()

	// Serve static files from the embedded filesystem
	staticFS, err := fs.Sub(web.Files, "static")
	if err != nil {
		return nil, fmt.Errorf("error creating a filesystem for static dir: %w", err)
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Visitor flow
	mux.HandleFunc("/", app.home)
	mux.HandleFunc("/submit", app.submitLead)
	mux.HandleFunc("/logo", app.logo)
	mux.HandleFunc("/guide", app.downloadGuide)

	// Admin flow
	mux.HandleFunc("/login", app.login)
	mux.HandleFunc("/logout", app.logout)
	mux.HandleFunc("/admin/delete", app.adminDelete)
	mux.HandleFunc("/admin/export", app.adminExport)

	mux.HandleFunc("/healthz", app.healthz)

	var chain http.Handler = mux
	chain = app.logRequest(chain)
	chain = app.recoverPanic(chain)

	return chain, nil
}
