package main

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stirlingqr/leadgate/internal/auth"
	"github.com/stirlingqr/leadgate/internal/logger"
	"github.com/stirlingqr/leadgate/internal/repositories"
	"github.com/stirlingqr/leadgate/internal/services"
	"github.com/stirlingqr/leadgate/internal/session"
	"github.com/stirlingqr/leadgate/internal/utils"
)

const (
	testAdminUser = "admin@example.com"
	testAdminPass = "orange-crush-22"
)

// newTestApplication builds a fully wired application backed by a temp
// directory, with plaintext admin credentials and a throwaway logger
func newTestApplication(t *testing.T) (*application, *repositories.CSVRepository) {
	t.Helper()

	dir := t.TempDir()
	logo := filepath.Join(dir, "logo.png")
	guide := filepath.Join(dir, "guide.pdf")
	require.NoError(t, os.WriteFile(logo, []byte("png bytes"), 0o644))
	require.NoError(t, os.WriteFile(guide, []byte("%PDF-1.4 test"), 0o644))

	cfg := &utils.Config{}
	cfg.App.Env = "dev"
	cfg.App.Port = "0"
	cfg.Leads.File = filepath.Join(dir, "leads.csv")
	cfg.Assets.Logo = logo
	cfg.Assets.Guide = guide

	repo := repositories.NewCSVRepository(cfg.Leads.File)

	verifier, err := auth.NewVerifier(testAdminUser, "", testAdminPass)
	require.NoError(t, err)

	cache, err := newTemplateCache()
	require.NoError(t, err)

	content, err := loadPageContent()
	require.NoError(t, err)

	app := &application{
		config:        cfg,
		logger:        logger.New(io.Discard, io.Discard),
		svc:           services.NewService(repo),
		verifier:      verifier,
		sessions:      session.NewStore(),
		templateCache: cache,
		content:       content,
	}
	return app, repo
}

// testServer wraps httptest.Server with a cookie jar and manual redirects so
// each hop's status can be asserted
type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, app *application) *testServer {
	t.Helper()

	handler, err := app.routes()
	require.NoError(t, err)

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	ts.Client().Jar = jar
	ts.Client().CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &testServer{ts}
}

func (ts *testServer) get(t *testing.T, path string) (int, http.Header, string) {
	t.Helper()
	res, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, res.Header, string(body)
}

func (ts *testServer) postForm(t *testing.T, path string, form url.Values) (int, http.Header, string) {
	t.Helper()
	res, err := ts.Client().Post(ts.URL+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, res.Header, string(body)
}

// login authenticates the test client's session as the admin
func (ts *testServer) login(t *testing.T) {
	t.Helper()
	status, header, _ := ts.postForm(t, "/login", url.Values{
		"username": {testAdminUser},
		"password": {testAdminPass},
	})
	require.Equal(t, http.StatusSeeOther, status)
	require.Equal(t, "/", header.Get("Location"))
}
