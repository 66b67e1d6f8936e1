package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/dashboard"
	"github.com/spigell/talent-matcher/internal/session"
	"github.com/spigell/talent-matcher/internal/talent"
	"github.com/spigell/talent-matcher/internal/upload"
)

func testRuntime(t *testing.T, handler http.Handler) *runtime {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &Config{
		APIURL:      server.URL,
		Timeout:     time.Second,
		DevLogin:    true,
		Upload:      &UploadConfig{},
		DownloadDir: t.TempDir(),
		AppName:     defaultAppName,
	}

	sess := session.New(filepath.Join(t.TempDir(), "session.json"))

	client, err := newClient(cfg, sess, zap.NewNop())
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	return &runtime{
		ctx:       context.Background(),
		logger:    zap.NewNop(),
		config:    cfg,
		session:   sess,
		client:    client,
		validator: upload.NewValidator(0, nil),
	}
}

func TestNewClientTokenPrecedence(t *testing.T) {
	var gotAuth atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		io.WriteString(w, `{"resumes":[]}`)
	}))
	t.Cleanup(server.Close)

	sess := session.New(filepath.Join(t.TempDir(), "session.json"))
	sess.Set("session-token", &talent.User{ID: 1, Email: "dev@example.com"})

	tokenFile := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(tokenFile, []byte("file-token\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "session", cfg: Config{APIURL: server.URL}, want: "Bearer session-token"},
		{name: "inline token", cfg: Config{APIURL: server.URL, Token: "inline"}, want: "Bearer inline"},
		{name: "token file", cfg: Config{APIURL: server.URL, Token: "inline", TokenFile: tokenFile}, want: "Bearer file-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := newClient(&tt.cfg, sess, zap.NewNop())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := client.ListResumes(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := gotAuth.Load(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}

	if _, err := newClient(&Config{TokenFile: filepath.Join(t.TempDir(), "missing")}, sess, zap.NewNop()); err == nil {
		t.Fatal("expected error for missing token file")
	}
}

func TestOpenSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	sess, err := openSession(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.LoggedIn() || sess.Path() != path {
		t.Fatalf("expected empty session at %s", path)
	}
}

func TestLogin(t *testing.T) {
	var hits atomic.Int32

	rt := testRuntime(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/auth/dev_login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"message":"ok","token":"tok","user":{"id":7,"name":"Dev","email":"dev@example.com"}}`)
	}))

	if _, err := login(rt.ctx, rt.client, rt.session, false); !errors.Is(err, errDevLoginDisabled) {
		t.Fatalf("expected disabled error, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("disabled login must not reach the service")
	}

	user, err := login(rt.ctx, rt.client, rt.session, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if displayUser(user) != "Dev (dev@example.com)" {
		t.Fatalf("unexpected user %+v", user)
	}

	reloaded, err := openSession(rt.session.Path())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded.Token() != "tok" || reloaded.User().ID != 7 {
		t.Fatalf("session was not persisted")
	}
}

func TestDisplayUser(t *testing.T) {
	t.Parallel()

	tests := map[string]*talent.User{
		"unknown user": nil,
		"a@b.c":        {Email: "a@b.c"},
		"Ann":          {Name: "Ann"},
		"Ann (a@b.c)":  {Name: "Ann", Email: "a@b.c"},
	}
	for want, user := range tests {
		if got := displayUser(user); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestUploadFile(t *testing.T) {
	var hits atomic.Int32

	rt := testRuntime(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		title := r.FormValue("resume[title]")
		io.WriteString(w, `{"message":"ok","resume":{"id":3,"title":"`+title+`","filename":"jane_doe.txt"}}`)
	}))

	dir := t.TempDir()
	rejected := filepath.Join(dir, "cv.exe")
	if err := os.WriteFile(rejected, []byte("MZ"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := uploadFile(rt.ctx, rt.client, rt.validator, rejected, "")
	if !upload.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("rejected file must not reach the service")
	}

	accepted := filepath.Join(dir, "jane_doe.txt")
	if err := os.WriteFile(accepted, []byte("Go developer"), 0o600); err != nil {
		t.Fatal(err)
	}

	resume, err := uploadFile(rt.ctx, rt.client, rt.validator, accepted, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resume.ID != 3 || resume.Title != upload.DefaultTitle("jane_doe.txt") {
		t.Fatalf("unexpected resume %+v", resume)
	}
}

func TestReadJobDescription(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "jd.txt")
	if err := os.WriteFile(file, []byte("from file"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		file string
		want string
	}{
		{name: "args", args: []string{"Senior", "Go", "developer"}, want: "Senior Go developer"},
		{name: "stdin", file: "-", want: "from stdin"},
		{name: "file", args: []string{"ignored"}, file: file, want: "from file"},
		{name: "nothing", want: ""},
	}

	for _, tt := range tests {
		got, err := readJobDescription(tt.args, tt.file, strings.NewReader("from stdin"))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}

	if _, err := readJobDescription(nil, filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveFile(t *testing.T) {
	rt := testRuntime(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/3" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "resume body")
	}))

	path, err := saveFile(rt.ctx, rt.client, rt.config.DownloadDir, dashboard.FileRef{URL: "/files/3", Filename: "../cv.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(rt.config.DownloadDir, "cv.txt") {
		t.Fatalf("unexpected path %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "resume body" {
		t.Fatalf("unexpected file content %q (%v)", data, err)
	}

	if _, err := saveFile(rt.ctx, rt.client, rt.config.DownloadDir, dashboard.FileRef{Filename: "x.pdf"}); !errors.Is(err, errNoFileURL) {
		t.Fatalf("expected missing url error, got %v", err)
	}

	if _, err := saveFile(rt.ctx, rt.client, rt.config.DownloadDir, dashboard.FileRef{URL: "/files/9", Filename: "gone.pdf"}); err == nil {
		t.Fatal("expected error for missing remote file")
	}
	if _, err := os.Stat(filepath.Join(rt.config.DownloadDir, "gone.pdf")); !os.IsNotExist(err) {
		t.Fatalf("failed download must not leave a file")
	}
}

func TestMenu(t *testing.T) {
	t.Parallel()

	view := dashboard.New(nil)
	view.SetCatalog(nil)

	got := strings.Join(menu(view, false), "|")
	if got != strings.Join([]string{PromptUpload, PromptMatch, PromptRefresh, PromptLogin, PromptExit}, "|") {
		t.Fatalf("unexpected empty catalog menu %q", got)
	}

	view.MatchSucceeded(&talent.JobMatchResult{Matches: []talent.MatchCandidate{
		{ResumeID: 1, Title: "A", RelevanceScore: -0.4},
	}})

	got = strings.Join(menu(view, true), "|")
	want := strings.Join([]string{PromptUpload, PromptMatch, PromptClear, PromptDetails, PromptDownload, PromptRefresh, PromptLogout, PromptExit}, "|")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestItemLabel(t *testing.T) {
	t.Parallel()

	view := dashboard.New(nil)
	view.MatchSucceeded(&talent.JobMatchResult{Matches: []talent.MatchCandidate{
		{ResumeID: 42, Title: "Backend", Filename: "cv.pdf", RelevanceScore: -0.25},
	}})

	label := itemLabel(view.Items()[0])
	if label != "42 Backend / cv.pdf / 75.0% match" {
		t.Fatalf("unexpected label %q", label)
	}

	id, err := parseItemID(label)
	if err != nil || id != 42 {
		t.Fatalf("expected 42, got %d (%v)", id, err)
	}

	if _, err := parseItemID("  "); err == nil {
		t.Fatal("expected error for empty selection")
	}
}

func TestHandleActionKeepsFailuresInline(t *testing.T) {
	rt := testRuntime(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	view := dashboard.New(nil)
	view.SetCatalog(nil)

	var out bytes.Buffer
	if err := handleAction(PromptLogin, rt, view, &out); err != nil {
		t.Fatalf("login failure must not end the loop: %v", err)
	}
	if view.Error(dashboard.ActionLogin) == "" {
		t.Fatal("expected login error to be recorded")
	}
	if !strings.Contains(out.String(), "Error: "+view.Error(dashboard.ActionLogin)) {
		t.Fatalf("expected error to be printed, got %q", out.String())
	}

	if err := handleAction(PromptRefresh, rt, view, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.State() != dashboard.StateEmptyCatalog {
		t.Fatalf("expected EMPTY_CATALOG after failed refresh, got %s", view.State())
	}

	if err := handleAction(PromptExit, rt, view, &out); !errors.Is(err, errExit) {
		t.Fatalf("expected exit, got %v", err)
	}
	if err := handleAction("nope", rt, view, &out); err == nil {
		t.Fatal("expected error for unknown action")
	}
}
