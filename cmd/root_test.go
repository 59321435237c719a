package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/shivamhw/reddit-purge/commons"
	"github.com/shivamhw/reddit-purge/config"
	"github.com/shivamhw/reddit-purge/pkg/purge"
	"github.com/shivamhw/reddit-purge/sources"
)

const secrets = `{"client_id": "cid", "client_secret": "cs", "user_agent": "ua", "username": "someone", "password": "pw"}`

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeAccount struct {
	posts   []*commons.Submission
	deleted []string
}

func (f *fakeAccount) Submissions(ctx context.Context, fn func(*commons.Submission) error) error {
	for _, p := range f.posts {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAccount) Comments(ctx context.Context, sort commons.CommentSort, fn func(*commons.Comment) error) error {
	return nil
}

func (f *fakeAccount) DeleteSubmission(ctx context.Context, s *commons.Submission) error {
	f.deleted = append(f.deleted, s.ID)
	return nil
}

func (f *fakeAccount) DeleteComment(ctx context.Context, c *commons.Comment) error {
	f.deleted = append(f.deleted, c.ID)
	return nil
}

func (f *fakeAccount) Me() *sources.Account {
	return &sources.Account{Name: "someone", PostKarma: 1, CommentKarma: 2, Created: now}
}

type harness struct {
	app       *App
	stdout    bytes.Buffer
	stderr    bytes.Buffer
	account   *fakeAccount
	logins    int
	confirms  int
	loginErr  error
	confirmOk bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	color.NoColor = true
	h := &harness{account: &fakeAccount{
		posts: []*commons.Submission{
			{ID: "old", FullID: "t3_old", Title: "old post", CreatedUTC: now.Add(-15 * 24 * time.Hour)},
			{ID: "new", FullID: "t3_new", Title: "new post", CreatedUTC: now.Add(-5 * 24 * time.Hour)},
		},
	}}
	h.app = &App{
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		Login: func(ctx context.Context, cfg *config.Config) (sources.AccountSource, error) {
			h.logins++
			if h.loginErr != nil {
				return nil, h.loginErr
			}
			return h.account, nil
		},
		Interactive: func() bool { return false },
		Confirm: func(string) (bool, error) {
			h.confirms++
			return h.confirmOk, nil
		},
		Opts: purge.Options{Now: func() time.Time { return now }},
	}
	return h
}

func writeSecrets(t *testing.T, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "secrets.json")
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

func TestNoArgsPrintsHelp(t *testing.T) {
	h := newHarness(t)
	code := h.app.Run(context.Background(), []string{})
	require.Equal(t, 0, code)
	require.Contains(t, h.stdout.String(), "--older-than")
	require.Contains(t, h.stdout.String(), "--dry-run")
	require.Equal(t, 0, h.logins)
}

func TestMissingConfigExits2(t *testing.T) {
	h := newHarness(t)
	missing := filepath.Join(t.TempDir(), "secrets.json")
	code := h.app.Run(context.Background(), []string{"--config", missing, "--dry-run"})
	require.Equal(t, 2, code)
	require.Equal(t, "ERROR: "+missing+" not found in the current directory.\n", h.stderr.String())
	require.Equal(t, 0, h.logins)
	require.Empty(t, h.stdout.String())
}

func TestMalformedConfigExits2(t *testing.T) {
	h := newHarness(t)
	p := writeSecrets(t, `{"client_id": `)
	code := h.app.Run(context.Background(), []string{"--config", p, "--older-than", "3"})
	require.Equal(t, 2, code)
	require.Contains(t, h.stderr.String(), "is not valid JSON")
	require.Equal(t, 0, h.logins)
}

func TestDryRun(t *testing.T) {
	h := newHarness(t)
	p := writeSecrets(t, secrets)
	code := h.app.Run(context.Background(), []string{"--config", p, "--older-than", "10", "--dry-run"})
	require.Equal(t, 0, code, h.stderr.String())
	require.Equal(t, 1, h.logins)
	require.Empty(t, h.account.deleted)

	out := h.stdout.String()
	require.Contains(t, out, "[DRY-RUN] Post: old post (created 2024-05-17 12:00:00 UTC)\n")
	require.NotContains(t, out, "new post")
	require.Contains(t, out, "Processed posts:    2\n")
	require.Contains(t, out, "Deleted posts:      0 (simulated)\n")
}

func TestLiveRunNonInteractiveSkipsConfirm(t *testing.T) {
	h := newHarness(t)
	p := writeSecrets(t, secrets)
	code := h.app.Run(context.Background(), []string{"--config", p, "--older-than", "10", "--skip-comments"})
	require.Equal(t, 0, code, h.stderr.String())
	require.Equal(t, 0, h.confirms)
	require.Equal(t, []string{"old"}, h.account.deleted)
	require.Contains(t, h.stdout.String(), "Deleted posts:      1\n")
}

func TestInteractiveDeclineDeletesNothing(t *testing.T) {
	h := newHarness(t)
	h.app.Interactive = func() bool { return true }
	p := writeSecrets(t, secrets)
	code := h.app.Run(context.Background(), []string{"--config", p, "--older-than", "10"})
	require.Equal(t, 0, code)
	require.Equal(t, 1, h.confirms)
	require.Equal(t, 0, h.logins)
	require.Contains(t, h.stdout.String(), "Aborted")
}

func TestInteractiveYesSkipsPrompt(t *testing.T) {
	h := newHarness(t)
	h.app.Interactive = func() bool { return true }
	p := writeSecrets(t, secrets)
	code := h.app.Run(context.Background(), []string{"--config", p, "-y"})
	require.Equal(t, 0, code)
	require.Equal(t, 0, h.confirms)
	require.ElementsMatch(t, []string{"old", "new"}, h.account.deleted)
}

func TestAuthFailureExits1(t *testing.T) {
	h := newHarness(t)
	h.loginErr = &sources.AuthError{User: "someone", Err: os.ErrDeadlineExceeded}
	p := writeSecrets(t, secrets)
	code := h.app.Run(context.Background(), []string{"--config", p, "--dry-run"})
	require.Equal(t, 1, code)
	require.Contains(t, h.stderr.String(), `ERROR: login as "someone"`)
	require.NotContains(t, h.stdout.String(), "Summary")
}

func TestBadFilterExitsBeforeLogin(t *testing.T) {
	h := newHarness(t)
	p := writeSecrets(t, secrets)
	code := h.app.Run(context.Background(), []string{"--config", p, "--filter", "score <"})
	require.Equal(t, 1, code)
	require.Equal(t, 0, h.logins)
	require.Contains(t, h.stderr.String(), "compile filter")
}

func TestUnknownArgumentFails(t *testing.T) {
	h := newHarness(t)
	code := h.app.Run(context.Background(), []string{"bogus"})
	require.Equal(t, 1, code)
	require.Equal(t, 0, h.logins)
}

func TestWhoami(t *testing.T) {
	h := newHarness(t)
	p := writeSecrets(t, secrets)
	code := h.app.Run(context.Background(), []string{"whoami", "--config", p})
	require.Equal(t, 0, code, h.stderr.String())
	require.Equal(t, "/u/someone\npost karma:    1\ncomment karma: 2\ncreated:       2024-06-01 12:00:00 UTC\n", h.stdout.String())
}

func TestArchiveFlag(t *testing.T) {
	h := newHarness(t)
	p := writeSecrets(t, secrets)
	dir := t.TempDir()
	code := h.app.Run(context.Background(), []string{"--config", p, "--older-than", "10", "--archive", dir})
	require.Equal(t, 0, code, h.stderr.String())
	require.Equal(t, []string{"old"}, h.account.deleted)
	require.FileExists(t, filepath.Join(dir, "submissions", "old.json"))
	require.NoFileExists(t, filepath.Join(dir, "submissions", "new.json"))
}

func TestErrorLabelPlainWhenStderrIsNotATerminal(t *testing.T) {
	h := newHarness(t)
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = true })

	code := h.app.Run(context.Background(), []string{"--config", filepath.Join(t.TempDir(), "secrets.json")})
	require.Equal(t, 2, code)
	require.True(t, strings.HasPrefix(h.stderr.String(), "ERROR: "), h.stderr.String())
	require.NotContains(t, h.stderr.String(), "\x1b[")

	f, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, "ERROR:", errorLabel(f))
}
