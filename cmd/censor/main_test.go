package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sonnes/censor/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `message: I just edited this for you
rules:
  - pattern: '(api_token=)\w+'
    replacement: '$1redacted'
    message: do not post your api token
`

const issueFixture = "../../reader/github/testdata/issues_opened.json"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the CLI with args and returns what it wrote.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRoot()
	var out bytes.Buffer
	root.Writer = &out
	root.Reader = strings.NewReader(stdin)
	err := root.Run(context.Background(), append([]string{"censor", "--log", "error"}, args...))
	return out.String(), err
}

func TestCheck(t *testing.T) {
	cfg := writeFile(t, "censor.yml", testConfig)
	text := writeFile(t, "body.md", "Hello api_token=deadbeef012")

	out, err := run(t, "", "check", "-c", cfg, "-f", text, "-o", "json")
	require.NoError(t, err)

	var o core.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &o))
	assert.Equal(t, core.StatusRedacted, o.Status)
	assert.Equal(t, "Hello api_token=redacted", o.After)
	assert.Equal(t, "I just edited this for you do not post your api token", o.Note)
	assert.False(t, o.Edited)
}

func TestCheckStdinText(t *testing.T) {
	cfg := writeFile(t, "censor.yml", testConfig)

	out, err := run(t, "api_token=abc and more", "check", "-c", cfg, "-o", "text")
	require.NoError(t, err)
	assert.Equal(t, "api_token=redacted and more", out)
}

func TestCheckPrevious(t *testing.T) {
	cfg := writeFile(t, "censor.yml", testConfig)
	prev := writeFile(t, "prev.md", "api_token=abc")

	out, err := run(t, "api_token=abc", "check", "-c", cfg, "--previous", prev, "-o", "text", "--fail")
	require.NoError(t, err, "a rule matching the previous text is skipped")
	assert.Equal(t, "api_token=abc", out)
}

func TestCheckFail(t *testing.T) {
	cfg := writeFile(t, "censor.yml", testConfig)

	_, err := run(t, "api_token=abc", "check", "-c", cfg, "--fail", "-o", "text")
	assert.ErrorIs(t, err, errRulesFired)

	_, err = run(t, "nothing here", "check", "-c", cfg, "--fail", "-o", "text")
	assert.NoError(t, err)
}

func TestCheckErrors(t *testing.T) {
	bad := writeFile(t, "censor.yml", "rules:\n  - pattern: '('\n")

	_, err := run(t, "x", "check", "-c", bad)
	assert.Error(t, err)

	_, err = run(t, "x", "check", "-o", "pdf")
	assert.ErrorContains(t, err, `unknown output format "pdf"`)
}

type apiCall struct {
	Method string
	Path   string
	Body   string
}

func fakeGitHub(t *testing.T) (*httptest.Server, func() []apiCall) {
	t.Helper()
	var mu sync.Mutex
	var calls []apiCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, apiCall{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, "{}")
	}))
	t.Cleanup(srv.Close)
	return srv, func() []apiCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]apiCall(nil), calls...)
	}
}

func TestRun(t *testing.T) {
	srv, calls := fakeGitHub(t)
	cfg := writeFile(t, "censor.yml", testConfig)

	out, err := run(t, "", "run",
		"--event-name", "issues",
		"--event-path", issueFixture,
		"--token", "t0ken",
		"--api-url", srv.URL,
		"--config", cfg,
		"-o", "json",
	)
	require.NoError(t, err)

	var o core.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &o))
	assert.True(t, o.Edited)
	assert.True(t, o.Commented)
	assert.NotEmpty(t, o.Event.DeliveryID)

	got := calls()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPatch, got[0].Method)
	assert.Equal(t, "/repos/getsentry/sentry/issues/21", got[0].Path)
	assert.Contains(t, got[0].Body, "api_token=redacted")
	assert.Equal(t, http.MethodPost, got[1].Method)
	assert.Equal(t, "/repos/getsentry/sentry/issues/21/comments", got[1].Path)
}

func TestRunOmitsOriginalText(t *testing.T) {
	cfg := writeFile(t, "censor.yml", testConfig)

	tests := map[string]string{
		"terminal": "REDACTED",
		"json":     `"after": "api_token=redacted "`,
		"html":     "api_token=redacted",
		"text":     "api_token=redacted ",
	}
	for format, want := range tests {
		t.Run(format, func(t *testing.T) {
			srv, _ := fakeGitHub(t)
			out, err := run(t, "", "run",
				"--event-name", "issues",
				"--event-path", issueFixture,
				"--token", "t0ken",
				"--api-url", srv.URL,
				"--config", cfg,
				"-o", format,
			)
			require.NoError(t, err)
			assert.NotContains(t, out, "deadbeef")
			assert.Contains(t, out, want)
		})
	}
}

func TestCheckShowsOriginalText(t *testing.T) {
	cfg := writeFile(t, "censor.yml", testConfig)

	out, err := run(t, "api_token=deadbeef012", "check", "-c", cfg, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"before": "api_token=deadbeef012"`)
}

func TestRunDryRun(t *testing.T) {
	srv, calls := fakeGitHub(t)
	cfg := writeFile(t, "censor.yml", testConfig)

	out, err := run(t, "", "run",
		"--event-name", "issues",
		"--event-path", issueFixture,
		"--api-url", srv.URL,
		"--config", cfg,
		"--dry-run",
		"-o", "json",
	)
	require.NoError(t, err)
	assert.Contains(t, out, `"dry_run": true`)
	assert.Empty(t, calls())
}

func TestRunUnsupportedEvent(t *testing.T) {
	path := writeFile(t, "event.json", `{}`)

	out, err := run(t, "", "run", "--event-name", "push", "--event-path", path, "--dry-run", "--config", "censor.yml")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUnknownLogFormat(t *testing.T) {
	_, err := run(t, "", "--log-format", "xml", "check")
	assert.ErrorContains(t, err, `unknown log format "xml"`)
}
