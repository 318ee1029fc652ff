package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/promptfield/settings"
	"github.com/randalmurphal/promptfield/widget"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		settings.EnvProjectID, settings.EnvManagementAPIKey, settings.EnvChatsonicAPIKey,
		"PROMPTFIELD_TARGET_ITEM", "PROMPTFIELD_TARGET_LANGUAGE", "PROMPTFIELD_VARIANT",
		"PROMPTFIELD_PROVIDER", "PROMPTFIELD_BASE_URL", "PROMPTFIELD_ENGINE", "PROMPTFIELD_TIMEOUT",
	} {
		t.Setenv(name, "")
	}
}

func TestValidateCmd(t *testing.T) {
	valid := writeFile(t, "valid.json", `{"textElementCodename":"title","managementApiKey":"m","apiToken":"a"}`)
	out, _, err := execute(t, "validate", valid)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	partial := writeFile(t, "partial.json", `{"textElementCodename":"title"}`)
	_, errOut, err := execute(t, "validate", partial)
	require.Error(t, err)
	assert.ErrorIs(t, err, widget.ErrInvalidConfig)
	assert.Contains(t, errOut, "apiToken: missing")

	out, _, err = execute(t, "validate", "--variant", "environment", partial)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	_, _, err = execute(t, "validate", "--variant", "bogus", partial)
	assert.ErrorContains(t, err, "unknown variant")

	_, _, err = execute(t, "validate")
	assert.Error(t, err)
}

func TestSchemaCmd(t *testing.T) {
	out, _, err := execute(t, "schema")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.ElementsMatch(t, []any{"textElementCodename", "managementApiKey", "apiToken"}, doc["required"])

	out, _, err = execute(t, "schema", "--variant", "environment")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, []any{"textElementCodename"}, doc["required"])
}

// backends fakes the generation service and the Management API.
type backends struct {
	gen  *httptest.Server
	mgmt *httptest.Server

	mu      sync.Mutex
	prompts []string
	paths   []string
	auth    []string
}

func newBackends(t *testing.T) *backends {
	t.Helper()
	b := &backends{}
	b.gen = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			InputText string `json:"input_text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.prompts = append(b.prompts, body.InputText)
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"message":"Fly Further."}`)
	}))
	b.mgmt = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.paths = append(b.paths, r.URL.Path)
		b.auth = append(b.auth, r.Header.Get("Authorization"))
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"elements":[]}`)
	}))
	t.Cleanup(b.gen.Close)
	t.Cleanup(b.mgmt.Close)
	return b
}

func (b *backends) settingsFile(t *testing.T, variant string) string {
	t.Helper()
	return writeFile(t, "promptfield.yaml", strings.Join([]string{
		"project_id: proj-1",
		"management_api_key: mgmt-key",
		"chatsonic_api_key: gen-key",
		"variant: " + variant,
		"management_base_url: " + b.mgmt.URL,
		"provider:",
		"  base_url: " + b.gen.URL,
	}, "\n"))
}

func TestGenerateCmd_Environment(t *testing.T) {
	clearEnv(t)
	b := newBackends(t)

	out, _, err := execute(t, "generate", "--settings", b.settingsFile(t, "environment"), "--prompt", "draft a tagline")
	require.NoError(t, err)
	assert.Equal(t, "Fly Further.\n", out)

	assert.Equal(t, []string{"draft a tagline"}, b.prompts)
	assert.Equal(t, []string{"/projects/proj-1/items/codename/_ai_content___chatgtp/variants/codename/default"}, b.paths)
	assert.Equal(t, []string{"Bearer mgmt-key"}, b.auth)
}

func TestGenerateCmd_InstanceTargetsFlags(t *testing.T) {
	clearEnv(t)
	b := newBackends(t)

	_, _, err := execute(t, "generate",
		"--settings", b.settingsFile(t, "instance"),
		"--prompt", "draft a tagline",
		"--item", "my_article",
		"--language", "en-US")
	require.NoError(t, err)
	assert.Equal(t, []string{"/projects/proj-1/items/codename/my_article/variants/codename/en-US"}, b.paths)
}

func TestGenerateCmd_Errors(t *testing.T) {
	clearEnv(t)

	_, _, err := execute(t, "generate")
	assert.ErrorContains(t, err, "--prompt is required")

	_, _, err = execute(t, "generate", "--prompt", "x")
	assert.ErrorContains(t, err, "project_id is required")

	b := newBackends(t)
	b.gen.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	})
	_, _, err = execute(t, "generate", "--settings", b.settingsFile(t, "environment"), "--prompt", "x")
	assert.ErrorContains(t, err, "generate (decode)")
	assert.Empty(t, b.paths)
}

func newTestServer(t *testing.T, s settings.Settings) (*server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	assets := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(assets, "wasm_exec.js"), []byte("// runtime"), 0o600))
	return newServer(s, assets, []string{"https://app.kontent.ai"}, reg, slog.New(slog.NewTextHandler(io.Discard, nil))), reg
}

func serve(srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestServeCmd_ListensOnLoopbackByDefault(t *testing.T) {
	cmd := newServeCmd()
	flag := cmd.Flags().Lookup("addr")
	require.NotNil(t, flag)
	assert.Equal(t, "127.0.0.1:8080", flag.DefValue)
}

func TestServer_Page(t *testing.T) {
	s := settings.Default()
	s.ProjectID = "proj-1"
	s.ChatsonicAPIKey = "gen-key"
	srv, _ := newTestServer(t, s)

	rec := serve(srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, customElementScript)
	assert.Contains(t, body, `window.__PROMPTFIELD_VARIANT__ = "environment"`)
	assert.Contains(t, body, `"NEXT_PUBLIC_KONTENT_PROJECT_ID":"proj-1"`)

	// The instance variant keeps credentials out of the page.
	s.Variant = "instance"
	srv.setSettings(s)
	body = serve(srv, http.MethodGet, "/", "").Body.String()
	assert.Contains(t, body, `"instance"`)
	assert.NotContains(t, body, "gen-key")
}

func TestServer_AssetsAndHealth(t *testing.T) {
	srv, _ := newTestServer(t, settings.Default())

	rec := serve(srv, http.MethodGet, "/assets/wasm_exec.js", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "// runtime", rec.Body.String())

	assert.Equal(t, http.StatusNoContent, serve(srv, http.MethodGet, "/healthz", "").Code)
}

func TestServer_SchemaAndValidate(t *testing.T) {
	srv, _ := newTestServer(t, settings.Default())

	rec := serve(srv, http.MethodGet, "/schema?variant=environment", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "textElementCodename")

	assert.Equal(t, http.StatusBadRequest, serve(srv, http.MethodGet, "/schema?variant=bogus", "").Code)

	rec = serve(srv, http.MethodPost, "/api/validate?variant=instance", `{"textElementCodename":"t"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var res validateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.OK)
	assert.Contains(t, res.Problems, "apiToken: missing")

	rec = serve(srv, http.MethodPost, "/api/validate?variant=environment", `{"textElementCodename":"t"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusBadRequest, serve(srv, http.MethodPost, "/api/validate", `{`).Code)
}

func TestServer_Generate(t *testing.T) {
	clearEnv(t)
	b := newBackends(t)
	s, err := settings.Load(b.settingsFile(t, "environment"))
	require.NoError(t, err)
	srv, reg := newTestServer(t, s)

	rec := serve(srv, http.MethodPost, "/api/generate", `{"prompt":"draft a tagline","item":"landing"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Fly Further.", res.Text)
	assert.Equal(t, "done", res.Stage)
	assert.Equal(t, []string{"/projects/proj-1/items/codename/landing/variants/codename/default"}, b.paths)

	assert.Equal(t, http.StatusBadRequest, serve(srv, http.MethodPost, "/api/generate", `{}`).Code)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "promptfield_generations_total")
	assert.Contains(t, names, "promptfield_http_requests_total")

	metricsBody := serve(srv, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, metricsBody, `promptfield_generations_total{result="ok",stage="done",variant="environment"} 1`)
}

func TestServer_GenerateNeedsSettings(t *testing.T) {
	srv, _ := newTestServer(t, settings.Default())
	rec := serve(srv, http.MethodPost, "/api/generate", `{"prompt":"x"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
