package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/brandly/pkg/catalog"
	"github.com/mesh-intelligence/brandly/pkg/types"
)

// env is an isolated config and data directory pair.
type env struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	for _, key := range append([]string{cfgKeyDataDir}, envKeys...) {
		t.Setenv(envPrefix+"_"+strings.ToUpper(key), "")
	}
	t.Setenv("BRANDLY_CONFIG_DIR", "")
	dir := t.TempDir()
	return &env{
		t:         t,
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
	}
}

// run executes brandly with the env's directories prepended.
func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "brandly %s", strings.Join(args, " "))
	return out
}

// createdID runs an add command in JSON mode and returns the new ID.
func (e *env) createdID(args ...string) string {
	e.t.Helper()
	out := e.mustRun(append(args, "--json")...)
	var res map[string]string
	require.NoError(e.t, json.Unmarshal([]byte(out), &res))
	require.NotEmpty(e.t, res["id"])
	return res["id"]
}

func TestVersion(t *testing.T) {
	out := newEnv(t).mustRun("version")
	assert.Equal(t, fmt.Sprintf("brandly v%s\nmodule: %s\n", Version, modulePath), out)
}

func TestInit(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("--owner", "owner-a", "init")
	assert.Contains(t, out, "Brandly initialized successfully")

	data, err := os.ReadFile(filepath.Join(e.configDir, configFileExt))
	require.NoError(t, err)
	var cfg configFile
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, types.BackendSQLite, cfg.Backend)
	assert.Equal(t, e.dataDir, cfg.DataDir)
	assert.Equal(t, "owner-a", cfg.Owner)

	for _, name := range types.StandardCollectionNames {
		assert.FileExists(t, filepath.Join(e.dataDir, name+".jsonl"))
	}

	_, err = e.run("init")
	assert.NoError(t, err, "init is idempotent")

	// The owner recorded by init is picked up without the flag.
	out = e.mustRun("brand", "list")
	assert.Contains(t, out, "No brands found.")
}

func TestBrandLifecycle(t *testing.T) {
	e := newEnv(t)
	owner := []string{"--owner", "owner-a"}

	id := e.createdID(append(owner, "brand", "add", "--name", "Acme", "--description", "Hand tools")...)

	out := e.mustRun(append(owner, "brand", "list")...)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Total: 1 brand(s)")

	out = e.mustRun(append(owner, "brand", "get", id)...)
	assert.Contains(t, out, "Name:        Acme")

	e.mustRun(append(owner, "brand", "update", id, "--name", "Acme Corp")...)
	out = e.mustRun(append(owner, "brand", "get", id, "--json")...)
	var b types.Brand
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, "Acme Corp", b.Name)
	assert.Equal(t, "Hand tools", b.Description)
	assert.Equal(t, "owner-a", b.CreatedBy)
	assert.NotNil(t, b.UpdatedAt)

	out = e.mustRun(append(owner, "brand", "delete", id)...)
	assert.Contains(t, out, "Deleted brand: "+id)

	_, err := e.run(append(owner, "brand", "get", id)...)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, exitUserError, ExitCode(err))
}

func TestBrandOwnerIsolation(t *testing.T) {
	e := newEnv(t)
	e.createdID("--owner", "owner-a", "brand", "add", "--name", "Acme")

	out := e.mustRun("--owner", "owner-b", "brand", "list", "--json")
	var brands []types.Brand
	require.NoError(t, json.Unmarshal([]byte(out), &brands))
	assert.Empty(t, brands)
}

func TestBrandSearch(t *testing.T) {
	e := newEnv(t)
	for _, name := range []string{"Brand", "Bravo", "Acme", "Brass"} {
		e.createdID("--owner", "owner-a", "brand", "add", "--name", name)
	}

	out := e.mustRun("--owner", "owner-a", "brand", "search", "Bra", "--json")
	var brands []types.Brand
	require.NoError(t, json.Unmarshal([]byte(out), &brands))

	var got []string
	for _, b := range brands {
		got = append(got, b.Name)
	}
	assert.Equal(t, []string{"Brand", "Brass", "Bravo"}, got)
}

func TestProductLifecycle(t *testing.T) {
	e := newEnv(t)
	owner := []string{"--owner", "owner-a"}

	acme := e.createdID(append(owner, "brand", "add", "--name", "Acme")...)
	widget := e.createdID(append(owner, "product", "add", "--name", "Widget", "--category", "Tools",
		"--price", "10", "--stock", "5", "--brand", acme)...)
	e.createdID(append(owner, "product", "add", "--name", "Lamp", "--category", "Lighting", "--price", "2.5", "--stock", "4")...)

	e.mustRun(append(owner, "product", "update", widget, "--stock", "3")...)

	out := e.mustRun(append(owner, "product", "get", widget, "--json")...)
	var view catalog.ProductView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 3, view.Stock)
	assert.Equal(t, acme, view.BrandID)
	assert.Equal(t, "Acme", view.BrandName)

	out = e.mustRun(append(owner, "product", "list")...)
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "No Brand")
	assert.Contains(t, out, "Total: 2 product(s)")

	out = e.mustRun(append(owner, "product", "list", "--brand", acme)...)
	assert.Contains(t, out, "Widget")
	assert.NotContains(t, out, "Lamp")

	out = e.mustRun(append(owner, "product", "list", "--filter", "LIGHT")...)
	assert.Contains(t, out, "Lamp")
	assert.NotContains(t, out, "Widget")

	out = e.mustRun(append(owner, "product", "search", "Wid")...)
	assert.Contains(t, out, "Widget")

	out = e.mustRun(append(owner, "dashboard", "--json")...)
	var d catalog.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, catalog.Dashboard{Products: 2, Brands: 1, InventoryValue: 40}, d)

	e.mustRun(append(owner, "brand", "delete", acme)...)
	out = e.mustRun(append(owner, "dashboard")...)
	assert.Contains(t, out, "Products:        1")
	assert.Contains(t, out, "Brands:          0")

	e.mustRun(append(owner, "product", "delete", widget)...)
	e.mustRun(append(owner, "product", "delete", widget)...)
}

func TestUserErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "missing owner", args: []string{"brand", "list"}, wantErr: types.ErrOwnerRequired},
		{name: "missing name", args: []string{"--owner", "o", "product", "add", "--name", ""}, wantErr: types.ErrInvalidData},
		{name: "negative price", args: []string{"--owner", "o", "product", "add", "--name", "W", "--price", "-1"}, wantErr: types.ErrInvalidData},
		{name: "bad logo url", args: []string{"--owner", "o", "brand", "add", "--name", "A", "--logo-url", "nope"}, wantErr: types.ErrInvalidData},
		{name: "unknown product", args: []string{"--owner", "o", "product", "get", "missing"}, wantErr: types.ErrNotFound},
		{name: "update missing brand", args: []string{"--owner", "o", "brand", "update", "missing", "--name", "X"}, wantErr: types.ErrNotFound},
		{name: "bad search field", args: []string{"--owner", "o", "brand", "search", "x", "--field", "a-b"}, wantErr: types.ErrInvalidFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newEnv(t).run(tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, exitUserError, ExitCode(err))
		})
	}
}

func TestUsageErrors(t *testing.T) {
	e := newEnv(t)

	_, err := e.run("--owner", "o", "brand", "get")
	assert.Equal(t, exitUserError, ExitCode(err))

	_, err = e.run("--owner", "o", "brand", "update", "b1")
	assert.Equal(t, exitUserError, ExitCode(err))
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{name: "unknown backend", yaml: "backend: mongo\nowner: o\n", wantErr: types.ErrBackendUnknown},
		{name: "postgres without dsn", yaml: "backend: postgres\nowner: o\n", wantErr: types.ErrDSNEmpty},
		{name: "unknown sync strategy", yaml: "backend: sqlite\nowner: o\nsync_strategy: sometimes\n", wantErr: types.ErrSyncStrategyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			require.NoError(t, os.MkdirAll(e.configDir, 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(e.configDir, configFileExt), []byte(tt.yaml), 0o644))

			_, err := e.run("brand", "list")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, exitUserError, ExitCode(err))
		})
	}
}

func TestOwnerFromEnv(t *testing.T) {
	e := newEnv(t)
	t.Setenv("BRANDLY_OWNER", "env-owner")

	id := e.createdID("brand", "add", "--name", "Acme")
	out := e.mustRun("brand", "get", id, "--json")
	var b types.Brand
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, "env-owner", b.CreatedBy)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitSuccess},
		{name: "plain error", err: errors.New("unknown flag"), want: exitUserError},
		{name: "user error", err: classify(fmt.Errorf("x: %w", types.ErrNotFound)), want: exitUserError},
		{name: "system error", err: classify(errors.New("disk full")), want: exitSysError},
		{name: "explicit code kept", err: classify(sysError(types.ErrNotFound)), want: exitSysError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
