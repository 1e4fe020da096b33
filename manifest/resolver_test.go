package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolvePathDependencies(t *testing.T) {
	root := t.TempDir()
	app := filepath.Join(root, "app")
	writeManifest(t, app, `
[project]
name = "app"

[classpath]
dirs = ["classes"]

[dependencies]
util = { path = "../util" }
`)
	writeManifest(t, filepath.Join(root, "util"), `
[project]
name = "util"

[classpath]
dirs = ["out"]

[dependencies]
base = { path = "../base" }
`)
	// A dependency without a manifest contributes its root directory.
	base := filepath.Join(root, "base")
	if err := os.MkdirAll(base, 0755); err != nil {
		t.Fatal(err)
	}

	m, err := Load(app)
	if err != nil {
		t.Fatal(err)
	}
	r := NewResolver(m)
	deps, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(deps) != 2 || deps[0].Name != "base" || deps[1].Name != "util" {
		t.Fatalf("Resolve order = %v, want [base util]", names(deps))
	}
	if deps[0].Manifest != nil {
		t.Error("base has no manifest")
	}

	cp, err := r.Classpath()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(app, "classes"),
		base,
		filepath.Join(root, "util", "out"),
	}
	if strings.Join(cp, ":") != strings.Join(want, ":") {
		t.Errorf("Classpath() = %v, want %v", cp, want)
	}

	lock, err := ReadLock(m.LockFilePath())
	if err != nil {
		t.Fatalf("ReadLock: %v", err)
	}
	if len(lock.Deps) != 2 {
		t.Fatalf("lock deps = %+v", lock.Deps)
	}
	if ld := lock.FindLockedDep("util"); ld == nil || ld.Path != filepath.Join(root, "util") {
		t.Errorf("locked util = %+v", ld)
	}
	if lock.FindLockedDep("missing") != nil {
		t.Error("FindLockedDep(missing) should be nil")
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing path", "[dependencies]\nlib = { path = \"../nowhere\" }", "not found"},
		{"no source", "[dependencies]\nlib = { tag = \"v1\" }", "no git or path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, tt.content)
			m, err := Load(dir)
			if err != nil {
				t.Fatal(err)
			}
			_, err = NewResolver(m).Resolve()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Resolve error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestResolveWithoutDependencies(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[project]\nname = \"solo\"\n")
	m, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	cp, err := NewResolver(m).Classpath()
	if err != nil {
		t.Fatal(err)
	}
	if len(cp) != 1 || cp[0] != dir {
		t.Errorf("Classpath() = %v, want [%s]", cp, dir)
	}
}

func TestReadMissingLock(t *testing.T) {
	lf, err := ReadLock(filepath.Join(t.TempDir(), "lock.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(lf.Deps) != 0 {
		t.Errorf("missing lock has deps: %+v", lf.Deps)
	}
}

func names(deps []ResolvedDep) []string {
	var out []string
	for _, d := range deps {
		out = append(out, d.Name)
	}
	return out
}
