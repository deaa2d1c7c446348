package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testCLI returns a CLI with isolated config and cache directories and
// captured output.
func testCLI(t *testing.T, stdin string) (*CLI, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out bytes.Buffer
	prev := uiOut
	uiOut = &out
	t.Cleanup(func() { uiOut = prev })

	c := New(io.Discard, LogInfo)
	c.stdin = strings.NewReader(stdin)
	c.stdout = &out
	return c, &out
}

func execute(c *CLI, args ...string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestInterpretCommandInline(t *testing.T) {
	c, out := testCLI(t, "")
	if err := execute(c, "interpret", "-e", "layout subgraph {a, b} style tree"); err != nil {
		t.Fatalf("interpret error: %v", err)
	}
	for _, want := range []string{"{a,b}", "style", "tree", "subgraphs", "1 directive", "fresh"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestInterpretCommandStdinJSON(t *testing.T) {
	c, out := testCLI(t, "layout graph algorithm circular distance = 4")
	if err := execute(c, "interpret", "--json"); err != nil {
		t.Fatalf("interpret error: %v", err)
	}
	if !strings.Contains(out.String(), `"form":"graph"`) {
		t.Errorf("output is not the result JSON:\n%s", out.String())
	}
}

func TestInterpretCommandFileAndCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.txt")
	if err := os.WriteFile(path, []byte("layout others criteria planarity, flow"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, out := testCLI(t, "")
	if err := execute(c, "interpret", path); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := execute(c, "interpret", path); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "cached") {
		t.Errorf("second run should come from the file cache:\n%s", out.String())
	}
}

func TestInterpretCommandError(t *testing.T) {
	c, out := testCLI(t, "")
	err := execute(c, "interpret", "-e", "layout graph style sparkly")
	if !errors.Is(err, errInterpretation) || !Reported(err) {
		t.Fatalf("error = %v, want errInterpretation", err)
	}
	if !strings.Contains(out.String(), "sparkly") {
		t.Errorf("error message should be printed:\n%s", out.String())
	}
}

func TestInterpretCommandMissingFile(t *testing.T) {
	c, _ := testCLI(t, "")
	err := execute(c, "interpret", filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil || Reported(err) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestRenderCommandStdout(t *testing.T) {
	c, out := testCLI(t, "")
	if err := execute(c, "render", "-e", "layout graph not planarity", "-f", "DOT", "--rankdir", "LR"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "digraph layout {") || !strings.Contains(out.String(), "rankdir=LR;") {
		t.Errorf("stdout is not the DOT source:\n%s", out.String())
	}
}

func TestRenderCommandFiles(t *testing.T) {
	c, _ := testCLI(t, "")
	base := filepath.Join(t.TempDir(), "out", "diagram")
	if err := execute(c, "render", "-e", "layout graph style tree", "-f", "dot,json", "-o", base, "--no-cache"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, ext := range []string{".dot", ".json"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s output: %v", ext, err)
		}
	}
}

func TestRenderCommandRankDirFromConfig(t *testing.T) {
	c, out := testCLI(t, "")
	cfgDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName)
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte("[render]\nrank_dir = \"BT\"\n[cache]\nbackend = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(c, "render", "-e", "layout graph style tree", "-f", "dot"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "rankdir=BT;") {
		t.Errorf("config rank_dir ignored:\n%s", out.String())
	}
}

func TestRenderCommandBadFormat(t *testing.T) {
	c, _ := testCLI(t, "")
	if err := execute(c, "render", "-e", "layout graph style tree", "-f", "png"); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestCacheCommands(t *testing.T) {
	c, out := testCLI(t, "")
	if err := execute(c, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	dir := strings.TrimSpace(out.String())
	if want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName); dir != want {
		t.Errorf("cache path = %q, want %q", dir, want)
	}

	out.Reset()
	if err := execute(c, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cache is empty") {
		t.Errorf("clearing a missing cache: %s", out.String())
	}

	if err := execute(c, "interpret", "-e", "layout graph style tree"); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := execute(c, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cleared 1 cached entries") {
		t.Errorf("cache clear output: %s", out.String())
	}
}

func TestCompletionCommand(t *testing.T) {
	c, out := testCLI(t, "")
	if err := execute(c, "completion", "bash"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), appName) {
		t.Error("bash completion should mention the program")
	}
	if err := execute(c, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); len(got) != 1 || got[0] != "svg" {
		t.Errorf("parseFormats(\"\") = %v, want [svg]", got)
	}
	if got := parseFormats("dot, svg,,json"); len(got) != 3 || got[1] != "svg" {
		t.Errorf("parseFormats = %v, want [dot svg json]", got)
	}
}
