package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labelgraph/pkg/config"
	"github.com/matzehuels/labelgraph/pkg/pipeline"
	"github.com/matzehuels/labelgraph/pkg/server"
)

const waterGraph = `// (O,(H,H));
AUTHOR: someone
#nodes;3
#edges;2
Nodes labelled;True
Edges labelled;False
Directed graph;False

1°4;8,8,6
2;1
3;1,1

1°4;2
1°4;3
`

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	old := stdout
	stdout = buf
	t.Cleanup(func() { stdout = old })
	return buf
}

// isolate points config, cache and author lookups at temporary locations.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(config.EnvAuthor, "tester")
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "water.graph")
	if err := os.WriteFile(path, []byte(waterGraph), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := captureStdout(t)
	captureStderr(t)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestWriteFull(t *testing.T) {
	isolate(t)
	input := writeInput(t)
	outDir := t.TempDir()

	out, err := runCLI(t, "write", "full", input, "-o", outDir, "--name", "h2o")
	if err != nil {
		t.Fatalf("write full: %v", err)
	}
	if !strings.Contains(out, "Saved graph as h2o.graph") {
		t.Errorf("output %q should report the saved file", out)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "h2o.graph"))
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Replace(waterGraph, "AUTHOR: someone", "AUTHOR: tester", 1)
	if string(data) != want {
		t.Errorf("written file =\n%s\nwant\n%s", data, want)
	}
}

func TestWriteShorter(t *testing.T) {
	isolate(t)
	input := writeInput(t)
	outDir := t.TempDir()

	out, err := runCLI(t, "write", "shorter", input, "-o", outDir, "--author", "me", "--label-sep", "_", "--input-sep", ",", "--ids")
	if err != nil {
		t.Fatalf("write shorter: %v", err)
	}
	if !strings.Contains(out, "Saved graph as water.shorter.graph") {
		t.Errorf("output %q should report the saved file", out)
	}
	if !strings.Contains(out, "1°4") {
		t.Errorf("--ids output %q should list node keys", out)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "water.shorter.graph"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"AUTHOR: me\n", "\n1;8_8_6\n2;1\n3;1_1\n\n1;2\n1;3\n"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("shorter file missing %q:\n%s", want, data)
		}
	}
}

func TestWriteMissingInput(t *testing.T) {
	isolate(t)
	if _, err := runCLI(t, "write", "full", filepath.Join(t.TempDir(), "absent.graph")); err == nil {
		t.Error("expected error for missing input")
	}
}

func decodeConsensus(t *testing.T, out string) server.ConsensusResponse {
	t.Helper()
	var resp server.ConsensusResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	return resp
}

func consensusLabels(resp server.ConsensusResponse) []string {
	out := make([]string, len(resp.Nodes))
	for i, n := range resp.Nodes {
		out[i] = n.Consensus
	}
	return out
}

func TestConsensusJSON(t *testing.T) {
	isolate(t)
	input := writeInput(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Plain", []string{"--translate=false"}, "8,1,1"},
		{"TranslatedSource", []string{"--translate"}, "O|C|-,H|-,H|-"},
		{"TranslatedCounting", []string{"--translate", "--counting", "translated"}, "O,H,H"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"consensus", input, "--json", "--no-cache"}, tt.args...)
			out, err := runCLI(t, args...)
			if err != nil {
				t.Fatalf("consensus: %v", err)
			}
			resp := decodeConsensus(t, out)
			if resp.Graph != "water" {
				t.Errorf("Graph = %q, want water", resp.Graph)
			}
			if got := strings.Join(consensusLabels(resp), ","); got != tt.want {
				t.Errorf("labels = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConsensusTable(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "consensus", writeInput(t), "--translate", "--counting", "translated")
	if err != nil {
		t.Fatalf("consensus: %v", err)
	}
	for _, want := range []string{"Consensus labels for water", "1°4", "translated", "3 nodes"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q should contain %q", out, want)
		}
	}
}

func TestConsensusInvalidCounting(t *testing.T) {
	isolate(t)
	if _, err := runCLI(t, "consensus", writeInput(t), "--counting", "majority"); err == nil {
		t.Error("expected error for unknown count mode")
	}
}

func TestConsensusRemote(t *testing.T) {
	isolate(t)
	logger := log.New(io.Discard)
	srv := server.New(pipeline.NewRunner(nil, nil, logger), pipeline.Options{}, logger)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	out, err := runCLI(t, "consensus", writeInput(t), "--server", ts.URL, "--json", "--translate", "--counting", "translated")
	if err != nil {
		t.Fatalf("consensus --server: %v", err)
	}
	resp := decodeConsensus(t, out)
	if resp.Graph != "water" || !resp.Translated {
		t.Errorf("resp = %+v", resp)
	}
	if got := strings.Join(consensusLabels(resp), ","); got != "O,H,H" {
		t.Errorf("labels = %s, want O,H,H", got)
	}
}

func TestVisualizeDOT(t *testing.T) {
	isolate(t)
	output := filepath.Join(t.TempDir(), "water.dot")

	out, err := runCLI(t, "visualize", writeInput(t), "--dot", "-o", output, "--translate", "--counting", "translated")
	if err != nil {
		t.Fatalf("visualize: %v", err)
	}
	if !strings.Contains(out, "Saved diagram as water.dot") {
		t.Errorf("output %q should report the saved file", out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"graph G {", `n1 [label="O", width=0.65];`, "n1 -- n2;"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("DOT missing %q:\n%s", want, data)
		}
	}
}

func TestVisualizeSVG(t *testing.T) {
	isolate(t)
	output := filepath.Join(t.TempDir(), "water.svg")

	if _, err := runCLI(t, "visualize", writeInput(t), "-o", output); err != nil {
		t.Fatalf("visualize: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("output should be an SVG document")
	}
}

func TestConfigFile(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvAuthor, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "author = \"from-config\"\nlabel_sep = \"_\"\n\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{`author = "from-config"`, `label_sep = "_"`, `backend = "none"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), path)
	}
}

func TestAuthorEnvWithoutConfigPath(t *testing.T) {
	isolate(t)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	t.Setenv(config.EnvAuthor, "from-env")

	out, err := runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, `author = "from-env"`) {
		t.Errorf("config show should apply %s without a config path:\n%s", config.EnvAuthor, out)
	}
}

func TestConfigFileInvalid(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("label_sep = \";\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "--config", path, "cache", "path"); err == nil {
		t.Error("invalid config should fail every command")
	}
}

func TestCacheClear(t *testing.T) {
	isolate(t)
	input := writeInput(t)

	if _, err := runCLI(t, "consensus", input); err != nil {
		t.Fatalf("consensus: %v", err)
	}
	out, err := runCLI(t, "consensus", input)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cached") {
		t.Errorf("second run should be served from cache:\n%s", out)
	}

	out, err = runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("cache clear output = %q", out)
	}
}

func TestAuthorFallback(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.config.Author = "configured"
	if got := c.author(); got != "configured" {
		t.Errorf("author() = %q, want configured", got)
	}

	c.config.Author = ""
	if got := c.author(); got == "" {
		t.Error("author() should fall back to the current user or unknown")
	}
}

func TestSQLiteBackend(t *testing.T) {
	isolate(t)
	input := writeInput(t)
	db := filepath.Join(t.TempDir(), "results.db")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[cache]\nbackend = \"sqlite\"\nsqlite_path = \"" + db + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if _, err := runCLI(t, "--config", path, "consensus", input); err != nil {
			t.Fatalf("consensus run %d: %v", i, err)
		}
	}
	if _, err := os.Stat(db); err != nil {
		t.Fatalf("sqlite database not created: %v", err)
	}

	out, err := runCLI(t, "--config", path, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != db {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), db)
	}

	out, err = runCLI(t, "--config", path, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("cache clear output = %q", out)
	}
}
