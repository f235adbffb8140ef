package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skeletonize/pkg/observability"
	"github.com/matzehuels/skeletonize/pkg/pipeline"
	"github.com/matzehuels/skeletonize/pkg/stats"
)

const testSkeleton = `{
  "nodes": [
    {"id": 1, "x": 0, "y": 0, "z": 0, "diameter": 1},
    {"id": 2, "x": 10, "y": 0, "z": 0, "diameter": 1},
    {"id": 3, "x": 20, "y": 0, "z": 0, "diameter": 1}
  ],
  "segments": [
    {"start": 1, "end": 2, "points": [
      {"x": 0, "y": 0, "z": 0, "diameter": 1},
      {"x": 5, "y": 0, "z": 0, "diameter": 1},
      {"x": 10, "y": 0, "z": 0, "diameter": 1}
    ]},
    {"start": 3, "end": 2, "points": [
      {"x": 20, "y": 0, "z": 0, "diameter": 1},
      {"x": 15, "y": 0, "z": 0, "diameter": 1},
      {"x": 10, "y": 0, "z": 0, "diameter": 1}
    ]}
  ]
}`

const testAnnotations = `{"soma": {"centre": {"x": 0, "y": 0, "z": 0}, "radius": 2}}`

// writeInputs writes the test skeleton and annotations into a temp dir.
func writeInputs(t *testing.T) (dir, skel, ann string) {
	t.Helper()
	dir = t.TempDir()
	skel = filepath.Join(dir, "cell.json")
	ann = filepath.Join(dir, "cell.annotations.json")
	if err := os.WriteFile(skel, []byte(testSkeleton), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ann, []byte(testAnnotations), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, skel, ann
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

type recordingOutput struct {
	written, skipped []string
}

func (r *recordingOutput) OnWrite(_ context.Context, path string, err error) {
	if err == nil {
		r.written = append(r.written, path)
	}
}

func (r *recordingOutput) OnSkip(_ context.Context, path string) {
	r.skipped = append(r.skipped, path)
}

func TestConvertCommand(t *testing.T) {
	hooks := &recordingOutput{}
	observability.SetOutputHooks(hooks)
	defer observability.Reset()

	dir, skel, ann := writeInputs(t)
	outDir := filepath.Join(dir, "out")

	if _, err := execute(t, "convert", skel, ann, "-o", outDir); err != nil {
		t.Fatalf("convert error: %v", err)
	}

	out := filepath.Join(outDir, "cell.swc")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "# cell\n") {
		t.Errorf("output should start with the label, got %q", data[:min(len(data), 20)])
	}
	if len(hooks.written) != 1 || hooks.written[0] != out {
		t.Errorf("OnWrite paths = %v, want [%s]", hooks.written, out)
	}
}

func TestConvertCommandOverwrite(t *testing.T) {
	hooks := &recordingOutput{}
	observability.SetOutputHooks(hooks)
	defer observability.Reset()

	dir, skel, ann := writeInputs(t)
	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(outDir, "cell.json")
	if err := os.WriteFile(dest, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "convert", skel, ann, "-o", outDir, "--format", "json"); err != nil {
		t.Fatalf("convert error: %v", err)
	}
	if data, _ := os.ReadFile(dest); string(data) != "keep" {
		t.Errorf("existing output overwritten without --force: %q", data)
	}
	if len(hooks.skipped) != 1 {
		t.Errorf("OnSkip called %d times, want 1", len(hooks.skipped))
	}

	if _, err := execute(t, "convert", skel, ann, "-o", outDir, "--format", "json", "--force"); err != nil {
		t.Fatalf("convert --force error: %v", err)
	}
	if data, _ := os.ReadFile(dest); !strings.Contains(string(data), `"label": "cell"`) {
		t.Errorf("--force did not overwrite output: %q", data)
	}
}

func TestConvertCommandErrors(t *testing.T) {
	dir, skel, ann := writeInputs(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing skeleton", []string{"convert", filepath.Join(dir, "nope.json"), ann}},
		{"bad format", []string{"convert", skel, ann, "--format", "h5", "-o", dir}},
		{"missing config", []string{"convert", skel, ann, "--config", filepath.Join(dir, "nope.toml")}},
		{"wrong arg count", []string{"convert", skel}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPipelineOptionsPrecedence(t *testing.T) {
	var o convertOpts
	cmd := &cobra.Command{Use: "test"}
	addConversionFlags(cmd, &o)
	if err := cmd.Flags().Parse([]string{"-t", "2", "--depth", "3"}); err != nil {
		t.Fatal(err)
	}

	th, margin := 0.5, 1.0
	cfg := pipeline.Config{AllowCycles: true, Threshold: &th, Scale: 3, Depth: 9, AABBMargin: &margin}
	opts := o.pipelineOptions(cmd, cfg)

	if opts.Threshold == nil || *opts.Threshold != 2 {
		t.Errorf("Threshold = %v, want flag value 2", opts.Threshold)
	}
	if opts.DefaultThreshold != 0.5 {
		t.Errorf("DefaultThreshold = %v, want config value 0.5", opts.DefaultThreshold)
	}
	if opts.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want flag value 3", opts.MaxDepth)
	}
	if opts.Scale != 3 {
		t.Errorf("Scale = %v, want config value 3", opts.Scale)
	}
	if !opts.AllowCycles {
		t.Error("AllowCycles should come from the config")
	}
	if opts.ResolveMargin() != 1 {
		t.Errorf("ResolveMargin() = %v, want config value 1", opts.ResolveMargin())
	}
}

func TestPipelineOptionsDefaults(t *testing.T) {
	var o convertOpts
	cmd := &cobra.Command{Use: "test"}
	addConversionFlags(cmd, &o)
	if err := cmd.Flags().Parse(nil); err != nil {
		t.Fatal(err)
	}

	opts := o.pipelineOptions(cmd, pipeline.Config{})
	if opts.Scale != pipeline.DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, pipeline.DefaultScale)
	}
	if opts.Threshold != nil || opts.Margin != nil {
		t.Errorf("unset flags should stay nil: threshold %v margin %v", opts.Threshold, opts.Margin)
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct{ path, want string }{
		{"cell.json", "cell"},
		{"/data/run1/neuron.am.json", "neuron.am"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := labelFor(tt.path); got != tt.want {
			t.Errorf("labelFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWarningTable(t *testing.T) {
	st := &stats.Statistics{IgnoredEdges: 3, SimplifiedPoints: 12}
	got := warningTable(st)

	for _, want := range []string{"ignored edges", "simplified points", "12", "warning", "info"} {
		if !strings.Contains(got, want) {
			t.Errorf("warningTable() missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "cut nodes") {
		t.Errorf("warningTable() should omit zero counters:\n%s", got)
	}
}

func TestInspectCommand(t *testing.T) {
	_, skel, ann := writeInputs(t)
	if _, err := execute(t, "inspect", skel, ann, "--allow-cycles"); err != nil {
		t.Fatalf("inspect error: %v", err)
	}
}

func TestRenderCommandDOT(t *testing.T) {
	dir, skel, ann := writeInputs(t)
	out := filepath.Join(dir, "graph.dot")

	if _, err := execute(t, "render", skel, ann, "--format", "dot", "-o", out, "--detailed"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	for _, want := range []string{"digraph G", `"1" -> "2";`, "shape=ellipse"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("DOT output missing %q:\n%s", want, data)
		}
	}
}

func TestRenderCommandBadFormat(t *testing.T) {
	_, skel, ann := writeInputs(t)
	if _, err := execute(t, "render", skel, ann, "--format", "gif"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config")
	if err != nil {
		t.Fatalf("config error: %v", err)
	}
	for _, want := range []string{`format = "swc"`, "scale = 1.0", "depth = -1"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}

	path := filepath.Join(t.TempDir(), "cfg.toml")
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "config", "--config", path); err != nil {
		t.Errorf("printed config does not load back: %v", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, "skeletonize") {
		t.Error("bash completion should mention the command name")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
