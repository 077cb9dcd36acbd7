package cmd

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mgtest "github.com/go-drift/mountgraph/pkg/testing"
)

const feedFixture = `
width: 100
height: 60
root:
  type: column
  id: feed
  children:
    - type: color
      id: banner
      color: "#ff0000"
      width: 100
      height: 20
    - type: text
      id: label
      text: hello
frames:
  - type: column
    id: feed
    children:
      - type: color
        id: banner
        color: "#0000ff"
        width: 100
        height: 20
      - type: text
        id: label
        text: hello
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(args, &stdout, &stderr)
	return stdout.String(), err
}

func TestExecuteHelpAndVersion(t *testing.T) {
	out, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Commands:")
	for _, name := range []string{"layout", "diff", "render"} {
		assert.Contains(t, out, name)
	}

	out, err = run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "mountgraph version "+Version)

	out, err = run(t, "render", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "mountgraph render <fixture.yaml>")
}

func TestExecuteUnknownCommand(t *testing.T) {
	_, err := run(t, "explode")
	assert.EqualError(t, err, "unknown command: explode")
}

func TestExecuteBadConfig(t *testing.T) {
	cfg := writeFile(t, "mountgraph.yaml", "version: v2.0.0\n")
	fix := writeFile(t, "feed.yaml", feedFixture)
	_, err := run(t, "--config", cfg, "layout", fix)
	assert.Error(t, err)
}

func TestLayoutTable(t *testing.T) {
	fix := writeFile(t, "feed.yaml", feedFixture)
	out, err := run(t, "layout", fix, "--frame", "0")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "KIND")
	assert.Contains(t, out, "0,0 100x20")
	assert.Contains(t, out, "0,20 35x13")
}

func TestLayoutJSON(t *testing.T) {
	fix := writeFile(t, "feed.yaml", feedFixture)
	out, err := run(t, "layout", fix, "--json")
	require.NoError(t, err)

	var snap mgtest.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, [2]int{100, 60}, snap.Size)

	var colors []any
	for _, o := range snap.Outputs {
		if o.Type == "SolidColor" {
			colors = append(colors, o.Properties["Color"])
		}
	}
	assert.Equal(t, []any{"#ff0000ff"}, colors, "last frame is blue")
}

func TestLayoutRejectsBadFrame(t *testing.T) {
	fix := writeFile(t, "feed.yaml", feedFixture)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"out of range", []string{"layout", fix, "--frame", "5"}, "frame 5 out of range (fixture has 2)"},
		{"not a number", []string{"layout", fix, "--frame", "x"}, `invalid frame "x"`},
		{"missing value", []string{"layout", fix, "--frame"}, "--frame requires a frame index"},
		{"no fixture", []string{"layout"}, "fixture is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLayoutMetrics(t *testing.T) {
	cfg := writeFile(t, "mountgraph.yaml", "metrics:\n  enabled: true\n  namespace: fixture\n")
	fix := writeFile(t, "feed.yaml", feedFixture)
	out, err := run(t, "--config="+cfg, "layout", fix, "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "fixture_tree_calculations_total")
	assert.Contains(t, out, "fixture_tree_reconcile_decisions_total")
}

func TestDiff(t *testing.T) {
	fix := writeFile(t, "feed.yaml", feedFixture)
	out, err := run(t, "diff", fix, "--keys")
	require.NoError(t, err)

	assert.Contains(t, out, "frame 0: version")
	assert.Contains(t, out, "frame 1: version")
	assert.Contains(t, out, "reconcile: reuse=0 clone=0 resolve=")
	assert.Contains(t, out, "resolve: ")
	assert.Equal(t, 2, strings.Count(out, "  mount: "))
}

func TestRender(t *testing.T) {
	fix := writeFile(t, "feed.yaml", feedFixture)
	dst := filepath.Join(t.TempDir(), "out.png")
	out, err := run(t, "render", fix, "-o", dst, "--frame", "0", "--outlines", "--background", "#ffffff")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+dst+" (100x60, frame 0)")

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 60, img.Bounds().Dy())

	r, g, b, _ := img.At(50, 10).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{r, g, b})
}

func TestRenderRequiresOutput(t *testing.T) {
	fix := writeFile(t, "feed.yaml", feedFixture)
	_, err := run(t, "render", fix)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output are required")
}
