package testing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/layout"
	"github.com/go-drift/mountgraph/pkg/widgets"
)

// recordingT captures failures instead of failing the test.
type recordingT struct {
	fatals []string
	errors []string
}

func (r *recordingT) Helper()                           {}
func (r *recordingT) Name() string                      { return "TestRecording" }
func (r *recordingT) Fatalf(format string, args ...any) { r.fatals = append(r.fatals, format) }
func (r *recordingT) Errorf(format string, args ...any) { r.errors = append(r.errors, format) }

func snapshotTree(color graphics.Color) component.Component {
	return widgets.Column{
		ID:     "root",
		Layout: layout.NewStyle().Background(widgets.ColorSpec{Color: graphics.RGB(250, 250, 250)}),
		Items: []component.Component{
			widgets.Text{ID: "title", Content: "Inbox"},
			widgets.SolidColor{ID: "bar", Color: color, Height: 4},
		},
	}
}

func TestCaptureSnapshot(t *testing.T) {
	tester := NewTreeTesterWithT(t)
	tester.SetSize(graphics.Size{Width: 100, Height: 50})
	require.NoError(t, tester.Render(snapshotTree(graphics.RGB(255, 0, 0))))

	snap := tester.CaptureSnapshot()
	assert.Equal(t, [2]int{100, 50}, snap.Size)
	require.Len(t, snap.Outputs, 4)

	assert.Equal(t, OutputNode{ID: "root#host", Kind: "host", Bounds: [4]int{0, 0, 100, 50}}, snap.Outputs[0])
	assert.Equal(t, "background", snap.Outputs[1].Kind)
	assert.Equal(t, map[string]any{"Color": "#fffafafa"}, snap.Outputs[1].Properties)

	title := snap.Outputs[2]
	assert.Equal(t, "root,title", title.ID)
	assert.Equal(t, "Text", title.Type)
	assert.Equal(t, "root#host", title.Host)
	assert.Equal(t, [4]int{0, 0, 35, 13}, title.Bounds)
	assert.Equal(t, "Inbox", title.Properties["Content"])

	assert.Equal(t, map[string]any{"Color": "#ffff0000"}, snap.Outputs[3].Properties)
}

func TestSnapshotDiff(t *testing.T) {
	tester := NewTreeTesterWithT(t)
	require.NoError(t, tester.Render(snapshotTree(graphics.RGB(255, 0, 0))))
	a := tester.CaptureSnapshot()
	assert.Empty(t, a.Diff(tester.CaptureSnapshot()))

	require.NoError(t, tester.Render(snapshotTree(graphics.RGB(0, 0, 255))))
	diff := tester.CaptureSnapshot().Diff(a)
	assert.Contains(t, diff, `-        "Color": "#ffff0000"`)
	assert.Contains(t, diff, `+        "Color": "#ff0000ff"`)
}

func TestMatchesFile(t *testing.T) {
	tester := NewTreeTesterWithT(t)
	require.NoError(t, tester.Render(snapshotTree(graphics.RGB(255, 0, 0))))
	snap := tester.CaptureSnapshot()
	path := filepath.Join(t.TempDir(), "testdata", "feed.snapshot.json")

	rec := &recordingT{}
	snap.MatchesFile(rec, path)
	require.Len(t, rec.fatals, 1, "missing file is fatal")

	require.NoError(t, snap.UpdateFile(path))
	rec = &recordingT{}
	snap.MatchesFile(rec, path)
	assert.Empty(t, rec.fatals)
	assert.Empty(t, rec.errors)

	require.NoError(t, tester.Render(snapshotTree(graphics.RGB(0, 0, 255))))
	tester.CaptureSnapshot().MatchesFile(rec, path)
	assert.Len(t, rec.errors, 1)

	t.Setenv(UpdateSnapshotsEnv, "1")
	rec = &recordingT{}
	tester.CaptureSnapshot().MatchesFile(rec, path)
	assert.Empty(t, rec.fatals)
}
