package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/layoutstate"
)

// UpdateSnapshotsEnv names the environment variable that makes MatchesFile
// rewrite golden files instead of comparing.
const UpdateSnapshotsEnv = "MOUNTGRAPH_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the flattened outputs of one commit.
type Snapshot struct {
	Size    [2]int       `json:"size"`
	Outputs []OutputNode `json:"outputs"`
}

// OutputNode is one serialized output.
type OutputNode struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	// Type is the component type of content outputs.
	Type string `json:"type,omitempty"`
	// Bounds is x, y, width, height within the root.
	Bounds     [4]int         `json:"bounds"`
	Host       string         `json:"host,omitempty"`
	Properties map[string]any `json:"props,omitempty"`
}

// propertyWhitelist defines which fields to serialize per component or
// drawable spec type. Types not listed are serialized without props.
var propertyWhitelist = map[string][]string{
	"Text":       {"Content", "MaxLines", "Wrap"},
	"SolidColor": {"Color"},
	"Image":      {"Fit"},
	"ColorSpec":  {"Color"},
}

// CaptureSnapshot captures the mounted layout state.
func (t *TreeTester) CaptureSnapshot() *Snapshot {
	return NewSnapshot(t.State())
}

// NewSnapshot serializes s. A nil state yields an empty snapshot.
func NewSnapshot(s *layoutstate.State) *Snapshot {
	snap := &Snapshot{Outputs: []OutputNode{}}
	if s == nil {
		return snap
	}
	snap.Size = [2]int{s.Width, s.Height}
	for _, o := range s.Outputs() {
		node := OutputNode{
			ID:     o.ID,
			Kind:   o.Kind.String(),
			Bounds: [4]int{o.Bounds.Left, o.Bounds.Top, o.Bounds.Width(), o.Bounds.Height()},
			Host:   o.HostID,
		}
		switch {
		case o.Component != nil:
			node.Type = component.TypeName(o.Component)
			node.Properties = captureProperties(o.Component)
		case o.Drawable != nil:
			node.Properties = captureProperties(o.Drawable)
		}
		snap.Outputs = append(snap.Outputs, node)
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When the update variable is
// set to 1, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a unified diff from other to this snapshot, or "" when they
// are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(b)),
		B:        difflib.SplitLines(string(a)),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

func captureProperties(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	whitelist, ok := propertyWhitelist[rv.Type().Name()]
	if !ok {
		return nil
	}
	props := make(map[string]any)
	for _, name := range whitelist {
		field := rv.FieldByName(name)
		if !field.IsValid() {
			continue
		}
		if val := serializeFieldValue(field); val != nil {
			props[name] = val
		}
	}
	if len(props) == 0 {
		return nil
	}
	return props
}

func serializeFieldValue(v reflect.Value) any {
	if v.Type() == reflect.TypeOf(graphics.Color(0)) {
		return fmt.Sprintf("#%08x", v.Uint())
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	default:
		return nil
	}
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
