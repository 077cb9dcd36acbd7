// Package testing provides a harness for component trees.
//
// # Quick Start
//
// Create a tester, render a tree, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := mgtest.NewTreeTesterWithT(t)
//	    require.NoError(t, tester.Render(Counter{}))
//
//	    // Find nodes
//	    label := tester.Find(mgtest.ByText("0")).First()
//
//	    // Simulate clicks on mounted views
//	    require.NoError(t, tester.Tap(mgtest.ByKey("button")))
//
//	    assert.True(t, tester.Find(mgtest.ByText("1")).Exists())
//	}
//
// # Background Layout
//
// RenderAsync only queues work. Pump runs the queued layout, the posted
// mount and one animation frame:
//
//	tester.RenderAsync(root)
//	tester.Pump()
//
// # Snapshot Testing
//
// Capture and compare the mounted outputs:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/feed.snapshot.json")
//
// Update snapshots with:
//
//	MOUNTGRAPH_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Transition Testing
//
// Transitions run on a fake clock:
//
//	tester.Clock().Advance(100 * time.Millisecond)
//	tester.Pump()
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import mgtest "github.com/go-drift/mountgraph/pkg/testing"
package testing
