package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/testing/internal/testbed"
	"github.com/go-drift/mountgraph/pkg/widgets"
)

func TestTapUpdatesState(t *testing.T) {
	tester := NewTreeTesterWithT(t)
	require.NoError(t, tester.Render(testbed.Counter{ID: "counter", Initial: 1}))
	assert.True(t, tester.Find(ByText("1")).Exists())

	require.NoError(t, tester.Tap(ByKey("button")))
	assert.True(t, tester.Find(ByText("2")).Exists())

	require.NoError(t, tester.TapAt(graphics.Point{X: 10, Y: 10}))
	assert.True(t, tester.Find(ByText("3")).Exists())
}

func TestTapErrors(t *testing.T) {
	tester := NewTreeTesterWithT(t)
	require.NoError(t, tester.Render(widgets.Column{ID: "root", Items: nil}))

	assert.ErrorContains(t, tester.Tap(ByKey("missing")), "matched no nodes")
	assert.ErrorContains(t, tester.TapAt(graphics.Point{X: 1, Y: 1}), "no interactive host")

	consumed, err := tester.LongPress(ByKey("root"))
	require.NoError(t, err)
	assert.False(t, consumed)
	assert.ErrorContains(t, tester.Tap(ByKey("root")), "no click listener")
}
