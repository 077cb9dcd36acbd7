package testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/testing/internal/testbed"
)

func TestFakeClock(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()

	clk.Advance(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, clk.Now().Sub(start))

	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	clk.Set(target)
	assert.True(t, clk.Now().Equal(target))
}

func TestSliderAnimatesWithTheClock(t *testing.T) {
	tester := NewTreeTesterWithT(t)
	tester.SetSize(graphics.Size{Width: 100, Height: 100})
	require.NoError(t, tester.Render(testbed.Slider{Offset: 0, Duration: 100 * time.Millisecond}))
	require.NoError(t, tester.Render(testbed.Slider{Offset: 40, Duration: 100 * time.Millisecond}))

	box := tester.Find(ByKey("box")).First()
	item, ok := tester.Tree().MountState().Item(box.Key())
	require.True(t, ok)
	assert.Equal(t, 1, tester.Tree().Transitions().Running())
	assert.Equal(t, 0, item.Content.Bounds().Top)

	tester.Clock().Advance(50 * time.Millisecond)
	tester.Pump()
	assert.Equal(t, 20, item.Content.Bounds().Top)

	require.NoError(t, tester.PumpAndSettle(time.Second))
	assert.Equal(t, 40, item.Content.Bounds().Top)
	assert.Zero(t, tester.Tree().Transitions().Running())
}
