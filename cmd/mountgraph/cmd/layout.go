package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	mgtest "github.com/go-drift/mountgraph/pkg/testing"
)

func init() {
	RegisterCommand(&Command{
		Name:  "layout",
		Short: "Print the mounted outputs of a frame",
		Long: `Lay out a fixture and print the outputs mounted for one frame.

Frames before the selected one are committed first, so the output ids and
bounds are exactly what a host would see at that point.

Flags:
  --frame N   Frame to print (default: last)
  --json      Print the output snapshot as JSON
  --metrics   Print collected metrics (requires metrics.enabled)`,
		Usage: "mountgraph layout <fixture.yaml> [--frame N] [--json] [--metrics]",
		Run:   runLayout,
	})
}

func runLayout(env *Env, args []string) error {
	var (
		path        string
		last        = -1
		asJSON      bool
		withMetrics bool
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--frame":
			n, err := frameFlag(args, i)
			if err != nil {
				return err
			}
			last = n
			i++
		case "--json":
			asJSON = true
		case "--metrics":
			withMetrics = true
		default:
			if path != "" {
				return fmt.Errorf("unexpected argument %q", args[i])
			}
			path = args[i]
		}
	}
	if path == "" {
		return fmt.Errorf("fixture is required\n\nUsage: mountgraph layout <fixture.yaml>")
	}

	s, err := newSession(env.Config, path)
	if err != nil {
		return err
	}
	defer s.close()

	var final frame
	if err := s.play(last, func(f frame) error {
		final = f
		return nil
	}); err != nil {
		return err
	}

	snap := mgtest.NewSnapshot(final.Committed.State)
	if asJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return err
		}
	} else {
		w := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "#\tKIND\tID\tBOUNDS\tHOST\n")
		for i, o := range snap.Outputs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d,%d %dx%d\t%s\n", i, o.Kind, o.ID, o.Bounds[0], o.Bounds[1], o.Bounds[2], o.Bounds[3], o.Host)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	if withMetrics {
		return s.writeMetrics(env.Stdout)
	}
	return nil
}
