package cmd

import (
	"fmt"
	"strings"

	"github.com/go-drift/mountgraph/pkg/reconcile"
)

func init() {
	RegisterCommand(&Command{
		Name:  "diff",
		Short: "Show reconcile and mount work per frame",
		Long: `Commit every frame of a fixture in order and report, per frame, how
each node was produced (reuse, clone or resolve) and what the mount pass
did to the host.

Flags:
  --keys   List the global keys behind every decision`,
		Usage: "mountgraph diff <fixture.yaml> [--keys]",
		Run:   runDiff,
	})
}

func runDiff(env *Env, args []string) error {
	var (
		path     string
		withKeys bool
	)
	for _, arg := range args {
		switch arg {
		case "--keys":
			withKeys = true
		default:
			if path != "" {
				return fmt.Errorf("unexpected argument %q", arg)
			}
			path = arg
		}
	}
	if path == "" {
		return fmt.Errorf("fixture is required\n\nUsage: mountgraph diff <fixture.yaml>")
	}

	s, err := newSession(env.Config, path)
	if err != nil {
		return err
	}
	defer s.close()

	return s.play(-1, func(f frame) error {
		d := f.Committed.Decisions
		fmt.Fprintf(env.Stdout, "frame %d: version %d\n", f.Index, f.Committed.Version)
		fmt.Fprintf(env.Stdout, "  reconcile: reuse=%d clone=%d resolve=%d\n",
			d.Count(reconcile.Reuse), d.Count(reconcile.Clone), d.Count(reconcile.Resolve))
		if withKeys {
			for _, dec := range []reconcile.Decision{reconcile.Reuse, reconcile.Clone, reconcile.Resolve} {
				if keys := d.Keys(dec); len(keys) > 0 {
					fmt.Fprintf(env.Stdout, "    %s: %s\n", dec, strings.Join(keys, " "))
				}
			}
		}
		m := f.Mount
		fmt.Fprintf(env.Stdout, "  mount: mounted=%d unmounted=%d moved=%d rebound=%d remounted=%d\n",
			m.Mounted, m.Unmounted, m.Moved, m.Rebound, m.Remounted)
		return nil
	})
}
