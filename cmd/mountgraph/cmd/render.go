package cmd

import (
	"fmt"

	"github.com/go-drift/mountgraph/pkg/debugdraw"
	"github.com/go-drift/mountgraph/pkg/fixture"
)

func init() {
	RegisterCommand(&Command{
		Name:  "render",
		Short: "Paint a frame to PNG",
		Long: `Lay out a fixture and paint the outputs of one frame to a PNG file.

Flags:
  -o, --output FILE    PNG file to write (required)
  --frame N            Frame to paint (default: last)
  --outlines           Stroke the bounds of every host view
  --labels             Write output ids next to host views
  --background COLOR   Canvas color, #rrggbb (default: transparent)`,
		Usage: "mountgraph render <fixture.yaml> -o out.png [--frame N] [--outlines] [--labels]",
		Run:   runRender,
	})
}

func runRender(env *Env, args []string) error {
	var (
		path, out string
		last      = -1
		opts      debugdraw.Options
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 >= len(args) {
				return fmt.Errorf("%s requires a file path", args[i])
			}
			out = args[i+1]
			i++
		case "--frame":
			n, err := frameFlag(args, i)
			if err != nil {
				return err
			}
			last = n
			i++
		case "--outlines":
			opts.Outlines = true
		case "--labels":
			opts.Labels = true
		case "--background":
			if i+1 >= len(args) {
				return fmt.Errorf("--background requires a color")
			}
			c, err := fixture.ParseColor(args[i+1])
			if err != nil {
				return err
			}
			opts.Background = c
			i++
		default:
			if path != "" {
				return fmt.Errorf("unexpected argument %q", args[i])
			}
			path = args[i]
		}
	}
	if path == "" || out == "" {
		return fmt.Errorf("fixture and --output are required\n\nUsage: mountgraph render <fixture.yaml> -o out.png")
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
	if err := debugdraw.SavePNG(out, final.Committed.State, opts); err != nil {
		return err
	}
	fmt.Fprintf(env.Stdout, "wrote %s (%dx%d, frame %d)\n", out, final.Committed.State.Width, final.Committed.State.Height, final.Index)
	return nil
}
