// Package cmd implements the mountgraph CLI commands.
//
// The command structure follows a root command that dispatches to
// subcommands (layout, diff, render). Every command reads a fixture file
// and an optional mountgraph.yaml.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-drift/mountgraph/pkg/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name  string
	Short string
	Long  string
	Usage string
	Run   func(env *Env, args []string) error
}

// Env is what every command runs with.
type Env struct {
	Config *config.Config
	Stdout io.Writer
	Stderr io.Writer
}

var rootCmd = &Command{
	Name:  "mountgraph",
	Short: "mountgraph - inspect component trees",
	Long: `mountgraph reconciles, lays out, flattens and mounts component trees
described by YAML fixtures against a headless host.

Use "mountgraph <command> --help" for more information about a command.`,
	Usage: "mountgraph [--config FILE] <command> [flags]",
}

// Commands registered with the CLI, in registration order.
var (
	commands = make(map[string]*Command)
	ordered  []*Command
)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	ordered = append(ordered, cmd)
}

// Execute runs the CLI with the given arguments.
func Execute(args []string) error {
	return execute(args, os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printHelp(stdout)
		return nil
	}

	// Handle global flags and extract --config
	var (
		filteredArgs []string
		configPath   string
	)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(stdout)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Fprintf(stdout, "mountgraph version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--config":
			if i+1 >= len(args) {
				return fmt.Errorf("--config requires a file path")
			}
			configPath = args[i+1]
			i++
		default:
			if v, ok := strings.CutPrefix(arg, "--config="); ok {
				configPath = v
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp(stdout)
		return nil
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(stderr)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(stdout, cmd)
			return nil
		}
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	return cmd.Run(&Env{Config: cfg, Stdout: stdout, Stderr: stderr}, cmdArgs)
}

// loadConfig reads path, or mountgraph.yaml in the working directory when
// path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.LoadOptional(wd)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, rootCmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", rootCmd.Usage)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, sub := range ordered {
		fmt.Fprintf(w, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -h, --help           Show help for a command")
	fmt.Fprintln(w, "  -v, --version        Show version information")
	fmt.Fprintln(w, "  --config FILE        Settings file (default: ./mountgraph.yaml if present)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  mountgraph layout feed.yaml             Print the outputs of the last frame")
	fmt.Fprintln(w, "  mountgraph diff feed.yaml               Show reconcile and mount work per frame")
	fmt.Fprintln(w, "  mountgraph render feed.yaml -o out.png  Paint a frame to PNG")
}

func printCommandHelp(w io.Writer, cmd *Command) {
	fmt.Fprintln(w, cmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", cmd.Usage)
}
