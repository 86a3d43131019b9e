package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/calvinalkan/nestkit/internal/config"
	"github.com/calvinalkan/nestkit/internal/fs"
	"github.com/calvinalkan/nestkit/internal/symbols"
	"github.com/calvinalkan/nestkit/internal/ui"
	"github.com/charmbracelet/log"

	flag "github.com/spf13/pflag"
)

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. When a signal arrives, the command's context is
// cancelled; long-running commands (watch) stop cleanly.
func Run(stdin io.Reader, out, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("nestkit", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use config `file`")
	verbose := globals.BoolP("verbose", "v", false, "Log debug output to stderr")
	help := globals.BoolP("help", "h", false, "Show help")

	if len(args) > 0 {
		args = args[1:]
	}

	if err := globals.Parse(args); err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, nil)

		return 1
	}

	rest := globals.Args()
	if *help || len(rest) == 0 {
		printUsage(out, nil)

		return 0
	}

	logger := newLogger(errOut, *verbose || isTruthy(env["NESTKIT_DEBUG"]))

	dir, err := resolveWorkDir(*workDir)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	fsys := fs.NewReal()

	resolver, err := config.NewResolver(fsys, config.ResolverInput{
		WorkDir:    dir,
		ConfigPath: *configPath,
		Env:        env,
		Logger:     logger,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if stdin == nil {
		stdin = strings.NewReader("")
	}

	app := &App{
		FS:      fsys,
		Config:  resolver,
		Logger:  logger,
		Env:     env,
		WorkDir: dir,
		Picker:  ui.NewPicker(stdin, errOut, env),
		Symbols: symbols.NewTreeSitter(),
		Now:     time.Now,
		Color:   ui.IsTerminal(out),
		Launch:  launchEditor,
	}

	commands := Commands(app)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	name := rest[0]

	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd.Run(ctx, NewIO(out, errOut), rest[1:])
		}
	}

	fprintln(errOut, "error:", fmt.Errorf("%w: %s", ErrUnknownCommand, name))
	printUsage(errOut, commands)

	return 1
}

// Commands returns all commands bound to app, in help order.
func Commands(app *App) []*Command {
	return []*Command{
		CreateCmd(app),
		RelatedCmd(app),
		SplitCmd(app),
		MvCmd(app),
		SyncCmd(app),
		BadgeCmd(app),
		HoverCmd(app),
		DefinitionCmd(app),
		RefsCmd(app),
		WatchCmd(app),
		PrintConfigCmd(app),
	}
}

func printUsage(w io.Writer, commands []*Command) {
	if commands == nil {
		commands = Commands(&App{})
	}

	fprintln(w, "nestkit - work with nested companion files")
	fprintln(w)
	fprintln(w, "Usage: nestkit [flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Flags:")
	fprintln(w, "  -C, --cwd <dir>      Run as if started in <dir>")
	fprintln(w, "  -c, --config <file>  Use config file")
	fprintln(w, "  -v, --verbose        Log debug output to stderr")
	fprintln(w, "  -h, --help           Show help")
	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range commands {
		fprintln(w, cmd.HelpLine())
	}

	fprintln(w)
	fprintln(w, "Run 'nestkit <command> --help' for more information on a command.")
}

func resolveWorkDir(flagValue string) (string, error) {
	if flagValue == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("cannot get working directory: %w", err)
		}

		return wd, nil
	}

	abs, err := filepath.Abs(flagValue)
	if err != nil {
		return "", fmt.Errorf("cannot resolve working directory: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot use working directory: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, abs)
	}

	return abs, nil
}

func newLogger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "nestkit", Level: log.WarnLevel})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	return logger
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}

	return false
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
