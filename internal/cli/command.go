package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags.
	// The FlagSet name is not used - command identity comes from Usage.
	Flags *flag.FlagSet

	// Usage is the freeform usage string shown after "nestkit" in help.
	// Includes the command name and arguments/flags.
	// For example: "related <file>", "create <file> [name...] [flags]"
	Usage string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Examples are full command lines listed at the end of command help.
	Examples []string

	// Args validates the positional arguments before Exec runs.
	// Nil accepts anything.
	Args func(args []string) error

	// Exec runs the command after flags and arguments are validated.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// minArgs requires at least n positional arguments and reports err otherwise.
func minArgs(n int, err error) func([]string) error {
	return func(args []string) error {
		if len(args) < n {
			return err
		}

		return nil
	}
}

// fileAndPosition requires a file and a 1-based line:col position.
func fileAndPosition(args []string) error {
	switch len(args) {
	case 0:
		return ErrFileRequired
	case 1:
		return ErrPositionRequired
	}

	_, err := parsePosition(args[1])

	return err
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-34s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "nestkit <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: nestkit", c.Usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")

		var buf strings.Builder

		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("%s", buf.String())
	}

	if len(c.Examples) > 0 {
		o.Println()
		o.Println("Examples:")

		for _, ex := range c.Examples {
			o.Println("  nestkit " + ex)
		}
	}
}

// Run parses flags, validates arguments and executes the command.
// Returns the exit code: 1 on error or recorded warnings, 0 otherwise.
// Notes never change the exit code.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

	err := c.Flags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)

			return 0
		}

		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.PrintHelp(o)

		return 1
	}

	rest := c.Flags.Args()

	if c.Args != nil {
		if err := c.Args(rest); err != nil {
			o.ErrPrintln("error:", err)
			o.ErrPrintln("run 'nestkit " + c.Name() + " --help' for usage")

			return 1
		}
	}

	if err := c.Exec(ctx, o, rest); err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return o.Finish()
}
