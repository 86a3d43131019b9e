// Package ui holds the interactive and presentational pieces of the CLI:
// option pickers, markdown rendering, and badge styling.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

// ErrCanceled is returned when the user aborts a selection.
var ErrCanceled = errors.New("selection canceled")

// ErrInvalidSelection is returned for input that names no valid option.
var ErrInvalidSelection = errors.New("invalid selection")

// Picker asks the user to choose among options.
type Picker interface {
	// PickMany returns the chosen options in option order. Choosing
	// nothing is not an error.
	PickMany(ctx context.Context, title string, options []string) ([]string, error)

	// PickOne returns exactly one option or an error.
	PickOne(ctx context.Context, title string, options []string) (string, error)
}

// PickerLine selects the line-editing picker via NESTKIT_PICKER.
const PickerLine = "line"

// NewPicker returns the picker suited to in: a form on a terminal, a
// line-editing prompt on a terminal when env asks for it, and a plain
// numbered prompt reading in otherwise.
func NewPicker(in io.Reader, out io.Writer, env map[string]string) Picker {
	if IsTerminal(in) {
		if env["NESTKIT_PICKER"] == PickerLine {
			return &LinePicker{out: out}
		}

		return &FormPicker{}
	}

	return &PromptPicker{in: in, out: out}
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printOptions writes the numbered option list.
func printOptions(out io.Writer, title string, options []string) {
	_, _ = fmt.Fprintln(out, title)

	for i, o := range options {
		_, _ = fmt.Fprintf(out, "  %d) %s\n", i+1, o)
	}
}

func promptText(n int, multi bool) string {
	if multi {
		return fmt.Sprintf("select [1-%d, comma separated, 'all'; empty for none]: ", n)
	}

	return fmt.Sprintf("select [1-%d]: ", n)
}

// parseSelection turns user input into option indexes. Multi-select input
// is a list of numbers separated by commas or spaces, or "all". Indexes
// are returned in option order without duplicates.
func parseSelection(input string, n int, multi bool) ([]int, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		if multi {
			return nil, nil
		}

		return nil, ErrCanceled
	}

	if multi && (input == "all" || input == "*") {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}

		return all, nil
	}

	fields := strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if !multi && len(fields) != 1 {
		return nil, fmt.Errorf("%w: pick exactly one", ErrInvalidSelection)
	}

	chosen := make([]bool, n)

	for _, f := range fields {
		num, err := strconv.Atoi(f)
		if err != nil || num < 1 || num > n {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSelection, f)
		}

		chosen[num-1] = true
	}

	var idx []int

	for i, ok := range chosen {
		if ok {
			idx = append(idx, i)
		}
	}

	return idx, nil
}

func pick(options []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = options[j]
	}

	return out
}
