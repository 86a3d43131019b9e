package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/peterh/liner"
)

// LinePicker prompts for a numbered choice with line editing.
type LinePicker struct {
	out io.Writer
}

func (p *LinePicker) PickMany(ctx context.Context, title string, options []string) ([]string, error) {
	idx, err := p.ask(ctx, title, options, true)
	if err != nil {
		return nil, err
	}

	return pick(options, idx), nil
}

func (p *LinePicker) PickOne(ctx context.Context, title string, options []string) (string, error) {
	idx, err := p.ask(ctx, title, options, false)
	if err != nil {
		return "", err
	}

	return options[idx[0]], nil
}

func (p *LinePicker) ask(ctx context.Context, title string, options []string, multi bool) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	printOptions(p.out, title, options)

	state := liner.NewLiner()
	defer state.Close()

	state.SetCtrlCAborts(true)

	for {
		line, err := state.Prompt(promptText(len(options), multi))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil, ErrCanceled
			}

			return nil, fmt.Errorf("read selection: %w", err)
		}

		idx, err := parseSelection(line, len(options), multi)
		if errors.Is(err, ErrInvalidSelection) {
			_, _ = fmt.Fprintln(p.out, err)

			continue
		}

		if err == nil {
			state.AppendHistory(line)
		}

		return idx, err
	}
}
