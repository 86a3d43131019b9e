package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// PromptPicker reads a numbered choice from a plain reader. It is used when
// stdin is not a terminal.
type PromptPicker struct {
	in  io.Reader
	out io.Writer
	br  *bufio.Reader
}

// NewPromptPicker returns a PromptPicker reading in and prompting on out.
func NewPromptPicker(in io.Reader, out io.Writer) *PromptPicker {
	return &PromptPicker{in: in, out: out}
}

func (p *PromptPicker) PickMany(ctx context.Context, title string, options []string) ([]string, error) {
	idx, err := p.ask(ctx, title, options, true)
	if err != nil {
		return nil, err
	}

	return pick(options, idx), nil
}

func (p *PromptPicker) PickOne(ctx context.Context, title string, options []string) (string, error) {
	idx, err := p.ask(ctx, title, options, false)
	if err != nil {
		return "", err
	}

	return options[idx[0]], nil
}

func (p *PromptPicker) ask(ctx context.Context, title string, options []string, multi bool) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.br == nil {
		p.br = bufio.NewReader(p.in)
	}

	printOptions(p.out, title, options)
	_, _ = fmt.Fprint(p.out, promptText(len(options), multi))

	line, err := p.br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read selection: %w", err)
	}

	if errors.Is(err, io.EOF) && line == "" {
		return nil, ErrCanceled
	}

	return parseSelection(line, len(options), multi)
}
