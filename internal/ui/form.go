package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"
)

// FormPicker shows a terminal selection form.
type FormPicker struct{}

func (*FormPicker) PickMany(ctx context.Context, title string, options []string) ([]string, error) {
	var results []string

	sel := huh.NewMultiSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&results)

	if err := run(ctx, huh.NewForm(huh.NewGroup(sel))); err != nil {
		return nil, err
	}

	// Keep option order regardless of toggle order.
	chosen := make(map[string]bool, len(results))
	for _, r := range results {
		chosen[r] = true
	}

	ordered := make([]string, 0, len(results))

	for _, o := range options {
		if chosen[o] {
			ordered = append(ordered, o)
		}
	}

	return ordered, nil
}

func (*FormPicker) PickOne(ctx context.Context, title string, options []string) (string, error) {
	var result string

	sel := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&result)

	if err := run(ctx, huh.NewForm(huh.NewGroup(sel))); err != nil {
		return "", err
	}

	return result, nil
}

func run(ctx context.Context, form *huh.Form) error {
	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCanceled
	}

	return err
}
