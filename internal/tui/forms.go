package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/models"
	"github.com/julianstephens/yearlit/internal/workspace"
)

var stateLabels = []string{"0 · unrecorded", "1 · rough", "2 · low", "3 · okay", "4 · good", "5 · great"}

func newNoteForm(day string, f *NoteFormModel) *huh.Form {
	options := make([]huh.Option[int], len(stateLabels))
	for i, label := range stateLabels {
		options[i] = huh.NewOption(label, i)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("How was " + day + "?").
				Options(options...).
				Value(&f.State),
			huh.NewInput().
				Title("Note").
				Description("Up to 50 characters").
				CharLimit(constants.MaxNoteLength).
				Value(&f.Note),
		),
	)
}

func validateISO(s string) error {
	if !dates.IsISODate(strings.TrimSpace(s)) {
		return errors.New("expected YYYY-MM-DD")
	}
	return nil
}

func newRangeForm(f *RangeFormModel) *huh.Form {
	colors := make([]huh.Option[models.Color], len(models.Palette))
	for i, c := range models.Palette {
		colors[i] = huh.NewOption(string(c), c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder(constants.DefaultRangeName).
				Value(&f.Name),
			huh.NewInput().
				Title("Start").
				Validate(validateISO).
				Value(&f.Start),
			huh.NewInput().
				Title("End").
				Validate(func(s string) error {
					if err := validateISO(s); err != nil {
						return err
					}
					if strings.TrimSpace(s) < strings.TrimSpace(f.Start) {
						return errors.New("end is before start")
					}
					return nil
				}).
				Value(&f.End),
			huh.NewSelect[models.Color]().
				Title("Color").
				Options(colors...).
				Value(&f.Color),
			huh.NewInput().
				Title("Goal").
				Value(&f.Goal),
		),
	)
}

func (f RangeFormModel) draft() workspace.Draft {
	return workspace.Draft{
		Name:     f.Name,
		StartISO: strings.TrimSpace(f.Start),
		EndISO:   strings.TrimSpace(f.End),
		Color:    f.Color,
		Goal:     f.Goal,
	}
}
