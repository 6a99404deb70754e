package prompt

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/battlewithbytes/image-to-app/internal/bundle"
)

// BuildMetadataForm constructs the form that collects an entry's name,
// comment and category for bundlePath.
func BuildMetadataForm(bundlePath, iconPath string, answers *MetadataAnswers) *huh.Form {
	if answers.Category == "" {
		answers.Category = string(bundle.Utility)
	}

	return huh.NewForm(
		summaryGroup(bundlePath, iconPath),
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description("Shown in the application menu and used as the entry's file name.").
				Value(&answers.Name).
				Validate(bundle.ValidateName),
			huh.NewInput().
				Title("Comment").
				Description("A short description shown as a tooltip.").
				Value(&answers.Comment).
				Validate(ValidateComment),
		),
		categoryGroup(answers),
	).WithTheme(huh.ThemeCatppuccin())
}

func summaryGroup(bundlePath, iconPath string) *huh.Group {
	return huh.NewGroup(
		huh.NewNote().
			Title("New launcher entry").
			Description(fmt.Sprintf("Bundle:  %s\nIcon:    %s", filepath.Base(bundlePath), filepath.Base(iconPath))),
	)
}

func categoryGroup(answers *MetadataAnswers) *huh.Group {
	opts := make([]huh.Option[string], 0, len(bundle.Categories))
	for _, c := range bundle.CategoryNames() {
		opts = append(opts, huh.NewOption(c, c))
	}

	return huh.NewGroup(
		huh.NewSelect[string]().
			Title("Category").
			Description("Menu section the entry appears under.").
			Options(opts...).
			Value(&answers.Category),
	)
}

// BuildOverwriteForm asks whether the descriptor at path may be replaced.
func BuildOverwriteForm(path string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s already exists. Overwrite?", filepath.Base(path))).
				Description(path).
				Affirmative("Overwrite").
				Negative("Keep").
				Value(confirmed),
		),
	).WithTheme(huh.ThemeCatppuccin())
}
