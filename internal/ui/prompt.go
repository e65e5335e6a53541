package ui

import (
	"errors"

	"github.com/manifoldco/promptui"

	"github.com/tara-vision/codezap/internal/project"
)

// SelectLanguage asks the user to pick the project language.
func SelectLanguage() (project.Language, error) {
	items := make([]string, 0, len(project.Priority))
	for _, lang := range project.Priority {
		items = append(items, lang.DisplayName())
	}

	prompt := promptui.Select{
		Label:        "Could not detect the project language, select one",
		Items:        items,
		HideSelected: true,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return project.Undetermined, err
	}
	return project.Priority[i], nil
}

// Confirm asks a yes/no question. Declining is not an error.
func Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
