package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/yanqian/birthchart/internal/domain/birthchart"
)

// promptForm asks for every field, offering the values already given as defaults.
func promptForm(defaults birthchart.FormInput) (birthchart.FormInput, error) {
	form := defaults
	if form.BirthTime == "" {
		form.BirthTime = "12:00"
	}

	questions := []*survey.Question{
		{
			Name: "BirthDate",
			Prompt: &survey.Input{
				Message: "Birth date (YYYY-MM-DD):",
				Default: form.BirthDate,
			},
			Validate: survey.ComposeValidators(survey.Required, formatValidator(birthchart.ParseBirthDate, "YYYY-MM-DD")),
		},
		{
			Name: "BirthTime",
			Prompt: &survey.Input{
				Message: "Birth time (HH:MM or HH:MM:SS):",
				Default: form.BirthTime,
			},
			Validate: survey.ComposeValidators(survey.Required, formatValidator(birthchart.ParseBirthTime, "HH:MM or HH:MM:SS")),
		},
		{
			Name: "Latitude",
			Prompt: &survey.Input{
				Message: "Latitude:",
				Help:    "Decimal degrees, north positive (e.g., 51.5074)",
				Default: form.Latitude,
			},
			Validate: survey.ComposeValidators(survey.Required, numberValidator),
		},
		{
			Name: "Longitude",
			Prompt: &survey.Input{
				Message: "Longitude:",
				Help:    "Decimal degrees, east positive (e.g., -0.1278)",
				Default: form.Longitude,
			},
			Validate: survey.ComposeValidators(survey.Required, numberValidator),
		},
		{
			Name: "Timezone",
			Prompt: &survey.Input{
				Message: "Timezone offset (hours):",
				Help:    "Offset from UTC, e.g. 5.5 for India or -5 for New York",
				Default: form.Timezone,
			},
			Validate: survey.ComposeValidators(survey.Required, numberValidator),
		},
	}

	if err := survey.Ask(questions, &form); err != nil {
		return birthchart.FormInput{}, err
	}

	ayanamsha, err := promptAyanamsha(form.Ayanamsha)
	if err != nil {
		return birthchart.FormInput{}, err
	}
	form.Ayanamsha = string(ayanamsha)
	return form, nil
}

func promptAyanamsha(current string) (birthchart.Ayanamsha, error) {
	options := make([]string, 0, len(birthchart.Ayanamshas))
	for _, a := range birthchart.Ayanamshas {
		options = append(options, a.Label())
	}
	selected, err := birthchart.ParseAyanamsha(current)
	if err != nil {
		selected = birthchart.DefaultAyanamsha
	}

	var label string
	prompt := &survey.Select{
		Message: "Ayanamsha:",
		Options: options,
		Default: selected.Label(),
	}
	if err := survey.AskOne(prompt, &label); err != nil {
		return "", err
	}
	for _, a := range birthchart.Ayanamshas {
		if a.Label() == label {
			return a, nil
		}
	}
	return birthchart.DefaultAyanamsha, nil
}

// formatValidator checks an answer with the parser the collector uses.
func formatValidator(parse func(string) (time.Time, error), format string) survey.Validator {
	return func(val interface{}) error {
		if _, err := parse(strings.TrimSpace(fmt.Sprint(val))); err != nil {
			return fmt.Errorf("use the %s format", format)
		}
		return nil
	}
}

func numberValidator(val interface{}) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(val)), 64); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}
