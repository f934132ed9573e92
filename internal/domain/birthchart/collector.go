package birthchart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMissingFields reports a submission with at least one blank required field.
var ErrMissingFields = errors.New("please fill in all required fields")

// ErrInvalidField reports a field whose value cannot be decomposed into the payload.
var ErrInvalidField = errors.New("invalid field value")

// MissingFieldsError lists the blank required fields by form name.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return ErrMissingFields.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Unwrap() error { return ErrMissingFields }

// InvalidFieldError names the field that could not be parsed.
type InvalidFieldError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *InvalidFieldError) Unwrap() error { return ErrInvalidField }

const dateLayout = "2006-01-02"

var clockLayouts = []string{"15:04", "15:04:05"}

// Normalize trims every field and fills the default ayanamsha.
func (f FormInput) Normalize() FormInput {
	out := FormInput{
		BirthDate: strings.TrimSpace(f.BirthDate),
		BirthTime: strings.TrimSpace(f.BirthTime),
		Latitude:  strings.TrimSpace(f.Latitude),
		Longitude: strings.TrimSpace(f.Longitude),
		Timezone:  strings.TrimSpace(f.Timezone),
		Ayanamsha: strings.TrimSpace(f.Ayanamsha),
	}
	if out.Ayanamsha == "" {
		out.Ayanamsha = string(DefaultAyanamsha)
	}
	return out
}

// MissingFields returns the blank required fields in form order.
func (f FormInput) MissingFields() []string {
	required := []struct {
		name  string
		value string
	}{
		{"birth_date", f.BirthDate},
		{"birth_time", f.BirthTime},
		{"latitude", f.Latitude},
		{"longitude", f.Longitude},
		{"timezone", f.Timezone},
	}
	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// Collect turns the raw form into the payload. Presence is the only rule; no
// range checks are applied to coordinates or the timezone offset.
func Collect(form FormInput) (BirthInput, error) {
	form = form.Normalize()
	if missing := form.MissingFields(); len(missing) > 0 {
		return BirthInput{}, &MissingFieldsError{Fields: missing}
	}

	date, err := ParseBirthDate(form.BirthDate)
	if err != nil {
		return BirthInput{}, &InvalidFieldError{Field: "birth_date", Value: form.BirthDate, Err: err}
	}
	clock, err := ParseBirthTime(form.BirthTime)
	if err != nil {
		return BirthInput{}, &InvalidFieldError{Field: "birth_time", Value: form.BirthTime, Err: err}
	}
	lat, err := parseNumber("latitude", form.Latitude)
	if err != nil {
		return BirthInput{}, err
	}
	lon, err := parseNumber("longitude", form.Longitude)
	if err != nil {
		return BirthInput{}, err
	}
	tz, err := parseNumber("timezone", form.Timezone)
	if err != nil {
		return BirthInput{}, err
	}
	ayanamsha, err := ParseAyanamsha(form.Ayanamsha)
	if err != nil {
		return BirthInput{}, err
	}

	return BirthInput{
		Year:      date.Year(),
		Month:     int(date.Month()),
		Day:       date.Day(),
		Hours:     clock.Hour(),
		Minutes:   clock.Minute(),
		Seconds:   clock.Second(),
		Latitude:  lat,
		Longitude: lon,
		Timezone:  tz,
		Ayanamsha: ayanamsha,
	}, nil
}

// ParseAyanamsha accepts the wire names case-insensitively; blank means the default.
func ParseAyanamsha(value string) (Ayanamsha, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return DefaultAyanamsha, nil
	}
	for _, candidate := range Ayanamshas {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", &InvalidFieldError{Field: "ayanamsha", Value: value}
}

// ParseBirthDate accepts YYYY-MM-DD.
func ParseBirthDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// ParseBirthTime accepts HH:MM and HH:MM:SS.
func ParseBirthTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range clockLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseNumber(field, value string) (float64, error) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &InvalidFieldError{Field: field, Value: value, Err: err}
	}
	return parsed, nil
}
