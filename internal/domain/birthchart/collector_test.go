package birthchart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func validForm() FormInput {
	return FormInput{
		BirthDate: "1990-01-15",
		BirthTime: "14:30",
		Latitude:  "51.5074",
		Longitude: "-0.1278",
		Timezone:  "+1",
		Ayanamsha: "krishnamurti",
	}
}

func TestCollectDecomposesDateAndTime(t *testing.T) {
	input, err := Collect(validForm())
	require.NoError(t, err)
	require.Equal(t, BirthInput{
		Year:      1990,
		Month:     1,
		Day:       15,
		Hours:     14,
		Minutes:   30,
		Seconds:   0,
		Latitude:  51.5074,
		Longitude: -0.1278,
		Timezone:  1,
		Ayanamsha: AyanamshaKrishnamurti,
	}, input)
}

func TestCollectMonthIsOneBased(t *testing.T) {
	form := validForm()
	form.BirthDate = "2001-12-31"
	input, err := Collect(form)
	require.NoError(t, err)
	require.Equal(t, 12, input.Month)

	form.BirthDate = "2001-01-01"
	input, err = Collect(form)
	require.NoError(t, err)
	require.Equal(t, 1, input.Month)
}

func TestCollectAcceptsSeconds(t *testing.T) {
	form := validForm()
	form.BirthTime = "06:05:09"
	input, err := Collect(form)
	require.NoError(t, err)
	require.Equal(t, 6, input.Hours)
	require.Equal(t, 5, input.Minutes)
	require.Equal(t, 9, input.Seconds)
}

func TestCollectDefaultsAyanamsha(t *testing.T) {
	form := validForm()
	form.Ayanamsha = "  "
	input, err := Collect(form)
	require.NoError(t, err)
	require.Equal(t, AyanamshaLahiri, input.Ayanamsha)
}

func TestCollectReportsMissingFields(t *testing.T) {
	form := validForm()
	form.BirthTime = ""
	form.Timezone = "   "

	_, err := Collect(form)
	require.ErrorIs(t, err, ErrMissingFields)

	var missing *MissingFieldsError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, []string{"birth_time", "timezone"}, missing.Fields)
}

func TestCollectSkipsRangeChecks(t *testing.T) {
	form := validForm()
	form.Latitude = "123.4"
	form.Longitude = "-999"
	form.Timezone = "27.5"

	input, err := Collect(form)
	require.NoError(t, err)
	require.Equal(t, 123.4, input.Latitude)
	require.Equal(t, -999.0, input.Longitude)
	require.Equal(t, 27.5, input.Timezone)
}

func TestCollectRejectsUnparsableValues(t *testing.T) {
	cases := map[string]func(*FormInput){
		"birth_date": func(f *FormInput) { f.BirthDate = "15/01/1990" },
		"birth_time": func(f *FormInput) { f.BirthTime = "2pm" },
		"latitude":   func(f *FormInput) { f.Latitude = "north" },
		"ayanamsha":  func(f *FormInput) { f.Ayanamsha = "tropical" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			form := validForm()
			mutate(&form)
			_, err := Collect(form)
			require.ErrorIs(t, err, ErrInvalidField)

			var invalid *InvalidFieldError
			require.True(t, errors.As(err, &invalid))
			require.Equal(t, field, invalid.Field)
		})
	}
}

func TestParseAyanamshaIsCaseInsensitive(t *testing.T) {
	got, err := ParseAyanamsha("Fagan_Bradley")
	require.NoError(t, err)
	require.Equal(t, AyanamshaFaganBradley, got)
	require.Equal(t, "Fagan-Bradley", got.Label())
}
