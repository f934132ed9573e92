package birthchart

import (
	"errors"
	"time"
)

// ErrSubmissionInFlight is returned when a visitor submits while a calculation is loading.
var ErrSubmissionInFlight = errors.New("calculation already in progress")

// IdleView is the state before the first submission.
func IdleView() View {
	return View{Status: StatusIdle}
}

// Loading reports whether a submission is awaiting the calculation service.
func (v View) Loading() bool {
	return v.Status == StatusLoading
}

// Begin starts a submission. The previous result and error are cleared before
// the request goes out.
func (v View) Begin(form FormInput, now time.Time) (View, error) {
	if v.Loading() {
		return v, ErrSubmissionInFlight
	}
	return View{
		Status:    StatusLoading,
		Form:      form,
		UpdatedAt: now,
	}, nil
}

// Succeed ends a submission with a result.
func (v View) Succeed(result ChartResult, now time.Time) View {
	return View{
		Status:    StatusSuccess,
		Form:      v.Form,
		Result:    &result,
		UpdatedAt: now,
	}
}

// Fail ends a submission with the user facing error message.
func (v View) Fail(message string, now time.Time) View {
	return View{
		Status:    StatusError,
		Form:      v.Form,
		Error:     message,
		UpdatedAt: now,
	}
}
