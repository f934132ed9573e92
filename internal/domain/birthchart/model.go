package birthchart

import (
	"context"
	"time"
)

// Ayanamsha selects the sidereal correction the calculation service applies.
type Ayanamsha string

const (
	AyanamshaLahiri       Ayanamsha = "lahiri"
	AyanamshaFaganBradley Ayanamsha = "fagan_bradley"
	AyanamshaKrishnamurti Ayanamsha = "krishnamurti"
	AyanamshaRaman        Ayanamsha = "raman"
)

// DefaultAyanamsha is used when the form leaves the selection blank.
const DefaultAyanamsha = AyanamshaLahiri

// Ayanamshas lists the supported values in display order.
var Ayanamshas = []Ayanamsha{
	AyanamshaLahiri,
	AyanamshaFaganBradley,
	AyanamshaKrishnamurti,
	AyanamshaRaman,
}

// Label is the human readable name shown in selects and prompts.
func (a Ayanamsha) Label() string {
	switch a {
	case AyanamshaLahiri:
		return "Lahiri"
	case AyanamshaFaganBradley:
		return "Fagan-Bradley"
	case AyanamshaKrishnamurti:
		return "Krishnamurti"
	case AyanamshaRaman:
		return "Raman"
	default:
		return string(a)
	}
}

// FormInput carries the raw strings entered by the user.
type FormInput struct {
	BirthDate string `json:"birth_date" form:"birth_date"`
	BirthTime string `json:"birth_time" form:"birth_time"`
	Latitude  string `json:"latitude" form:"latitude"`
	Longitude string `json:"longitude" form:"longitude"`
	Timezone  string `json:"timezone" form:"timezone"`
	Ayanamsha string `json:"ayanamsha" form:"ayanamsha"`
}

// BirthInput is the payload posted to the calculation service.
type BirthInput struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Day       int       `json:"day"`
	Hours     int       `json:"hours"`
	Minutes   int       `json:"minutes"`
	Seconds   int       `json:"seconds"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timezone  float64   `json:"timezone"`
	Ayanamsha Ayanamsha `json:"ayanamsha"`
}

// PlanetPosition is one planet as reported by the calculation service.
type PlanetPosition struct {
	Name       string  `json:"name"`
	Sign       string  `json:"sign"`
	Degrees    float64 `json:"degrees"`
	House      int     `json:"house"`
	Retrograde bool    `json:"retrograde"`
}

// ChartResult is the service response. ChartURL is empty when no image was produced.
type ChartResult struct {
	Planets  []PlanetPosition `json:"planets"`
	ChartURL string           `json:"chart_url,omitempty"`
}

// HistoryEntry is a past calculation kept by the calculation service.
type HistoryEntry struct {
	ID        string           `json:"id"`
	Request   BirthInput       `json:"request"`
	Timestamp string           `json:"timestamp"`
	Planets   []PlanetPosition `json:"planets"`
}

// Status is the UI state of a visitor's latest submission.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// View is the transient UI state rendered by the shells.
type View struct {
	Status    Status       `json:"status"`
	Form      FormInput    `json:"form"`
	Result    *ChartResult `json:"result,omitempty"`
	Error     string       `json:"error,omitempty"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// ChartClient dispatches a birth input to the external calculation service.
type ChartClient interface {
	Calculate(ctx context.Context, input BirthInput) (ChartResult, error)
}

// StateStore keeps one View per visitor.
type StateStore interface {
	// Load returns an idle View when nothing is stored for id.
	Load(ctx context.Context, id string) (View, error)
	// Begin moves id into the loading state and fails with ErrSubmissionInFlight
	// when a submission is already loading.
	Begin(ctx context.Context, id string, form FormInput) (View, error)
	// Finish stores the terminal view and releases the loading flag.
	Finish(ctx context.Context, id string, view View) error
}
