package birthchart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/yanqian/birthchart/pkg/errors"
)

// Service exposes the submission flow shared by the web app and the CLI.
type Service interface {
	// Calculate collects the form and dispatches it without touching UI state.
	Calculate(ctx context.Context, form FormInput) (ChartResult, error)
	// Submit runs a submission for one visitor. A failed calculation is not an
	// error: it is reported through the returned View in the error state.
	Submit(ctx context.Context, sessionID string, form FormInput) (View, error)
	// Current returns the visitor's latest View.
	Current(ctx context.Context, sessionID string) (View, error)
}

type service struct {
	client ChartClient
	store  StateStore
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the birth chart domain.
func NewService(client ChartClient, store StateStore, logger *slog.Logger) Service {
	return &service{
		client: client,
		store:  store,
		logger: logger.With("component", "birthchart.service"),
		now:    time.Now,
	}
}

func (s *service) Calculate(ctx context.Context, form FormInput) (ChartResult, error) {
	input, err := Collect(form)
	if err != nil {
		return ChartResult{}, invalidInput(err)
	}
	result, err := s.dispatch(ctx, input)
	if err != nil {
		return ChartResult{}, apperrors.Wrap(apperrors.CodeCalculationFailed, MessageCalculationFailed, err)
	}
	return result, nil
}

func (s *service) Submit(ctx context.Context, sessionID string, form FormInput) (View, error) {
	form = form.Normalize()
	input, err := Collect(form)
	if err != nil {
		return View{}, invalidInput(err)
	}

	view, err := s.store.Begin(ctx, sessionID, form)
	if err != nil {
		if errors.Is(err, ErrSubmissionInFlight) {
			return View{}, apperrors.Wrap(apperrors.CodeInProgress, MessageInProgress, err)
		}
		return View{}, fmt.Errorf("begin submission: %w", err)
	}

	result, err := s.dispatch(ctx, input)
	if err != nil {
		view = view.Fail(MessageCalculationFailed, s.now())
	} else {
		view = view.Succeed(result, s.now())
	}

	// The loading flag must be released even when the visitor went away.
	if err := s.store.Finish(context.WithoutCancel(ctx), sessionID, view); err != nil {
		return View{}, fmt.Errorf("finish submission: %w", err)
	}
	return view, nil
}

func (s *service) Current(ctx context.Context, sessionID string) (View, error) {
	if sessionID == "" {
		return IdleView(), nil
	}
	view, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return View{}, fmt.Errorf("load view: %w", err)
	}
	return view, nil
}

func (s *service) dispatch(ctx context.Context, input BirthInput) (ChartResult, error) {
	start := s.now()
	result, err := s.client.Calculate(ctx, input)
	if err != nil {
		s.logger.Warn("birth chart calculation failed", "error", err, "latency_ms", s.now().Sub(start).Milliseconds())
		return ChartResult{}, err
	}
	s.logger.Info("birth chart calculated",
		"planets", len(result.Planets),
		"ayanamsha", input.Ayanamsha,
		"has_chart", result.ChartURL != "",
		"latency_ms", s.now().Sub(start).Milliseconds(),
	)
	return result, nil
}

func invalidInput(err error) error {
	message := MessageMissingFields
	var invalid *InvalidFieldError
	if errors.As(err, &invalid) {
		message = fmt.Sprintf("Invalid value for %s", invalid.Field)
	}
	return apperrors.Wrap(apperrors.CodeInvalidInput, message, err)
}
