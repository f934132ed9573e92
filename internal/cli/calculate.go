package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanqian/birthchart/internal/domain/birthchart"
	"github.com/yanqian/birthchart/internal/infra/viewstore"
	apperrors "github.com/yanqian/birthchart/pkg/errors"
)

type calculateOptions struct {
	form        birthchart.FormInput
	interactive bool
}

func newCalculateCmd(root *rootOptions) *cobra.Command {
	opts := &calculateOptions{}
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate a sidereal birth chart",
		Example: `  chartctl calculate --date 1990-01-15 --time 14:30 --lat 51.5074 --lon -0.1278 --tz 0
  chartctl calculate --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd, root, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.form.BirthDate, "date", "", "Birth date (YYYY-MM-DD)")
	flags.StringVar(&opts.form.BirthTime, "time", "", "Birth time (HH:MM)")
	flags.StringVar(&opts.form.Latitude, "lat", "", "Latitude in decimal degrees")
	flags.StringVar(&opts.form.Longitude, "lon", "", "Longitude in decimal degrees")
	flags.StringVar(&opts.form.Timezone, "tz", "", "Timezone offset in hours")
	flags.StringVar(&opts.form.Ayanamsha, "ayanamsha", string(birthchart.DefaultAyanamsha), "Ayanamsha (lahiri, fagan_bradley, krishnamurti, raman)")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "Prompt for each field")

	return cmd
}

func runCalculate(cmd *cobra.Command, root *rootOptions, opts *calculateOptions) error {
	form := opts.form
	if opts.interactive {
		prompted, err := promptForm(form)
		if err != nil {
			return err
		}
		form = prompted
	}

	log := root.logger(cmd)
	svc := birthchart.NewService(root.client(), viewstore.NewMemoryStore(0), log)

	// Announce loading only for forms that will be dispatched.
	if _, err := birthchart.Collect(form.Normalize()); err == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), loadingStyle.Render(birthchart.MessageLoading))
	}

	view, err := svc.Submit(cmd.Context(), popupSession, form)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeInvalidInput) {
			return errors.New(apperrors.UserMessage(err))
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderView(view))
	if view.Status == birthchart.StatusError {
		return errors.New(view.Error)
	}
	return nil
}
