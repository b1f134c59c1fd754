package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/matching"
	platformclock "github.com/isail-maritime/crew-rotation-api/internal/platform/clock"
)

func newProjectCmd() *cobra.Command {
	var (
		onboard string
		months  int
	)
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Print the expected release date of a contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if months < 1 {
				return fmt.Errorf("--months must be positive")
			}
			var start *time.Time
			if onboard != "" {
				t, err := time.Parse("2006-01-02", onboard)
				if err != nil {
					return fmt.Errorf("--onboard: want YYYY-MM-DD, got %q", onboard)
				}
				start = &t
			}
			release := matching.NewMatcher(platformclock.NewSystemClock()).ProjectRelease(start, months)
			fmt.Fprintln(cmd.OutOrStdout(), release.Format("2006-01-02"))
			return nil
		},
	}
	cmd.Flags().StringVar(&onboard, "onboard", "", "onboard date YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&months, "months", domain.DefaultContractLengthMonths, "contract length in months")
	return cmd
}
