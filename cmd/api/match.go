package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	memclock "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/clock"
	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/fixture"
	"github.com/isail-maritime/crew-rotation-api/internal/matching"
	platformclock "github.com/isail-maritime/crew-rotation-api/internal/platform/clock"
	clockport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/clock"
)

func newMatchCmd() *cobra.Command {
	var (
		fixturePath string
		asUser      string
		workers     int
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run the matcher over a YAML fixture and print matches as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(fixturePath)
			if err != nil {
				return fmt.Errorf("open fixture: %w", err)
			}
			defer f.Close()

			set, err := fixture.Decode(f)
			if err != nil {
				return err
			}

			var clk clockport.Clock = platformclock.NewSystemClock()
			if set.Now != nil {
				clk = memclock.NewManualClock(*set.Now)
			}
			m := matching.NewMatcher(clk)
			m.Workers = workers

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if asUser == "" {
				return enc.Encode(set.MatchesForAll(m))
			}
			res, err := set.MatchesFor(m, domain.UserID(asUser))
			if err != nil {
				return err
			}
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&fixturePath, "fixture", "", "YAML file with users, shipAssignments and landAssignments")
	cmd.Flags().StringVar(&asUser, "as", "", "match for this user id only (default: every user)")
	cmd.Flags().IntVar(&workers, "workers", 1, "concurrent evaluators")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}
