package cmd

import (
	"github.com/spf13/cobra"

	"github.com/telekom/alarm-trials/pkg/alarm"
	"github.com/telekom/alarm-trials/pkg/config"
)

func NewBurstCommand() *cobra.Command {
	var (
		count      int
		candidates []string
		seed       uint64
		pace       float64
	)

	cmd := &cobra.Command{
		Use:   "burst",
		Short: "Send simultaneous alarms over implicit TLS",
		Long: `Connect with implicit TLS (port 465 by default), log in with the EM_IMAP_*
credentials and send --count alarms over one session. Each alarm is drawn at
random, with replacement, from the candidate templates.`,
		Example: `  alarmctl burst
  alarmctl burst --count 3 --candidate examples/emergency_obj.txt --candidate examples/emergency_r1n1f.txt
  alarmctl burst --seed 42 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			c, err := rt.resolve(cmd, config.BurstProfile, func(c *config.Config) {
				flags := cmd.Flags()
				if flags.Changed("count") {
					c.Burst.Count = &count
				}
				if flags.Changed("candidate") {
					c.Burst.Candidates = candidates
				}
				if flags.Changed("seed") {
					c.Burst.Seed = seed
				}
				if flags.Changed("pace") {
					c.Burst.Pace = pace
				}
			})
			if err != nil {
				return err
			}

			runner := rt.newRunner(config.BurstProfile.Name, c, alarm.NewLimiter(c.Burst.Pace))
			report, runErr := alarm.Burst(cmd.Context(), runner, alarm.NewRand(c.Burst.Seed), c.Burst.Candidates, c.Burst.Alarms())
			return rt.finish(c, report, runErr)
		},
	}

	cmd.Flags().IntVar(&count, "count", config.DefaultCount, "Number of alarms to send in one session")
	cmd.Flags().StringArrayVar(&candidates, "candidate", nil, "Alarm template to draw from (repeatable)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the template choice; 0 picks a random seed")
	cmd.Flags().Float64Var(&pace, "pace", 0, "Maximum alarms per second; 0 sends in immediate succession")

	return cmd
}
