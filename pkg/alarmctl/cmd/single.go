package cmd

import (
	"github.com/spf13/cobra"

	"github.com/telekom/alarm-trials/pkg/alarm"
	"github.com/telekom/alarm-trials/pkg/config"
)

func NewSingleCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "single",
		Short: "Send one alarm after a STARTTLS upgrade",
		Long: `Connect on the submission port (587 by default), upgrade with STARTTLS, log in
with the EM_SMTP_* credentials (falling back to EM_IMAP_*) and send one alarm.`,
		Example: `  alarmctl single
  alarmctl single --file examples/emergency_simple.txt --host mail.example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			c, err := rt.resolve(cmd, config.SingleProfile, func(c *config.Config) {
				if cmd.Flags().Changed("file") {
					c.Single.File = file
				}
			})
			if err != nil {
				return err
			}

			runner := rt.newRunner(config.SingleProfile.Name, c, nil)
			report, runErr := alarm.Single(cmd.Context(), runner, c.Single.File)
			return rt.finish(c, report, runErr)
		},
	}

	cmd.Flags().StringVar(&file, "file", config.DefaultSingleFile, "Alarm template to send")

	return cmd
}
