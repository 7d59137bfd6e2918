package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/telekom/alarm-trials/pkg/config"
	"github.com/telekom/alarm-trials/pkg/mail"
)

// NewPreviewCommand renders a template the way the single flow would send it,
// without connecting anywhere.
func NewPreviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file>",
		Short: "Print the message a template turns into",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			c, err := rt.resolve(cmd, config.SingleProfile)
			if err != nil {
				return err
			}
			msg, err := mail.ComposeFile(envelopeFor(c), args[0], 1, time.Now())
			if err != nil {
				return err
			}
			rendered, err := mail.Render(msg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(rt.Writer(), rendered)
			return err
		},
	}
}
