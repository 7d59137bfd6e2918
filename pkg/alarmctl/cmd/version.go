package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telekom/alarm-trials/pkg/output"
	"github.com/telekom/alarm-trials/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show alarmctl version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetBuildInfo()

			// Get runtime if available (for custom writer), but don't fail if missing
			rt, _ := getRuntime(cmd)
			writer := cmd.OutOrStdout()
			format := output.FormatText
			if rt != nil {
				writer = rt.Writer()
				f, err := output.ParseFormat(rt.outputFormat)
				if err != nil {
					return err
				}
				format = f
			}

			switch format {
			case output.FormatJSON, output.FormatYAML:
				return output.WriteObject(writer, format, info)
			default:
				_, _ = fmt.Fprintln(writer, info.String())
				return nil
			}
		},
	}

	return cmd
}
