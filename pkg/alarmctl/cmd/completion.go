package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

// completionShells maps each supported shell to its cobra generator.
var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

func completionShellNames() []string {
	names := make([]string, 0, len(completionShells))
	for name := range completionShells {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func completionValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func NewCompletionCommand() *cobra.Command {
	shells := completionShellNames()
	cmd := &cobra.Command{
		Use:   "completion [bash|fish|powershell|zsh]",
		Short: "Generate shell completion for alarmctl",
		Long: `Print a completion script for the burst, single and preview subcommands,
their flags (--count, --candidate, --file, --output, ...) and the accepted
--security and --output values.

No configuration, credentials or server connection are needed.`,
		Example: `  # bash, current session
  source <(alarmctl completion bash)

  # zsh, installed for every session
  alarmctl completion zsh > "${fpath[1]}/_alarmctl"

  # fish
  alarmctl completion fish > ~/.config/fish/completions/alarmctl.fish`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: shells,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			gen, ok := completionShells[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell %q (want one of %v)", args[0], shells)
			}
			return gen(cmd.Root(), rt.Writer())
		},
	}
	return cmd
}
