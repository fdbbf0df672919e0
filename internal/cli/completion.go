package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for typediagram.

Besides commands and flags, the scripts complete TypeScript sources for the
glob argument, model files for --model and config files for --config.

  $ source <(typediagram completion bash)
  $ typediagram completion zsh > "${fpath[1]}/_typediagram"
  $ typediagram completion fish > ~/.config/fish/completions/typediagram.fish
  PS> typediagram completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// fileExtensions lists the extensions completed for file flags.
var fileExtensions = map[string][]string{
	"config":          {"toml", "yaml", "yml", "json"},
	"model":           {"json"},
	"output":          {"json"},
	"out-file":        {"svg"},
	"out-dsl":         {"nomnoml"},
	"out-mermaid-dsl": {"mmd", "mermaid"},
	"out-dot":         {"dot", "gv"},
}

// registerCompletions restricts file completion of the flags cmd defines and
// completes TypeScript sources for its positional glob.
func registerCompletions(cmd *cobra.Command) {
	for name, exts := range fileExtensions {
		if cmd.Flags().Lookup(name) != nil {
			_ = cmd.MarkFlagFilename(name, exts...)
		}
	}
	cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return []string{"ts", "tsx"}, cobra.ShellCompDirectiveFilterFileExt
	}
}
