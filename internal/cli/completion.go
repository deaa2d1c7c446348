package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for layoutdsl.

To load completions:

Bash:
  $ source <(layoutdsl completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ layoutdsl completion bash > /etc/bash_completion.d/layoutdsl
  # macOS:
  $ layoutdsl completion bash > $(brew --prefix)/etc/bash_completion.d/layoutdsl

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ layoutdsl completion zsh > "${fpath[1]}/_layoutdsl"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ layoutdsl completion fish | source

  # To load completions for each session, execute once:
  $ layoutdsl completion fish > ~/.config/fish/completions/layoutdsl.fish

PowerShell:
  PS> layoutdsl completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> layoutdsl completion powershell > layoutdsl.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(c.stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.stdout)
			}
			return nil
		},
	}

	return cmd
}
