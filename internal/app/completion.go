//go:build linux

package app

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate a shell completion script",
		Long: `Generate a shell completion script for staleproc. Group names are
completed for --type from the configuration file.

  Bash:
    # Add to ~/.bashrc:
    source <(staleproc completion bash)

  Zsh:
    # Add to ~/.zshrc:
    source <(staleproc completion zsh)

  Fish:
    staleproc completion fish > ~/.config/fish/completions/staleproc.fish

  PowerShell:
    # Add to $PROFILE:
    staleproc completion powershell | Out-String | Invoke-Expression`,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell", "pwsh"},
		DisableFlagsInUseLine: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return argErrorf("expected exactly one shell, got %d arguments", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell", "pwsh":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return argErrorf("unsupported shell %q (supported: bash, zsh, fish, powershell, pwsh)", args[0])
		},
	}
}
