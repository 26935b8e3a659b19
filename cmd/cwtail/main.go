// Command cwtail browses CloudWatch log groups and tails a log stream in the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/rusenback/cwtail/internal/clierr"
	"github.com/spf13/cobra"
)

var (
	// BuildTag is set during build
	BuildTag = "dev"
	// BuildDate is set during build
	BuildDate = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cwtail",
	Short: "Browse CloudWatch log groups and tail a log stream",
	Long: `cwtail - tail AWS CloudWatch Logs from the terminal

cwtail asks for AWS credentials once, lets you walk the log group
namespace level by level, pick a stream and follow it live.

Files:
  ~/.cwtail/credentials.json   stored credentials
  ~/.cwtail/config.yaml        optional settings
  ~/.cwtail/history.db         tail session history
  ~/.cwtail/cwtail.log         log file

Environment Variables:
  CWTAIL_<KEY>                 overrides any config key, e.g. CWTAIL_POLL_INTERVAL=5s
`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, clierr.Pretty(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.cwtail/config.yaml)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cwtail version %s (built %s)\n", BuildTag, BuildDate)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for cwtail.

Bash:
  $ source <(cwtail completion bash)

Zsh:
  $ cwtail completion zsh > "${fpath[1]}/_cwtail"

Fish:
  $ cwtail completion fish | source

PowerShell:
  PS> cwtail completion powershell | Out-String | Invoke-Expression
`,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	})
}
