package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitforge/git-issue/internal/config"
	"github.com/gitforge/git-issue/internal/tracker"
)

var tokenValue string

var tokenCmd = &cobra.Command{
	Use:   "token <service>",
	Short: "Store an API token in the system keyring",
	Long: `Store the API token for a service in the system keyring instead of
git config, keeping it out of .git/config. Without -t the token is read
from stdin.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"github", "gitlab", "gogs", "jira"},
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := strings.ToLower(args[0])
		switch backend {
		case "github", "gitlab", "gogs", "jira":
		default:
			return tracker.Configurationf(
				`unknown issue service %q, expected one of "github", "gitlab", "gogs", "jira"`,
				args[0])
		}

		token := tokenValue
		if token == "" {
			fmt.Fprintf(os.Stderr, "Token for %s: ", backend)
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return tracker.Configurationf("reading token: %v", err)
			}
			token = strings.TrimSpace(line)
		}
		if token == "" {
			return tracker.Validationf("aborted due to empty token")
		}
		return config.StoreToken(backend, token)
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenValue, "token", "t", "", "Token value, read from stdin when omitted")
	rootCmd.AddCommand(tokenCmd)
}
