package auth

import (
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/dnsm/internal/services/auth"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store API credentials in the local keychain",
		Long: `Store the Cloud DNS username and API key in the local keychain.

The API key is read from a hidden prompt unless --api-key is given.

Example:
  dnsm auth login --username jdoe`,
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			username = strings.TrimSpace(username)
			if username == "" {
				fmt.Fprint(os.Stdout, "Username: ")
				if _, err := fmt.Fscanln(os.Stdin, &username); err != nil {
					fmt.Fprintln(os.Stderr, "username is required")
					return
				}
				username = strings.TrimSpace(username)
			}
			if username == "" {
				fmt.Fprintln(os.Stderr, "username is required")
				return
			}

			apiKey, _ := cmd.Flags().GetString("api-key")
			apiKey = strings.TrimSpace(apiKey)
			if apiKey == "" {
				fmt.Fprint(os.Stdout, "Enter API key: ")
				bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stdout)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					return
				}
				apiKey = strings.TrimSpace(string(bytes))
			}
			if apiKey == "" {
				fmt.Fprintln(os.Stderr, "API key cannot be empty")
				return
			}

			store := auth.DefaultStore()
			if err := auth.SaveCredentials(store, auth.Credentials{Username: username, APIKey: apiKey}); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return
			}

			fmt.Fprintf(os.Stdout, "Saved credentials for %s\n", username)
		},
	}

	cmd.Flags().String("username", "", "API username (prompted if omitted)")
	cmd.Flags().String("api-key", "", "API key (optional, overrides the hidden prompt)")

	return cmd
}
