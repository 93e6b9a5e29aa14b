package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"nathanbeddoewebdev/dnsm/internal/config"
	"nathanbeddoewebdev/dnsm/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  dnsm config set account 1234567\n" +
			"  dnsm config set default-ttl 3600",
		Args: cobra.ExactArgs(2),
		Run:  runSet,
	}

	return cmd
}

// validators maps key names to optional pre-save validation functions.
// Keys not present in this map have no extra validation.
var validators = map[string]func(value string) error{
	"account":     validateAccount,
	"default-ttl": validateTTL,
	"endpoint":    validateEndpoint,
}

func runSet(cmd *cobra.Command, args []string) {
	key := util.NormalizeKey(args[0])
	value := strings.TrimSpace(args[1])

	spec := config.Lookup(key)
	if spec == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown configuration key %q\n", args[0])
		fmt.Fprintf(cmd.ErrOrStderr(), "Valid keys: %s\n", strings.Join(config.KeyNames(), ", "))
		return
	}

	if validate, ok := validators[spec.Name]; ok {
		if err := validate(value); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	spec.Set(cfg, value)
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, value)
}

// validateAccount checks that the account looks like a numeric account ID.
func validateAccount(value string) error {
	if _, err := strconv.ParseInt(value, 10, 64); err != nil {
		return fmt.Errorf("account must be a number, got %q", value)
	}
	return nil
}

// validateTTL checks that the TTL is a non-negative number of seconds.
func validateTTL(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("default-ttl must be a number of seconds, got %q", value)
	}
	if n < 0 {
		return fmt.Errorf("default-ttl must not be negative")
	}
	return nil
}

// validateEndpoint checks that the endpoint is an absolute http(s) URL.
func validateEndpoint(value string) error {
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute http(s) URL, got %q", value)
	}
	return nil
}
