package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/lu-zhengda/aliaskit/internal/app"
	"github.com/lu-zhengda/aliaskit/internal/domain"
	"github.com/lu-zhengda/aliaskit/internal/store"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change settings",
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigResetCmd())
	cmd.AddCommand(newConfigTokenCmd())
	cmd.AddCommand(newConfigTestCmd())
	return cmd
}

func newConfigTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Verify the API connection",
		Long:  "Fetch domains, accounts, and routing rules with the stored token and\nreport what the API returned.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, db, _, err := setupClient(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			m := app.NewManager(client, db, logger)
			ov, err := m.LoadOverview(cmd.Context())
			if err != nil {
				return fmt.Errorf("connection test failed: %w", err)
			}

			if jsonFlag {
				return printJSON(map[string]int{
					"domains": len(ov.Domains),
					"users":   len(ov.Users),
					"rules":   len(ov.Rules),
				})
			}
			fmt.Printf("Connected: %d domain(s), %d account(s), %d rule(s).\n",
				len(ov.Domains), len(ov.Users), len(ov.Rules))
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			settings, err := db.Settings(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			// The token never leaves the store through this command.
			settings.APIToken = ""

			if jsonFlag {
				return printJSON(settings)
			}

			fmt.Printf("default-account:   %s\n", settings.DefaultAccount)
			fmt.Printf("default-domain:    %s\n", settings.DefaultDomain)
			fmt.Printf("selected-domains:  %s\n", strings.Join(settings.SelectedDomains, ", "))
			fmt.Printf("system-aliases:    %s\n", strings.Join(settings.SystemAliases, ", "))
			fmt.Printf("hidden-users:      %s\n", strings.Join(settings.HiddenUsers, ", "))
			fmt.Printf("hidden-domains:    %s\n", strings.Join(settings.HiddenDomains, ", "))
			fmt.Printf("spam-email:        %s\n", settings.SpamEmail)
			fmt.Printf("custom-spam-email: %s\n", settings.CustomSpamEmail)
			fmt.Printf("setup-complete:    %s\n", yesNo(!settings.IsFirstRun))
			return nil
		},
	}
}

// settingsKeys maps a config key to the patch it produces. List-valued keys
// take a comma-separated value; an empty value clears the list.
var settingsKeys = map[string]func(value string) domain.SettingsPatch{
	"default-account": func(v string) domain.SettingsPatch {
		return domain.SettingsPatch{DefaultAccount: domain.Ptr(v)}
	},
	"default-domain": func(v string) domain.SettingsPatch {
		return domain.SettingsPatch{DefaultDomain: domain.Ptr(v)}
	},
	"selected-domains": func(v string) domain.SettingsPatch {
		return domain.SettingsPatch{SelectedDomains: domain.Ptr(splitList(v))}
	},
	"system-aliases": func(v string) domain.SettingsPatch {
		return domain.SettingsPatch{SystemAliases: domain.Ptr(splitList(v))}
	},
	"hidden-users": func(v string) domain.SettingsPatch {
		return domain.SettingsPatch{HiddenUsers: domain.Ptr(splitList(v))}
	},
	"hidden-domains": func(v string) domain.SettingsPatch {
		return domain.SettingsPatch{HiddenDomains: domain.Ptr(splitList(v))}
	},
	"spam-email": func(v string) domain.SettingsPatch {
		return domain.SettingsPatch{SpamEmail: domain.Ptr(v)}
	},
	"custom-spam-email": func(v string) domain.SettingsPatch {
		return domain.SettingsPatch{CustomSpamEmail: domain.Ptr(v)}
	},
}

func newConfigSetCmd() *cobra.Command {
	keys := make([]string, 0, len(settingsKeys))
	for k := range settingsKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: "Change one setting. Only the named field is overwritten; everything\n" +
			"else keeps its stored value.\n\nKeys: " + strings.Join(keys, ", "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			makePatch, ok := settingsKeys[key]
			if !ok {
				return fmt.Errorf("unknown setting: %s", key)
			}

			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.SaveSettings(cmd.Context(), makePatch(value)); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "set"})
			}
			fmt.Printf("Set %s\n", key)
			return nil
		},
	}
}

func newConfigResetCmd() *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset all settings to defaults",
		Long:  "Reset all settings to defaults. The alias history and the keyring\ntoken are kept.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yesFlag && !confirm("Reset all settings to defaults?") {
				fmt.Println("Cancelled.")
				return nil
			}

			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.ResetSettings(cmd.Context()); err != nil {
				return fmt.Errorf("failed to reset settings: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "reset"})
			}
			fmt.Println("Settings reset. Run 'aliaskit setup' to reconfigure.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newConfigTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the API token",
	}

	var noKeyringFlag bool
	setCmd := &cobra.Command{
		Use:   "set <token>",
		Short: "Store a new API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			tokens := store.NewKeyringTokenStore()
			if noKeyringFlag {
				patch := domain.SettingsPatch{APIToken: domain.Ptr(args[0])}
				if err := db.SaveSettings(cmd.Context(), patch); err != nil {
					return fmt.Errorf("failed to save token: %w", err)
				}
			} else if err := tokens.SaveToken(args[0]); err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "token-set"})
			}
			fmt.Println("Token stored.")
			return nil
		},
	}
	setCmd.Flags().BoolVar(&noKeyringFlag, "no-keyring", false, "store the token in settings instead of the OS keyring")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the API token from the keyring and settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			tokens := store.NewKeyringTokenStore()
			if err := tokens.DeleteToken(); err != nil {
				// Non-fatal: the keyring entry may not exist.
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
			patch := domain.SettingsPatch{APIToken: domain.Ptr("")}
			if err := db.SaveSettings(cmd.Context(), patch); err != nil {
				return fmt.Errorf("failed to clear token from settings: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "token-clear"})
			}
			fmt.Println("Token removed.")
			return nil
		},
	}

	cmd.AddCommand(setCmd)
	cmd.AddCommand(clearCmd)
	return cmd
}

// splitList parses a comma-separated value into a trimmed list. An empty
// value yields an empty list, clearing the setting.
func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return []string{}
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
