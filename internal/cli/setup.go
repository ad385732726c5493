package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/lu-zhengda/aliaskit/internal/app"
	"github.com/lu-zhengda/aliaskit/internal/domain"
	"github.com/lu-zhengda/aliaskit/internal/store"
)

func newSetupCmd() *cobra.Command {
	var tokenFlag string
	var accountFlag string
	var domainFlag string
	var spamFlag string
	var noKeyringFlag bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "First-run setup: store the API token and verify the connection",
		Long: "Store the Purelymail API token, verify it against the API, and\n" +
			"optionally pick the default account, domain, and spam address.\n" +
			"Alias detection and creation stay disabled until setup completes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tokenFlag == "" {
				return fmt.Errorf("an API token is required; pass --token")
			}

			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			// Verify the token before persisting anything.
			client := newProvider(cfg, tokenFlag)
			m := app.NewManager(client, db, logger)
			ov, err := m.LoadOverview(ctx)
			if err != nil {
				return fmt.Errorf("connection test failed: %w", err)
			}

			// Keyring first; the settings record is the fallback on hosts
			// without a secret service.
			patch := domain.SettingsPatch{}
			tokens := store.NewKeyringTokenStore()
			if noKeyringFlag {
				patch.APIToken = domain.Ptr(tokenFlag)
			} else if err := tokens.SaveToken(tokenFlag); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: keyring unavailable, storing token in settings: %v\n", err)
				patch.APIToken = domain.Ptr(tokenFlag)
			}

			if accountFlag != "" {
				patch.DefaultAccount = domain.Ptr(accountFlag)
			} else if len(ov.Users) > 0 {
				patch.DefaultAccount = domain.Ptr(ov.Users[0])
			}
			if domainFlag != "" {
				patch.DefaultDomain = domain.Ptr(domainFlag)
			} else if len(ov.Domains) > 0 {
				patch.DefaultDomain = domain.Ptr(ov.Domains[0].Name)
			}
			if spamFlag != "" {
				patch.SpamEmail = domain.Ptr(spamFlag)
			}

			if err := db.SaveSettings(ctx, patch); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}
			if err := db.SetFirstRunComplete(ctx); err != nil {
				return fmt.Errorf("failed to complete setup: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "setup"})
			}

			fmt.Printf("Connected: %d domain(s), %d account(s).\n", len(ov.Domains), len(ov.Users))
			settings, err := db.Settings(ctx)
			if err == nil {
				if settings.DefaultAccount != "" {
					fmt.Printf("Default account: %s\n", settings.DefaultAccount)
				}
				if settings.DefaultDomain != "" {
					fmt.Printf("Default domain: %s\n", settings.DefaultDomain)
				}
			}
			fmt.Println("Setup complete.")
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenFlag, "token", "", "Purelymail API token")
	cmd.Flags().StringVar(&accountFlag, "account", "", "default target account (defaults to the first account)")
	cmd.Flags().StringVar(&domainFlag, "domain", "", "default alias domain (defaults to the first domain)")
	cmd.Flags().StringVar(&spamFlag, "spam", "", "spam target address for 'alias spam'")
	cmd.Flags().BoolVar(&noKeyringFlag, "no-keyring", false, "store the token in settings instead of the OS keyring")
	return cmd
}
