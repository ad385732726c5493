package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/lu-zhengda/aliaskit/internal/app"
	"github.com/lu-zhengda/aliaskit/internal/detect"
	"github.com/lu-zhengda/aliaskit/internal/domain"
	"github.com/lu-zhengda/aliaskit/internal/provider"
	"github.com/lu-zhengda/aliaskit/internal/tui"
)

func newAliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage email aliases",
	}
	cmd.AddCommand(newAliasListCmd())
	cmd.AddCommand(newAliasCreateCmd())
	cmd.AddCommand(newAliasDeleteCmd())
	cmd.AddCommand(newAliasSpamCmd())
	return cmd
}

func newAliasListCmd() *cobra.Command {
	var allDomainsFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List aliases",
		Long: "List routing rules after the configured filters: hidden domains and\n" +
			"system aliases are dropped, and the default view shows only the\n" +
			"selected domains.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, db, _, err := setupClient(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			settings, err := db.Settings(ctx)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			rules, err := client.ListRoutingRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to list routing rules: %w", err)
			}
			rules = app.FilterRules(rules, settings, allDomainsFlag)

			if jsonFlag {
				return printJSON(toJSONRules(rules, settings))
			}

			if len(rules) == 0 {
				fmt.Println("No aliases found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ALIAS\tTARGETS\tSPAM\tID")
			for _, r := range rules {
				addr := r.Address()
				if r.Catchall {
					addr = "*@" + r.DomainName
				}
				spam := ""
				for _, t := range r.TargetAddresses {
					if settings.IsSpamTarget(t) {
						spam = "spam"
						break
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
					addr, strings.Join(r.TargetAddresses, ", "), spam, r.ID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&allDomainsFlag, "all-domains", false, "ignore the domain selection and show every domain")
	return cmd
}

func newAliasCreateCmd() *cobra.Command {
	var domainFlag string
	var accountFlag string
	var forFlag string
	var copyFlag bool
	var interactiveFlag bool

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create an alias",
		Long: "Create a routing rule for name@domain targeting the default account.\n" +
			"Without a name, or with --interactive, an editable suggestion derived\n" +
			"from the --for URL is shown.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, db, _, err := setupClient(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			settings, err := db.Settings(ctx)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			m := app.NewManager(client, db, logger)

			target := accountFlag
			if target == "" {
				target = settings.DefaultAccount
			}
			if target == "" {
				users, err := client.ListUsers(ctx)
				if err != nil {
					return fmt.Errorf("failed to list users: %w", err)
				}
				if len(users) == 0 {
					return fmt.Errorf("no target address; set a default account or pass --account")
				}
				target = users[0]
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			domainName := domainFlag
			if domainName == "" {
				domainName = settings.DefaultDomain
			}

			if name == "" || interactiveFlag {
				name, domainName, err = promptForAlias(ctx, m, settings, name, forFlag)
				if err != nil {
					return err
				}
				if name == "" {
					fmt.Println("Cancelled.")
					return nil
				}
			}
			if domainName == "" {
				return fmt.Errorf("no domain; set a default domain or pass --domain")
			}

			if err := m.CreateAlias(ctx, name, domainName, target); err != nil {
				return err
			}

			alias := name + "@" + domainName
			rec := domain.CreatedAlias{
				Alias:         alias,
				TargetAddress: target,
				CreatedAt:     time.Now().UTC(),
				CreatedFor:    forFlag,
			}
			if err := db.AppendCreatedAlias(ctx, rec); err != nil {
				// The rule exists remotely; history bookkeeping is best effort.
				fmt.Fprintf(os.Stderr, "Warning: failed to record alias history: %v\n", err)
			}

			if copyFlag {
				if err := clipboard.WriteAll(alias); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to copy to clipboard: %v\n", err)
				}
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "create", Alias: alias, Target: target})
			}
			fmt.Printf("Created %s -> %s\n", alias, target)
			return nil
		},
	}

	cmd.Flags().StringVar(&domainFlag, "domain", "", "alias domain (defaults to the configured default domain)")
	cmd.Flags().StringVar(&accountFlag, "account", "", "target account (defaults to the configured default account)")
	cmd.Flags().StringVar(&forFlag, "for", "", "URL the alias is created for, recorded in history")
	cmd.Flags().BoolVar(&copyFlag, "copy", false, "copy the new alias to the clipboard")
	cmd.Flags().BoolVarP(&interactiveFlag, "interactive", "i", false, "edit the alias name and domain interactively")
	return cmd
}

func newAliasDeleteCmd() *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "delete <alias-or-id>",
		Short: "Delete an alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, db, _, err := setupClient(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			rule, err := findRule(ctx, client, args[0])
			if err != nil {
				return err
			}

			if !yesFlag && !confirm(fmt.Sprintf("Delete %s?", rule.Address())) {
				fmt.Println("Cancelled.")
				return nil
			}

			m := app.NewManager(client, db, logger)
			if err := m.DeleteAlias(ctx, rule); err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "delete", Alias: rule.Address()})
			}
			fmt.Printf("Deleted %s\n", rule.Address())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newAliasSpamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spam <alias-or-id>",
		Short: "Re-point an alias at the spam address",
		Long: "Replace the alias's targets with the configured spam address. The\n" +
			"alias keeps receiving mail; it just lands in the spam account.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, db, _, err := setupClient(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			settings, err := db.Settings(ctx)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			rule, err := findRule(ctx, client, args[0])
			if err != nil {
				return err
			}

			m := app.NewManager(client, db, logger)
			if err := m.MarkSpam(ctx, rule, settings); err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "spam", Alias: rule.Address(), Target: settings.SpamAddress()})
			}
			fmt.Printf("Marked %s as spam -> %s\n", rule.Address(), settings.SpamAddress())
			return nil
		},
	}
	return cmd
}

// promptForAlias runs the interactive prompt. It needs the domain list, so it
// fetches the overview. An empty name in the result means the user cancelled.
func promptForAlias(ctx context.Context, m *app.Manager, settings domain.Settings, name, forURL string) (string, string, error) {
	ov, err := m.LoadOverview(ctx)
	if err != nil {
		return "", "", err
	}
	domains := make([]string, 0, len(ov.Domains))
	for _, d := range ov.Domains {
		domains = append(domains, d.Name)
	}

	suggestion := name
	if suggestion == "" {
		suggestion = suggestFor(forURL)
	}

	result, err := tui.RunPrompt(suggestion, domains, settings.DefaultDomain)
	if err != nil {
		return "", "", err
	}
	if result.Cancelled {
		return "", "", nil
	}
	return result.AliasName, result.Domain, nil
}

// suggestFor derives an alias suggestion from a URL, or "" when the URL has
// no usable hostname.
func suggestFor(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return detect.SuggestAlias(u.Hostname(), time.Now())
}

// findRule resolves an alias argument, either a numeric rule ID or a
// user@domain address, against the remote rule list.
func findRule(ctx context.Context, client provider.AliasProvider, arg string) (domain.RoutingRule, error) {
	rules, err := client.ListRoutingRules(ctx)
	if err != nil {
		return domain.RoutingRule{}, fmt.Errorf("failed to list routing rules: %w", err)
	}

	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		for _, r := range rules {
			if r.ID == id {
				return r, nil
			}
		}
		return domain.RoutingRule{}, fmt.Errorf("alias not found: %s", arg)
	}

	for _, r := range rules {
		if r.Address() == arg {
			return r, nil
		}
	}
	return domain.RoutingRule{}, fmt.Errorf("alias not found: %s", arg)
}

// confirm prompts on stdout and reads a y/N answer from stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
