package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/lu-zhengda/aliaskit/internal/app"
)

func newDomainsCmd() *cobra.Command {
	var sharedFlag bool

	cmd := &cobra.Command{
		Use:   "domains",
		Short: "List mail domains with DNS health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, db, _, err := setupClient(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			domains, err := client.ListDomains(cmd.Context(), sharedFlag)
			if err != nil {
				return fmt.Errorf("failed to list domains: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONDomains(domains))
			}

			if len(domains) == 0 {
				fmt.Println("No domains found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DOMAIN\tMX\tSPF\tDKIM\tDMARC\tSHARED")
			for _, d := range domains {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					d.Name,
					check(d.DNS.PassesMX),
					check(d.DNS.PassesSPF),
					check(d.DNS.PassesDKIM),
					check(d.DNS.PassesDMARC),
					yesNo(d.IsShared),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&sharedFlag, "shared", false, "include shared domains")
	return cmd
}

func newUsersCmd() *cobra.Command {
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List account addresses",
		Long:  "List the account addresses aliases can target. Hidden accounts are\nomitted unless --all is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, db, _, err := setupClient(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			users, err := client.ListUsers(ctx)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			settings, err := db.Settings(ctx)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}
			if !allFlag {
				users = app.VisibleUsers(users, settings)
			}

			if jsonFlag {
				return printJSON(users)
			}

			if len(users) == 0 {
				fmt.Println("No accounts found.")
				return nil
			}
			for _, u := range users {
				marker := ""
				if u == settings.DefaultAccount {
					marker = " (default)"
				}
				fmt.Printf("%s%s\n", u, marker)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&allFlag, "all", false, "include hidden accounts")
	return cmd
}

func check(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAIL"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
