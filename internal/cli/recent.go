package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/lu-zhengda/aliaskit/internal/app"
)

func newRecentCmd() *cobra.Command {
	var hostFlag string

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recently created aliases",
		Long: "Show aliases created through aliaskit in the last 7 days, at most\n" +
			"five. With --host, aliases created for that host rank first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := db.ListCreatedAliases(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list alias history: %w", err)
			}
			records = app.RecentAliases(records, hostFlag, time.Now())

			if jsonFlag {
				return printJSON(toJSONRecent(records))
			}

			if len(records) == 0 {
				fmt.Println("No recent aliases.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ALIAS\tTARGET\tCREATED\tFOR")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					r.Alias, r.TargetAddress,
					r.CreatedAt.Format("Jan 2, 2006"),
					r.CreatedFor,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&hostFlag, "host", "", "rank aliases created for this host first")
	return cmd
}
