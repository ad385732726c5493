package cli

import (
	"fmt"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/lu-zhengda/aliaskit/internal/app"
	"github.com/lu-zhengda/aliaskit/internal/detect"
	"github.com/lu-zhengda/aliaskit/internal/provider"
	"github.com/lu-zhengda/aliaskit/internal/store"
)

func newScanCmd() *cobra.Command {
	var urlFlag string
	var createFlag bool
	var copyFlag bool

	cmd := &cobra.Command{
		Use:   "scan <html-file>",
		Short: "Detect email fields in an HTML document",
		Long: "Parse an HTML document and report the email input fields an alias\n" +
			"could be offered for. With --create, an interactive prompt creates\n" +
			"an alias for the page, suggested from the --url hostname.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			firstRun, err := db.IsFirstRun(ctx)
			if err != nil {
				return fmt.Errorf("failed to check setup state: %w", err)
			}

			hostname := ""
			if urlFlag != "" {
				u, err := url.Parse(urlFlag)
				if err != nil {
					return fmt.Errorf("failed to parse URL: %w", err)
				}
				hostname = u.Hostname()
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open document: %w", err)
			}
			defer file.Close()

			doc, err := html.Parse(file)
			if err != nil {
				return fmt.Errorf("failed to parse document: %w", err)
			}

			d := detect.New(detect.Options{
				Enabled:        !firstRun,
				ExtraSkipHosts: cfg.Detect.ExtraSkipHosts,
			})
			if !d.Activate(hostname, doc) {
				if firstRun {
					return fmt.Errorf("detection is disabled until setup completes; run 'aliaskit setup'")
				}
				if jsonFlag {
					return printJSON(toJSONFields(nil))
				}
				fmt.Printf("Host %s is on the skip list; nothing scanned.\n", hostname)
				return nil
			}

			fields := d.Fields()
			if jsonFlag && !createFlag {
				return printJSON(toJSONFields(fields))
			}

			if len(fields) == 0 {
				fmt.Println("No email fields detected.")
				return nil
			}

			if !jsonFlag {
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "TYPE\tNAME\tID\tPLACEHOLDER")
				for _, f := range fields {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Type, f.Name, f.ID, f.Placeholder)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			if !createFlag {
				return nil
			}

			// The create flow mirrors the page-to-background contract: the
			// prompt result goes over the bus, and the orchestrator answers
			// with a structured response.
			token, err := resolveToken(ctx, db)
			if err != nil {
				return err
			}
			client := newProvider(cfg, token)

			m := app.NewManager(client, db, logger)
			settings, err := db.Settings(ctx)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			suggestion := ""
			if hostname != "" {
				suggestion = detect.SuggestAlias(hostname, time.Now())
			}
			name, domainName, err := promptForAlias(ctx, m, settings, suggestion, "")
			if err != nil {
				return err
			}
			if name == "" {
				fmt.Println("Cancelled.")
				return nil
			}

			bus := app.NewBus(1)
			orch := app.NewOrchestrator(db, store.NewKeyringTokenStore(),
				func(token string) provider.AliasProvider { return newProvider(cfg, token) }, logger)
			go orch.Serve(ctx, bus)

			resp, err := bus.Send(ctx, app.Request{
				Action:     app.ActionCreateAlias,
				AliasName:  name,
				Domain:     domainName,
				CurrentURL: urlFlag,
			})
			if err != nil {
				return err
			}
			if !resp.Success {
				if jsonFlag {
					return printJSON(jsonAction{OK: false, Action: "create", Error: resp.Error})
				}
				return fmt.Errorf("failed to create alias: %s", resp.Error)
			}

			if copyFlag {
				if err := clipboard.WriteAll(resp.Alias); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to copy to clipboard: %v\n", err)
				}
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "create", Alias: resp.Alias})
			}
			fmt.Printf("Created %s\n", resp.Alias)
			return nil
		},
	}

	cmd.Flags().StringVar(&urlFlag, "url", "", "page URL, used for the skip list and the alias suggestion")
	cmd.Flags().BoolVar(&createFlag, "create", false, "interactively create an alias for the page")
	cmd.Flags().BoolVar(&copyFlag, "copy", false, "copy the created alias to the clipboard")
	return cmd
}
