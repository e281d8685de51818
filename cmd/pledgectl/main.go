// pledgectl is the admin-side client of the pledge API: it authenticates
// with the bearer credential, pulls the working set, and turns it into a CSV
// export or category-count breakdowns without going through the dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/zlog"

	"greenpledge/internal/client"
	"greenpledge/internal/report"
	"greenpledge/internal/session"
)

var rootFlags = struct {
	apiBase string
	token   string
}{}

func main() {
	rootCmd := &cobra.Command{
		Use:   "pledgectl",
		Short: "Admin client for the pledge campaign API",
	}

	rootCmd.PersistentFlags().
		StringVar(&rootFlags.apiBase, "api", defaultAPIBase(), "base URL of the pledge API (or PLEDGE_API)")
	rootCmd.PersistentFlags().
		StringVar(&rootFlags.token, "token", "", "admin bearer credential (or ADMIN_TOKEN)")

	rootCmd.AddCommand(exportCommand())
	rootCmd.AddCommand(statsCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultAPIBase() string {
	if v := os.Getenv("PLEDGE_API"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

// login runs the session gate once with the flag or environment credential.
// The credential is used for this invocation only and never written anywhere.
func login(cmd *cobra.Command) (*session.AuthorizedSession, error) {
	zlog.Init()

	token := rootFlags.token
	if token == "" {
		token = os.Getenv("ADMIN_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("no admin credential: pass --token or set ADMIN_TOKEN")
	}

	gate := session.NewGate(client.New(rootFlags.apiBase))
	return gate.Authenticate(cmd.Context(), token)
}

func exportCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download all pledge records as pledges.csv",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := login(cmd)
			if err != nil {
				return err
			}

			out := report.SerializeCSV(report.Headers, report.Rows(sess.WorkingSet))
			if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}

			fmt.Printf("Wrote %d records to %s\n", len(sess.WorkingSet), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "pledges.csv", "output file")
	return cmd
}

func statsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print category-count breakdowns of the working set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := login(cmd)
			if err != nil {
				return err
			}

			fmt.Printf("Records: %d\n\nInterested in:\n", len(sess.WorkingSet))
			for _, c := range report.CountInterested(sess.WorkingSet) {
				fmt.Printf("  %-30s %d\n", c.Category, c.Total)
			}
			fmt.Println("\nLooking for:")
			for _, c := range report.CountLookingFor(sess.WorkingSet) {
				fmt.Printf("  %-30s %d\n", c.Category, c.Total)
			}
			return nil
		},
	}
	return cmd
}
