// Command `dnsq` is the end-user CLI for the dnsq daemon.
//
// It submits address lookups and record queries to a background daemon
// (dnsqd) over a Unix domain socket and renders the aggregated results.
//
// Usage:
//
//	dnsq lookup <hostname>            - Resolve a hostname to addresses
//	dnsq query <hostname> <type>      - Query records of one type (or ANY)
//	dnsq status                       - Show daemon status
//
// Examples:
//
//	dnsq lookup example.com           - Both IPv4 and IPv6 addresses
//	dnsq lookup -4 example.com        - IPv4 only
//	dnsq lookup --verbatim example.com - Skip result ordering/filtering
//	dnsq query example.com MX         - Mail exchangers
//	dnsq query example.com ANY        - Fan out over all supported types
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/lc/dnsq/internal/buildinfo"
	"github.com/lc/dnsq/internal/config"
	"github.com/lc/dnsq/pkg/api"
	"github.com/lc/dnsq/pkg/client"
	"github.com/lc/dnsq/pkg/records"
)

func main() {
	cfg, err := config.New().Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	cli := client.New(cfg.Socket.Path)

	root := &cobra.Command{
		Use:   "dnsq",
		Short: "dnsq resolution CLI",
		Long: `dnsq submits DNS lookups to the dnsqd daemon and renders the results.
Address lookups fan out over IPv4 and IPv6 concurrently; record queries
support A, AAAA, CNAME, MX, PTR, SRV, TXT and the ANY wildcard.`,
	}

	// ---- version command ----
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("version: %s\n", buildinfo.Version)
			fmt.Printf("commit: %s\n", buildinfo.Commit)
		},
	}

	// ---- lookup command ----
	var (
		flagV4       bool
		flagV6       bool
		flagVerbatim bool
	)
	lookupCmd := &cobra.Command{
		Use:   "lookup <hostname>",
		Short: "Resolve a hostname to IP addresses",
		Long: `Resolve a hostname to IP addresses. Without a family flag both IPv4 and
IPv6 are queried concurrently and the merged result lists IPv4 first.

Examples:
  dnsq lookup example.com           Both address families
  dnsq lookup -4 example.com        IPv4 only
  dnsq lookup -6 example.com        IPv6 only
  dnsq lookup --verbatim example.com  Addresses exactly as resolved`,
		Example: "dnsq lookup example.com",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if flagV4 && flagV6 {
				return fmt.Errorf("at most one of -4 and -6 may be set")
			}
			family := 0
			switch {
			case flagV4:
				family = 4
			case flagV6:
				family = 6
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			resp, err := cli.Lookup(ctx, args[0], family, flagVerbatim)
			if err != nil {
				return err
			}
			if resp.Code != 0 {
				color.New(color.FgHiRed, color.Bold).Printf("✗ %s ", args[0])
				color.New(color.FgRed).Printf("(code %d): %s\n", resp.Code, resp.Error)
				os.Exit(1)
			}
			for _, addr := range resp.Addresses {
				fmt.Println(addr)
			}
			return nil
		},
	}
	lookupCmd.Flags().BoolVarP(&flagV4, "ipv4", "4", false, "query IPv4 addresses only")
	lookupCmd.Flags().BoolVarP(&flagV6, "ipv6", "6", false, "query IPv6 addresses only")
	lookupCmd.Flags().BoolVar(&flagVerbatim, "verbatim", false, "skip result ordering and filtering")

	// ---- query command ----
	queryCmd := &cobra.Command{
		Use:   "query <hostname> <type>",
		Short: "Query records of one type (or ANY)",
		Long: `Query records of a single type for a hostname. The type is one of
A, AAAA, CNAME, MX, PTR, SRV, TXT, or ANY to fan out over all of them.

Examples:
  dnsq query example.com MX
  dnsq query _sip._tcp.example.com SRV
  dnsq query example.com ANY`,
		Example: "dnsq query example.com MX",
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			resp, err := cli.Query(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if resp.Code != 0 {
				color.New(color.FgHiRed, color.Bold).Printf("✗ %s %s ", args[0], args[1])
				color.New(color.FgRed).Printf("(code %d): %s\n", resp.Code, resp.Error)
				os.Exit(1)
			}
			renderRecords(resp.Records)
			return nil
		},
	}

	// ---- status command ----
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			st, err := cli.Status(ctx)
			if err != nil {
				return err
			}
			renderStatus(st)
			return nil
		},
	}

	root.AddCommand(lookupCmd, queryCmd, statusCmd, versionCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func renderRecords(recs []records.Record) {
	if len(recs) == 0 {
		color.Yellow("No records found.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Type", "Value", "Prio", "Weight", "Port", "TTL"})
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
	)
	table.SetBorder(false)

	for _, rec := range recs {
		value := rec.Value
		if rec.Type == records.TypeTXT {
			value = fmt.Sprintf("%q", rec.Entries)
		}

		prio, weight, port := "", "", ""
		switch rec.Type {
		case records.TypeMX:
			prio = fmt.Sprint(rec.Priority)
		case records.TypeSRV:
			prio = fmt.Sprint(rec.Priority)
			weight = fmt.Sprint(rec.Weight)
			port = fmt.Sprint(rec.Port)
		}

		table.Append([]string{rec.Type.String(), value, prio, weight, port, fmt.Sprint(rec.TTL)})
	}
	table.Render()
}

func renderStatus(st api.StatusResponse) {
	color.New(color.Bold).Println("DNSQD STATUS:")
	fmt.Printf("  in-flight: %d\n", st.InFlight)
	fmt.Printf("  served:    %d\n", st.Served)
	fmt.Printf("  uptime:    %s\n", st.Uptime.Round(time.Second))
	fmt.Printf("  version:   %s (%s)\n", st.Version, st.Commit)
}
