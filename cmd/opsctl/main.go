// opsctl is a small operations console for the Kavalife ERP backend.
// It logs in, keeps the reference-data cache warm on disk, and lists
// inspection reports and receipts the way the cards render them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"kavalife-erp/pkg/bootstrap"
	"kavalife-erp/pkg/config"
	"kavalife-erp/pkg/mapper"
	"kavalife-erp/pkg/opsclient"

	"go.uber.org/zap"
)

const usage = `usage: opsctl <command> [flags]

commands:
  login      -user <name> -pass <password>   authenticate and print the session token
  whoami                                     show the current session user
  refresh                                    force a reference-data re-fetch
  vendors                                    list cached vendors
  products                                   list cached products
  users                                      list cached users
  virs                                       list inspection reports
  vir        <virNumber>                     show one inspection report
  verify     <virNumber>                     sign off an inspection report
  grns                                       list goods received notes
  qaqc       <grnNumber>                     show the QA/QC entry for a receipt

The session token from login is read from the KAVALIFE_SESSION
environment variable on subsequent commands.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load configuration: %v", err)
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		fatal("init logger: %v", err)
	}
	defer log.Sync()

	opts := []opsclient.Option{
		opsclient.WithLogger(log),
		opsclient.WithTimeout(cfg.Client.Timeout),
	}
	if token := os.Getenv("KAVALIFE_SESSION"); token != "" {
		opts = append(opts, opsclient.WithSessionToken(token))
	}

	client, err := opsclient.New(cfg.Client.BaseURL, opts...)
	if err != nil {
		fatal("init client: %v", err)
	}

	store := bootstrap.NewStore(client,
		bootstrap.WithLogger(log),
		bootstrap.WithSnapshot(filepath.Join(cfg.Client.CacheDir, bootstrap.SnapshotFileName)))

	ctx := context.Background()

	switch os.Args[1] {
	case "login":
		runLogin(ctx, client, store, os.Args[2:])
	case "whoami":
		runWhoami(ctx, client)
	case "refresh":
		if err := store.Refresh(ctx); err != nil {
			fatal("refresh reference data: %v", err)
		}
		fmt.Printf("cached %d vendors, %d products, %d users\n",
			len(store.Vendors()), len(store.Products()), len(store.Users()))
	case "vendors":
		mustLoad(ctx, store)
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS")
		for _, v := range store.Vendors() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", v.ID, v.Name, v.Type, v.Status)
		}
		w.Flush()
	case "products":
		mustLoad(ctx, store)
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tQUANTITY")
		for _, p := range store.Products() {
			fmt.Fprintf(w, "%d\t%s\t%.2f\n", p.ID, p.Name, p.Quantity)
		}
		w.Flush()
	case "users":
		mustLoad(ctx, store)
		w := newTable()
		fmt.Fprintln(w, "ID\tUSERNAME\tROLE")
		for _, u := range store.Users() {
			fmt.Fprintf(w, "%d\t%s\t%s\n", u.ID, u.Username, u.Role)
		}
		w.Flush()
	case "virs":
		runListVIRs(ctx, client, store)
	case "vir":
		if len(os.Args) < 3 {
			fatal("usage: opsctl vir <virNumber>")
		}
		runShowVIR(ctx, client, store, os.Args[2])
	case "verify":
		if len(os.Args) < 3 {
			fatal("usage: opsctl verify <virNumber>")
		}
		if err := client.VerifyVIR(ctx, os.Args[2], opsclient.VIRVerify{}); err != nil {
			fatal("verify %s: %v", os.Args[2], err)
		}
		fmt.Printf("%s verified\n", os.Args[2])
	case "grns":
		runListGRNs(ctx, client, store)
	case "qaqc":
		if len(os.Args) < 3 {
			fatal("usage: opsctl qaqc <grnNumber>")
		}
		runShowQAQC(ctx, client, os.Args[2])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func runLogin(ctx context.Context, client *opsclient.Client, store *bootstrap.Store, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("user", "", "username")
	pass := fs.String("pass", "", "password")
	fs.Parse(args)

	u, err := client.Login(ctx, *user, *pass)
	if err != nil {
		fatal("login: %v", err)
	}

	// Warm the reference cache for the commands that follow
	if err := store.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: reference data not cached: %v\n", err)
	}

	fmt.Printf("logged in as %s (%s)\n", u.Username, u.Role)
	fmt.Printf("export KAVALIFE_SESSION=%s\n", client.SessionToken())
}

func runWhoami(ctx context.Context, client *opsclient.Client) {
	u, err := client.CheckUser(ctx)
	if err != nil {
		fatal("check session: %v", err)
	}
	fmt.Printf("%s (%s)\n", u.Username, u.Role)
}

func runListVIRs(ctx context.Context, client *opsclient.Client, store *bootstrap.Store) {
	mustLoad(ctx, store)

	virs, err := client.FetchAllVIRs(ctx)
	if err != nil {
		fatal("fetch VIRs: %v", err)
	}

	w := newTable()
	fmt.Fprintln(w, "VIR\tVENDOR\tPRODUCT\tSTATUS\tCREATED BY\tDATE")
	for i := range virs {
		card := mapper.VIRCardView(store, &virs[i])
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			card.VIRNumber, card.VendorName, card.ProductName, card.Status, card.CreatedBy, card.CreatedAt)
	}
	w.Flush()
}

func runShowVIR(ctx context.Context, client *opsclient.Client, store *bootstrap.Store, virNumber string) {
	mustLoad(ctx, store)

	vir, err := client.GetVIR(ctx, virNumber)
	if err != nil {
		fatal("fetch %s: %v", virNumber, err)
	}

	d := mapper.VIRDetailsView(store, vir)
	fmt.Printf("%s  %s / %s  [%s]\n", d.VIRNumber, d.VendorName, d.ProductName, d.Status)
	for question, answer := range d.Checklist {
		fmt.Printf("  %-40s %s\n", question, answer)
	}
	if d.Remarks != "" {
		fmt.Printf("remarks: %s\n", d.Remarks)
	}
	if d.ReadOnly {
		fmt.Printf("checked by %s on %s\n", d.CheckedBy, d.CheckedAt)
	}
}

func runListGRNs(ctx context.Context, client *opsclient.Client, store *bootstrap.Store) {
	mustLoad(ctx, store)

	grns, err := client.FetchGRNs(ctx)
	if err != nil {
		fatal("fetch GRNs: %v", err)
	}

	w := newTable()
	fmt.Fprintln(w, "GRN\tVIR\tVENDOR\tPRODUCT\tSTATUS\tQAQC\tACTION")
	for i := range grns {
		card := mapper.GRNCardView(store, &grns[i])
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			card.GRNNumber, card.VIRNumber, card.VendorName, card.ProductName,
			card.Status, card.QAQCStatus, card.QAQCAction)
	}
	w.Flush()
}

func runShowQAQC(ctx context.Context, client *opsclient.Client, grnNumber string) {
	entry, err := client.FetchQAQC(ctx, "grn", grnNumber)
	if err != nil {
		fatal("fetch QAQC for %s: %v", grnNumber, err)
	}
	if entry == nil {
		fmt.Printf("no QA/QC entry for %s yet\n", grnNumber)
		return
	}

	fmt.Printf("QA/QC for %s  [%s]\n", entry.ProcessRef, entry.Status)
	fmt.Printf("  sampled %d containers (%.2f) by %s on %s\n",
		entry.ContainersSampled, entry.SampledQuantity, entry.SampledBy, entry.SampledOn)
	if entry.ARNumber != "" {
		fmt.Printf("  AR number %s, release %s\n", entry.ARNumber, entry.ReleaseDate)
	}
	if entry.AnalystRemark != "" {
		fmt.Printf("  remark: %s\n", entry.AnalystRemark)
	}
}

func mustLoad(ctx context.Context, store *bootstrap.Store) {
	if err := store.Load(ctx); err != nil {
		fatal("load reference data: %v", err)
	}
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
