package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/mmynk/livrocaixa/internal/app"
	"github.com/mmynk/livrocaixa/internal/auth"
	"github.com/mmynk/livrocaixa/internal/config"
	"github.com/mmynk/livrocaixa/internal/export"
	"github.com/mmynk/livrocaixa/internal/ledger"
	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/repository"
	"github.com/mmynk/livrocaixa/internal/storage"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

const usage = "usage: ledgerctl <summary|export|users> -email <email> [flags]"

// session is an authenticated command invocation.
type session struct {
	store         storage.Store
	authenticator auth.Authenticator
	user          *models.User
	out           io.Writer
}

// run dispatches args to a subcommand, writing its output to out.
func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	name, args := args[0], args[1:]

	cfg := config.Load()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	cfg.BindFlags(fs)
	email := fs.String("email", "", "login email")

	var cmd func(context.Context, *session) error
	switch name {
	case "summary":
		c := criteriaFlags(fs)
		cmd = func(ctx context.Context, s *session) error { return summary(ctx, s, *c) }
	case "export":
		c := criteriaFlags(fs)
		kind := fs.String("kind", "transactions", "transactions, report or sheets")
		format := fs.String("format", "csv", "csv, xlsx or pdf")
		layout := fs.String("layout", string(export.LayoutDetailed), "csv layout: detailed or simple")
		output := fs.String("o", "", "output file (default: generated name in the current directory)")
		cmd = func(ctx context.Context, s *session) error {
			return exportFile(ctx, s, *c, *kind, export.Format(*format), export.Layout(*layout), *output)
		}
	case "users":
		cmd = users
	default:
		return fmt.Errorf("unknown command %q\n%s", name, usage)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("-email is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	authenticator, err := app.NewAuthenticator(cfg, store)
	if err != nil {
		return err
	}

	fmt.Fprint(out, "Password: ")
	password, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	user, err := authenticator.Authenticate(ctx, *email, string(password))
	if err != nil {
		return err
	}

	return cmd(ctx, &session{store: store, authenticator: authenticator, user: user, out: out})
}

// criteriaFlags registers the filter flags shared by summary and export.
func criteriaFlags(fs *flag.FlagSet) *models.Criteria {
	c := &models.Criteria{}
	fs.IntVar(&c.Year, "year", 0, "calendar year (0 for all)")
	fs.IntVar(&c.Month, "month", 0, "month 1-12 (0 for all)")
	fs.StringVar(&c.Category, "category", "", "exact category")
	fs.StringVar(&c.Search, "search", "", "text in description, category or responsible")
	fs.Func("start", "first day of a custom period, YYYY-MM-DD", dateFlag(&c.Start))
	fs.Func("end", "last day of a custom period, YYYY-MM-DD", dateFlag(&c.End))
	fs.BoolVar(&c.IncomeOnly, "income-only", false, "keep only income")
	fs.Func("sort", "order by date, amount or category", func(s string) error {
		c.SortBy = models.SortKey(s)
		return nil
	})
	fs.Func("direction", "asc or desc (default asc)", func(s string) error {
		c.Direction = models.Direction(s)
		return nil
	})
	return c
}

func dateFlag(dst **models.Date) func(string) error {
	return func(s string) error {
		d, err := models.ParseDate(s)
		if err != nil {
			return err
		}
		*dst = &d
		return nil
	}
}

func summary(ctx context.Context, s *session, c models.Criteria) error {
	if err := c.Validate(); err != nil {
		return err
	}
	txs, err := repository.NewTransactions(s.store).List(ctx, s.user.ID)
	if err != nil {
		return err
	}
	result := ledger.Run(txs, c)
	report := result.Report

	fmt.Fprintf(s.out, "Período: %s\n", export.Period(c))
	fmt.Fprintf(s.out, "Transações: %d\n\n", len(result.Transactions))

	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Mês\tEntradas\tSaídas\tSaldo\t")
	for _, row := range report.Months {
		if row.Income.IsZero() && row.Expense.IsZero() {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", row.Name, export.Money(row.Income), export.Money(row.Expense), export.Money(row.Balance))
	}
	fmt.Fprintf(w, "TOTAL\t%s\t%s\t%s\t\n",
		export.Money(report.Totals.Income), export.Money(report.Totals.Expense), export.Money(report.Totals.Balance))
	if err := w.Flush(); err != nil {
		return err
	}

	if len(report.Categories) == 0 {
		return nil
	}
	fmt.Fprintln(s.out)
	names := make([]string, 0, len(report.Categories))
	for name := range report.Categories {
		names = append(names, name)
	}
	ledger.Collate(names)

	w = tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Categoria\tEntradas\tSaídas\tLíquido")
	for _, name := range names {
		ct := report.Categories[name]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, export.Money(ct.Income), export.Money(ct.Expense), export.Money(ct.Net))
	}
	return w.Flush()
}

func exportFile(ctx context.Context, s *session, c models.Criteria, kind string, f export.Format, layout export.Layout, output string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	var (
		a   export.Artifact
		err error
	)
	now := time.Now()
	switch kind {
	case "transactions", "report":
		txs, lerr := repository.NewTransactions(s.store).List(ctx, s.user.ID)
		if lerr != nil {
			return lerr
		}
		result := ledger.Run(txs, c)
		if kind == "report" {
			a, err = export.Report(result.Report, c, f, now)
		} else {
			a, err = export.Transactions(result.Transactions, c, f, layout, now)
		}
	case "sheets":
		all, lerr := repository.NewSheets(s.store).List(ctx, s.user.ID)
		if lerr != nil {
			return lerr
		}
		selected := ledger.SortSheets(ledger.FilterSheets(all, models.SheetCriteria{Year: c.Year}), true)
		a, err = export.Sheets(selected, c.Year, f)
	default:
		return fmt.Errorf("unknown export kind %q: must be transactions, report or sheets", kind)
	}
	if err != nil {
		return err
	}

	if output == "" {
		output = a.FileName
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(output, a.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	profiles := repository.NewProfiles(s.store, s.authenticator)
	if err := profiles.RecordReport(ctx, s.user.ID); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Wrote %s (%d bytes)\n", output, len(a.Data))
	return nil
}

func users(ctx context.Context, s *session) error {
	if s.user.Role != models.RoleAdmin {
		return fmt.Errorf("%s is not an administrator", s.user.Email)
	}
	list, err := auth.NewDirectory(s.store).List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tNOME\tPAPEL\tATIVO\tÚLTIMO ACESSO")
	for _, u := range list {
		last := "-"
		if u.LastLogin != nil {
			last = u.LastLogin.Format("02/01/2006 15:04")
		}
		active := "não"
		if u.IsActive {
			active = "sim"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.Email, u.DisplayName(), strings.ToUpper(string(u.Role)), active, last)
	}
	return w.Flush()
}
