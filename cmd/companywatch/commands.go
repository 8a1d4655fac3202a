package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/notastartupanymore/companywatch/internal/api"
	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
	"github.com/notastartupanymore/companywatch/internal/infrastructure/sink"
	"github.com/notastartupanymore/companywatch/pkg/logger"
)

type command func(ctx context.Context, a *app, args []string, out io.Writer) error

var commands map[string]command

func init() {
	commands = map[string]command{
		"serve":          serve,
		"register":       register,
		"verify":         verify,
		"login":          login,
		"logout":         logout,
		"whoami":         whoami,
		"news":           news,
		"companies":      companies,
		"filters":        filters,
		"subscriptions":  subscriptions,
		"subscribe":      collectionOp(func(a *app) ports.CollectionService { return a.subscriptions }, "add"),
		"unsubscribe":    collectionOp(func(a *app) ports.CollectionService { return a.subscriptions }, "remove"),
		"toggle-filter":  collectionOp(func(a *app) ports.CollectionService { return a.filters }, "toggle"),
		"chart":          chart,
		"report":         report,
		"contact":        contact,
		"delete-account": deleteAccount,
	}
}

func serve(ctx context.Context, a *app, _ []string, _ io.Writer) error {
	e := api.NewRouter(api.Deps{
		Session:       a.session,
		Account:       a.account,
		Subscriptions: a.subscriptions,
		Filters:       a.filters,
		Feed:          a.feed,
		Reports:       a.reports,
		Redirects:     a.redirects,
		Probes:        a.probes,
		Log:           logger.Component("console"),
	})

	srv := &http.Server{
		Addr:              a.cfg.ConsoleAddr(),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("console listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.log.Info().Msg("shutting down console")
	return srv.Shutdown(shutdownCtx)
}

func register(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	var reg domain.Registration
	fs.StringVar(&reg.Username, "username", "", "account username")
	fs.StringVar(&reg.Name, "name", "", "first name")
	fs.StringVar(&reg.Surname, "surname", "", "surname")
	fs.StringVar(&reg.Email, "email", "", "email address")
	fs.StringVar(&reg.Password, "password", "", "password (min 6 characters)")
	fs.StringVar(&reg.ConfirmPassword, "confirm", "", "password confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.account.Register(ctx, reg); err != nil {
		return err
	}
	fmt.Fprintf(out, "account created, check %s for the verification link\n", reg.Email)
	return nil
}

func verify(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	token := fs.String("token", "", "token from the verification email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.account.VerifyEmail(ctx, *token); err != nil {
		return err
	}
	fmt.Fprintln(out, "email verified")
	return nil
}

func login(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := a.account.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "logged in as %s\n", sess.Username)
	return nil
}

func logout(ctx context.Context, a *app, _ []string, out io.Writer) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "logged out")
	return nil
}

func whoami(ctx context.Context, a *app, _ []string, out io.Writer) error {
	sess := a.session.Session()
	if !sess.IsAuthenticated() {
		fmt.Fprintln(out, "not logged in")
		return nil
	}
	p, err := a.account.Profile(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "username\t%s\n", p.Username)
	fmt.Fprintf(w, "name\t%s %s\n", p.Name, p.Surname)
	fmt.Fprintf(w, "email\t%s\n", p.Email)
	fmt.Fprintf(w, "subscriptions\t%s\n", strings.Join(p.Subscriptions, ", "))
	fmt.Fprintf(w, "filters\t%s\n", strings.Join(p.Filters, ", "))
	return w.Flush()
}

func news(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("news", flag.ContinueOnError)
	interesting := fs.Bool("interesting", false, "only news about subscriptions")
	filtered := fs.Bool("filtered", false, "only news matching active filters")
	details := fs.Bool("details", false, "print the article details")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		items []domain.NewsItem
		err   error
	)
	switch {
	case *interesting:
		items, err = a.feed.Interesting(ctx)
	case *filtered:
		items, err = a.feed.Filtered(ctx)
	default:
		items, err = a.feed.News(ctx)
	}
	if err != nil {
		return err
	}
	return printNews(out, items, *details)
}

func printNews(out io.Writer, items []domain.NewsItem, details bool) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, n := range items {
		date := ""
		if !n.Date.IsZero() {
			date = n.Date.Format(domain.DateLayout)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", date, n.Company, n.Topic, n.Title)
		if details && n.Details != "" {
			fmt.Fprintf(w, "\t%s\n", htmlText(n.Details))
		}
	}
	return w.Flush()
}

func companies(ctx context.Context, a *app, _ []string, out io.Writer) error {
	items, err := a.feed.Companies(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Type, htmlText(c.Details))
	}
	return w.Flush()
}

func filters(ctx context.Context, a *app, _ []string, out io.Writer) error {
	labels, err := a.feed.FilterLabels(ctx)
	if err != nil {
		return err
	}
	if a.session.Session().IsAuthenticated() {
		if err := a.filters.Ensure(ctx); err != nil {
			return err
		}
	}
	for _, l := range labels {
		mark := " "
		if a.filters.Contains(l) {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %s\n", mark, l)
	}
	return nil
}

func subscriptions(ctx context.Context, a *app, _ []string, out io.Writer) error {
	items, err := a.subscriptions.Refresh(ctx)
	if err != nil {
		return err
	}
	for _, s := range items {
		fmt.Fprintln(out, s)
	}
	return nil
}

// collectionOp runs add, remove or toggle on the collection picked from the
// app, taking the item from the remaining arguments.
func collectionOp(pick func(*app) ports.CollectionService, op string) command {
	return func(ctx context.Context, a *app, args []string, out io.Writer) error {
		item := strings.TrimSpace(strings.Join(args, " "))
		c := pick(a)

		var (
			items []string
			err   error
		)
		switch op {
		case "add":
			items, err = c.Add(ctx, item)
		case "remove":
			items, err = c.Remove(ctx, item)
		default:
			items, err = c.Toggle(ctx, item)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s\n", c.Name(), strings.Join(items, ", "))
		return nil
	}
}

func chart(ctx context.Context, a *app, args []string, out io.Writer) error {
	q := domain.DefaultChartQuery()
	fs := flag.NewFlagSet("chart", flag.ContinueOnError)
	fs.StringVar(&q.DataType, "data", q.DataType, "series to plot")
	fs.StringVar(&q.CompanyType, "company", q.CompanyType, "company type")
	fs.StringVar(&q.TimePeriod, "period", q.TimePeriod, "time period")
	if err := fs.Parse(args); err != nil {
		return err
	}

	points, err := a.feed.Chart(ctx, q)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%d\n", p.Label, p.Value)
	}
	return w.Flush()
}

func report(ctx context.Context, a *app, args []string, out io.Writer) error {
	var req domain.ReportRequest
	var categories string
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.StringVar(&req.StartDate, "from", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&req.EndDate, "to", "", "end date (YYYY-MM-DD)")
	fs.StringVar(&categories, "categories", "", "comma separated: creation,relocation,growth,other")
	fs.BoolVar(&req.IncludeCharts, "charts", false, "include charts")
	fs.StringVar(&req.DeliveryEmail, "email", "", "deliver to this address instead of downloading")
	fs.StringVar(&req.Notes, "notes", "", "message for the report recipient")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.Categories = parseCategories(categories)

	res, err := a.reports.Submit(ctx, req)
	if err != nil {
		return err
	}
	switch {
	case res.Delivery == domain.DeliveryEmail:
		fmt.Fprintln(out, res.Message)
	case res.Location != "":
		fmt.Fprintf(out, "report saved to %s\n", res.Location)
	case res.File != nil:
		// no sink configured; keep the file next to the caller
		path, err := sink.NewDir(".").Save(ctx, res.File)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "report saved to %s\n", path)
	}
	return nil
}

func parseCategories(s string) []domain.Category {
	var out []domain.Category
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, domain.Category(part))
		}
	}
	return out
}

func contact(ctx context.Context, a *app, args []string, out io.Writer) error {
	var msg domain.ContactMessage
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	fs.StringVar(&msg.Name, "name", "", "your name")
	fs.StringVar(&msg.Mail, "mail", "", "reply address")
	fs.StringVar(&msg.Message, "message", "", "message body")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.account.Contact(ctx, msg); err != nil {
		return err
	}
	fmt.Fprintln(out, "message sent")
	return nil
}

func deleteAccount(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete-account", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "confirm deletion")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return errors.New("refusing to delete the account without -yes")
	}
	username := a.session.Session().Username
	if err := a.account.DeleteAccount(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "account %s deleted\n", username)
	return nil
}
