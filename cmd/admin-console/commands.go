// cmd/admin-console/commands.go
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"estate-admin/internal/dataaccess"
	"estate-admin/internal/models"
	"estate-admin/internal/store"
)

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "requests":
		return a.runRequests(ctx, args)
	case "pending":
		return a.runPending(ctx, args)
	case "approve":
		return a.runDecision(ctx, models.DecisionApprove, args)
	case "reject":
		return a.runDecision(ctx, models.DecisionReject, args)
	case "terminate":
		return a.runTerminate(ctx, args)
	case "delete":
		return a.runDelete(ctx, args)
	case "stats":
		return a.runStats(ctx)
	case "export":
		return a.runExport(ctx, args)
	case "districts":
		return a.runDistricts(ctx)
	case "resources":
		return a.runResources(ctx, args)
	case "dashboard":
		return a.runDashboard(ctx)
	case "chat":
		return a.runChat(ctx, args)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}
}

// pageFlags registers -page/-size/-sort/-dir with the configured defaults.
func (a *app) pageFlags(fs *flag.FlagSet) *models.PageRequest {
	req := &models.PageRequest{}
	fs.IntVar(&req.Page, "page", 0, "0-based page number")
	fs.IntVar(&req.Size, "size", a.cfg.Listing.PageSize, "page size")
	fs.StringVar(&req.SortBy, "sort", a.cfg.Listing.SortBy, "sort field")
	fs.StringVar(&req.Direction, "dir", a.cfg.Listing.Direction, "ASC or DESC")
	return req
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func (a *app) runRequests(ctx context.Context, args []string) error {
	fs := newFlagSet("requests")
	req := a.pageFlags(fs)
	filters := models.RequestFilters{}
	status := fs.String("status", "", "PENDING, APPROVED or REJECTED")
	district := fs.Int64("district", 0, "district id")
	cached := fs.Bool("cached", false, "print the last saved snapshot instead of querying")
	fs.StringVar(&filters.Search, "search", "", "free-text search")
	fs.StringVar(&filters.FromDate, "from", "", "start date YYYY-MM-DD")
	fs.StringVar(&filters.ToDate, "to", "", "end date YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *cached {
		found, err := a.franchisees.Restore(ctx)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no saved snapshot; run without -cached first")
		}
		a.printRequests(a.franchisees.State())
		return nil
	}

	filters.PageRequest = *req
	if *status != "" {
		st, ok := models.ParseStatus(*status)
		if !ok {
			return fmt.Errorf("unknown status %q", *status)
		}
		filters.Status = st
	}
	if *district != 0 {
		filters.DistrictID = district
	}

	if err := a.franchisees.FetchRequests(ctx, filters); err != nil {
		return err
	}
	a.printRequests(a.franchisees.State())
	return nil
}

func (a *app) printRequests(st store.FranchiseeState) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBUSINESS\tDISTRICT\tSTATUS\tCREATED")
	for _, r := range st.Requests {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.BusinessName, r.DistrictName, r.Status, r.CreatedAt.Date())
	}
	tw.Flush()
	fmt.Fprintf(a.out, "page %d/%d, %d total\n", st.CurrentPage+1, max(st.TotalPages, 1), st.TotalElements)
}

func (a *app) runPending(ctx context.Context, args []string) error {
	fs := newFlagSet("pending")
	req := a.pageFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.pending.Load(ctx, req.Page, req.Size); err != nil {
		return err
	}
	view := a.pending.View()
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBUSINESS\tDISTRICT\tSUBMITTED")
	for _, r := range view.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.BusinessName, r.DistrictName, r.CreatedAt.DateTime())
	}
	tw.Flush()
	fmt.Fprintf(a.out, "%d pending\n", view.Statistics[models.StatusPending])
	return nil
}

// runDecision approves or rejects through the pending view, so the request
// must be on the loaded page.
func (a *app) runDecision(ctx context.Context, decision models.Decision, args []string) error {
	fs := newFlagSet(decision.String())
	req := a.pageFlags(fs)
	id := fs.Int64("id", 0, "request id")
	var input models.DecisionInput
	fs.StringVar(&input.Comments, "comments", "", "admin comments")
	if decision == models.DecisionApprove {
		fs.StringVar(&input.EndDate, "end-date", "", "assignment end date YYYY-MM-DD")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("-id is required")
	}

	if err := a.pending.Load(ctx, req.Page, req.Size); err != nil {
		return err
	}
	if err := a.pending.OpenDecision(*id, decision); err != nil {
		return err
	}
	if err := a.pending.SetInput(input); err != nil {
		return err
	}
	return a.pending.Confirm(ctx)
}

func (a *app) runTerminate(ctx context.Context, args []string) error {
	fs := newFlagSet("terminate")
	req := a.pageFlags(fs)
	id := fs.Int64("id", 0, "franchisee request id")
	var input models.DecisionInput
	fs.StringVar(&input.Comments, "comments", "", "reason for termination")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("-id is required")
	}

	if err := a.active.Load(ctx, req.Page, req.Size); err != nil {
		return err
	}
	if err := a.active.OpenTerminate(*id); err != nil {
		return err
	}
	if err := a.active.SetTerminateInput(input); err != nil {
		return err
	}
	return a.active.ConfirmTerminate(ctx)
}

func (a *app) runDelete(ctx context.Context, args []string) error {
	fs := newFlagSet("delete")
	req := a.pageFlags(fs)
	id := fs.Int64("id", 0, "franchisee request id")
	reason := fs.String("reason", "", "reason for deletion")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("-id is required")
	}

	if err := a.active.Load(ctx, req.Page, req.Size); err != nil {
		return err
	}
	if err := a.active.OpenDelete(*id); err != nil {
		return err
	}
	if err := a.active.SetReason(*reason); err != nil {
		return err
	}
	return a.active.ConfirmDelete(ctx)
}

func (a *app) runStats(ctx context.Context) error {
	if err := a.franchisees.FetchStatistics(ctx); err != nil {
		return err
	}
	stats := a.franchisees.State().Statistics

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, status := range models.AllStatuses {
		fmt.Fprintf(tw, "%s\t%d\n", status, stats[status])
	}
	fmt.Fprintf(tw, "TOTAL\t%d\n", stats.Total())
	return tw.Flush()
}

func (a *app) runExport(ctx context.Context, args []string) error {
	fs := newFlagSet("export")
	district := fs.Int64("district", 0, "limit the report to one district")
	dir := fs.String("dir", ".", "output directory; - writes to stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *district != 0 {
		if err := a.report.SelectDistrict(ctx, district); err != nil {
			return err
		}
	} else if err := a.report.Load(ctx); err != nil {
		return err
	}

	if *dir == "-" {
		return a.report.Export(a.out)
	}
	_, err := a.report.ExportFile(*dir)
	return err
}

func (a *app) runDistricts(ctx context.Context) error {
	districts, err := a.districts.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATE")
	for _, d := range districts {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", d.ID, d.Name, d.State)
	}
	return tw.Flush()
}

func (a *app) runDashboard(ctx context.Context) error {
	if err := a.dashboard.FetchDashboard(ctx); err != nil {
		return err
	}
	s := a.dashboard.State().Stats

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Properties\t%d (%d active)\n", s.TotalProperties, s.ActiveProperties)
	fmt.Fprintf(tw, "Advertisements\t%d (%d active)\n", s.TotalAdvertisements, s.ActiveAdvertisements)
	fmt.Fprintf(tw, "Active coupons\t%d\n", s.ActiveCoupons)
	fmt.Fprintf(tw, "Active plans\t%d\n", s.ActiveSubscriptionPlans)
	fmt.Fprintf(tw, "Franchisees\t%d\n", s.TotalFranchisees)
	fmt.Fprintf(tw, "Pending requests\t%d\n", s.PendingRequests)
	fmt.Fprintf(tw, "Total revenue\t%.2f\n", s.TotalRevenue)
	return tw.Flush()
}

func (a *app) runResources(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: resources ads|coupons|plans|properties list|activate|deactivate|delete [flags]")
	}
	kind, action, rest := args[0], args[1], args[2:]

	switch kind {
	case "ads", "advertisements":
		return runResource(ctx, a, a.ads, action, rest, nil,
			"ID\tTITLE\tPLACEMENT\tBUDGET\tACTIVE",
			func(v models.Advertisement) string {
				return fmt.Sprintf("%d\t%s\t%s\t%.2f\t%t", v.ID, v.Title, v.Placement, v.Budget, v.Active)
			})
	case "coupons":
		return runResource(ctx, a, a.coupons, action, rest, nil,
			"ID\tCODE\tTYPE\tVALUE\tUSED\tACTIVE",
			func(v models.Coupon) string {
				return fmt.Sprintf("%d\t%s\t%s\t%.2f\t%d/%d\t%t", v.ID, v.Code, v.DiscountType, v.DiscountValue, v.UsedCount, v.UsageLimit, v.Active)
			})
	case "plans":
		return runResource(ctx, a, a.plans, action, rest, nil,
			"ID\tNAME\tPRICE\tDAYS\tACTIVE",
			func(v models.SubscriptionPlan) string {
				return fmt.Sprintf("%d\t%s\t%.2f\t%d\t%t", v.ID, v.Name, v.Price, v.DurationDays, v.Active)
			})
	case "properties":
		return runResource(ctx, a, a.properties, action, rest, propertyFlags,
			"ID\tTITLE\tTYPE\tCITY\tPRICE\tACTIVE",
			func(v models.Property) string {
				return fmt.Sprintf("%d\t%s\t%s\t%s\t%.2f\t%t", v.ID, v.Title, v.Type, v.City, v.Price, v.Active)
			})
	default:
		return fmt.Errorf("unknown resource %q", kind)
	}
}

// extraFlags registers resource-specific list filters and returns a function
// that builds the query once flags are parsed.
type extraFlags func(fs *flag.FlagSet) func() (url.Values, error)

func propertyFlags(fs *flag.FlagSet) func() (url.Values, error) {
	var f models.PropertyFilters
	district := fs.Int64("district", 0, "district id")
	minPrice := fs.Float64("min-price", -1, "minimum price")
	maxPrice := fs.Float64("max-price", -1, "maximum price")
	fs.StringVar(&f.Search, "search", "", "free-text search")
	fs.StringVar(&f.Type, "type", "", "property type")

	return func() (url.Values, error) {
		if *district != 0 {
			f.DistrictID = district
		}
		if *minPrice >= 0 {
			f.MinPrice = minPrice
		}
		if *maxPrice >= 0 {
			f.MaxPrice = maxPrice
		}
		return dataaccess.PropertyQuery(f)
	}
}

func runResource[T models.Entity](ctx context.Context, a *app, slice *store.ResourceSlice[T], action string, args []string, extra extraFlags, header string, row func(T) string) error {
	fs := newFlagSet(action)
	req := a.pageFlags(fs)
	id := fs.Int64("id", 0, "record id")
	term := fs.String("filter", "", "client-side filter on the fetched page")
	activeOnly := fs.Bool("active", false, "only show active records")
	var query func() (url.Values, error)
	if extra != nil {
		query = extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch action {
	case "list":
		var params url.Values
		if query != nil {
			var err error
			if params, err = query(); err != nil {
				return err
			}
		}
		if err := slice.Fetch(ctx, *req, params); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, header)
		for _, item := range slice.Filter(*term, *activeOnly) {
			fmt.Fprintln(tw, row(item))
		}
		tw.Flush()
		st := slice.State()
		fmt.Fprintf(a.out, "page %d/%d, %d total\n", st.CurrentPage+1, max(st.TotalPages, 1), st.TotalElements)
		return nil
	case "activate", "deactivate", "delete":
		if *id == 0 {
			return fmt.Errorf("-id is required")
		}
		if err := slice.Fetch(ctx, *req, nil); err != nil {
			return err
		}
		var err error
		switch action {
		case "activate":
			err = slice.Activate(ctx, *id)
		case "deactivate":
			err = slice.Deactivate(ctx, *id)
		default:
			err = slice.Delete(ctx, *id)
		}
		if err != nil {
			a.notify.Error(fmt.Sprintf("Failed to %s record %d", action, *id))
			return err
		}
		a.notify.Success(fmt.Sprintf("Record %d %sd successfully", *id, strings.TrimSuffix(action, "e")))
		return nil
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func (a *app) runChat(ctx context.Context, args []string) error {
	fs := newFlagSet("chat")
	room := fs.String("room", "", "room id")
	role := fs.String("role", a.cfg.Chat.Role, "sender role")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session := a.newChatSession()
	defer session.Close()

	conn, err := session.Open(ctx, *role, *room)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "joined %s as %s; type messages, Ctrl-D to leave\n", *room, *role)

	go func() {
		for ev := range conn.Events() {
			switch ev.Type {
			case models.ChatMessage:
				fmt.Fprintf(a.out, "[%s] %s: %s\n", ev.SentAt.Format("15:04:05"), ev.SenderRole, ev.Content)
			case models.ChatStatus:
				fmt.Fprintf(a.out, "* %s is %s\n", ev.SenderRole, ev.Status)
			}
		}
	}()

	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go scanLines(os.Stdin, lines, done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-conn.Done():
			return conn.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := conn.SendMessage(ctx, line); err != nil {
				return err
			}
		}
	}
}

// scanLines stops sending once done is closed. A read already blocked on r
// still finishes before it exits.
func scanLines(r io.Reader, out chan<- string, done <-chan struct{}) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case out <- scanner.Text():
		case <-done:
			return
		}
	}
}
