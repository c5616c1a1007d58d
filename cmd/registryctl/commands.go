package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	apperrors "registry-client/internal/errors"
	"registry-client/internal/form"
	"registry-client/internal/gateway"
	"registry-client/internal/guard"
	"registry-client/internal/listsync"
	"registry-client/internal/models"
	"registry-client/internal/query"
	"registry-client/internal/reference"
	"registry-client/internal/service"

	"github.com/docopt/docopt-go"
	"gopkg.in/yaml.v3"
)

const organizationsRoute = "/organizations"

func (a *app) list(ctx context.Context, opts docopt.Opts) error {
	name, _ := opts.String("<collection>")
	collection, ok := models.ParseCollection(name)
	if !ok {
		return fmt.Errorf("unknown collection %q", name)
	}

	switch collection {
	case models.CollectionOrganizations:
		return runList(ctx, a, opts, a.client.Organizations(), listsync.FixedInterval[models.Organization](a.cfg.PollInterval()))
	case models.CollectionCoordinates:
		return runList(ctx, a, opts, a.client.Coordinates(), listsync.FixedInterval[models.Coordinates](a.cfg.PollInterval()))
	case models.CollectionAddresses:
		return runList(ctx, a, opts, a.client.Addresses(), listsync.FixedInterval[models.Address](a.cfg.PollInterval()))
	case models.CollectionLocations:
		return runList(ctx, a, opts, a.client.Locations(), listsync.FixedInterval[models.Location](a.cfg.PollInterval()))
	default:
		initial, maxInterval := a.cfg.HistoryPollBounds()
		policy := listsync.WhileActive(service.InProgress, listsync.HistoryBackOff(initial, maxInterval))
		return runList(ctx, a, opts, a.client.Imports(), policy)
	}
}

// runList prints one page of a collection, or every change of it with --watch
func runList[T any](ctx context.Context, a *app, opts docopt.Opts, source gateway.ListerInterface[T], policy listsync.PollPolicy[T]) error {
	view, _ := query.ViewFor(source.Collection())
	store := query.NewStore(view.WithPageSize(a.cfg.PageSize))
	if err := applyQuery(store, opts); err != nil {
		return err
	}

	watch, _ := opts.Bool("--watch")
	if watch {
		if err := a.startPush(ctx); err != nil {
			return err
		}
	}

	engine := listsync.New(source, store, a.hub, listsync.WithPollPolicy(policy))
	if err := engine.Start(ctx); err != nil {
		return err
	}
	defer engine.Close()

	if !watch {
		snap, err := engine.WaitFor(ctx, settled[T])
		if err != nil {
			return err
		}
		if snap.Status == listsync.StatusError {
			return snap.Err
		}
		return a.printer.print(pageOutput(source.Collection(), snap))
	}

	var last listsync.Snapshot[T]
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-engine.Updates():
			if !settled(snap) || (snap.UpdatedAt.Equal(last.UpdatedAt) && snap.Status == last.Status) {
				continue
			}
			last = snap
			if err := a.printer.print(pageOutput(source.Collection(), snap)); err != nil {
				return err
			}
		}
	}
}

func applyQuery(store *query.Store, opts docopt.Opts) error {
	if search, _ := opts.String("--search"); search != "" {
		field, _ := opts.String("--field")
		if err := store.SetSearch(search, field); err != nil {
			return err
		}
	}

	if sort, _ := opts.String("--sort"); sort != "" && sort != store.Key().Sort {
		if err := store.SetSort(sort); err != nil {
			return err
		}
	}
	if desc, _ := opts.Bool("--desc"); desc {
		// sorting by the current field again flips it to descending
		if err := store.SetSort(store.Key().Sort); err != nil {
			return err
		}
	}

	page, err := opts.Int("--page")
	if err != nil {
		return fmt.Errorf("invalid --page: %w", err)
	}
	return store.SetPage(page)
}

func settled[T any](s listsync.Snapshot[T]) bool {
	return s.Status == listsync.StatusSuccess || s.Status == listsync.StatusError
}

func pageOutput[T any](collection models.Collection, s listsync.Snapshot[T]) listOutput[T] {
	out := listOutput[T]{
		Collection:    string(collection),
		Query:         s.Key.String(),
		Page:          s.Key.Page,
		TotalPages:    s.TotalPages,
		TotalElements: s.TotalElements,
		Stale:         s.Previous,
		Items:         s.Items,
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	return out
}

func (a *app) delete(ctx context.Context, opts docopt.Opts) error {
	name, _ := opts.String("<collection>")
	collection, ok := models.ParseCollection(name)
	if !ok {
		return fmt.Errorf("unknown collection %q", name)
	}
	id, err := parseID(opts, "<id>")
	if err != nil {
		return err
	}

	cascade, _ := opts.Bool("--cascade")
	yes, _ := opts.Bool("--yes")
	remove := listsync.RemoveOptions{
		Cascade: cascade,
		Confirm: func(_ context.Context, conflict *apperrors.ConflictRequiresCascadeError) (bool, error) {
			if yes {
				return true, nil
			}
			return a.confirm(fmt.Sprintf("%s. Delete everything that uses it?", conflict.Error()))
		},
	}

	switch collection {
	case models.CollectionOrganizations:
		err = removeFrom(ctx, a, a.client.Organizations(), id, remove)
	case models.CollectionCoordinates:
		err = removeFrom(ctx, a, a.client.Coordinates(), id, remove)
	case models.CollectionAddresses:
		err = removeFrom(ctx, a, a.client.Addresses(), id, remove)
	case models.CollectionLocations:
		err = removeFrom(ctx, a, a.client.Locations(), id, remove)
	default:
		return fmt.Errorf("%s cannot be deleted", collection)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.errOut, "%s %d deleted\n", collection.Entity(), id)
	return nil
}

func removeFrom[T any](ctx context.Context, a *app, source gateway.ResourceInterface[T], id int64, opts listsync.RemoveOptions) error {
	view, _ := query.ViewFor(source.Collection())
	engine := listsync.New[T](source, query.NewStore(view), a.hub)
	return engine.Remove(ctx, id, opts)
}

func (a *app) getOrganization(ctx context.Context, opts docopt.Opts) error {
	id, err := parseID(opts, "<id>")
	if err != nil {
		return err
	}
	orgs := service.NewOrganizationService(a.client, nil, a.hub)
	g := a.organizationGuard(orgs, id)

	if state := g.Observe(ctx); state != guard.StateReady {
		return g.Err()
	}
	if err := a.printer.print(g.Value()); err != nil {
		return err
	}
	if watch, _ := opts.Bool("--watch"); !watch {
		return nil
	}

	if err := a.startPush(ctx); err != nil {
		return err
	}
	signal, cancel := guard.Signal(a.hub, models.CollectionOrganizations)
	defer cancel()

	if err := g.Run(ctx, a.cfg.PollInterval(), signal); err != nil {
		if g.State() != guard.StateNotFoundAfterSeen {
			return err
		}
		// the view was redirected to the list
		a.notice(organizationsRoute)
		return runList(ctx, a, docopt.Opts{"--page": "0"}, a.client.Organizations(),
			listsync.FixedInterval[models.Organization](a.cfg.PollInterval()))
	}
	return nil
}

// organizationGuard tracks organization id and logs its state transitions
func (a *app) organizationGuard(orgs *service.OrganizationService, id int64) *guard.Guard[models.Organization] {
	return guard.New(func(ctx context.Context) (*models.Organization, error) {
		return orgs.Get(ctx, id)
	}, guard.Options{
		Entity:     models.CollectionOrganizations.Entity(),
		ID:         id,
		ListRoute:  organizationsRoute,
		Redirector: a.board,
		OnChange: func(from, to guard.State) {
			a.log.WithFields(map[string]interface{}{
				"id":   id,
				"from": from.String(),
				"to":   to.String(),
			}).Debug("organization view changed")
		},
	})
}

func (a *app) submit(ctx context.Context, opts docopt.Opts) error {
	path, _ := opts.String("--file")
	f, err := readForm(path)
	if err != nil {
		return err
	}

	table := reference.New(a.client, a.hub)
	if err := table.Load(ctx); err != nil {
		// the Gateway checks references again, a stale table only loses early feedback
		a.log.WithError(err).Warn("failed to load reference tables")
	}
	compiler := a.compiler(table)

	if errs := compiler.Validate(f); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(a.errOut, "invalid %s: %s\n", e.Path, e.Message)
		}
		return fmt.Errorf("form has %d invalid fields", len(errs))
	}

	orgs := service.NewOrganizationService(a.client, compiler, a.hub)

	var id *int64
	if raw, _ := opts.String("--id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("invalid --id %q", raw)
		}
		id = &parsed
	}

	if id == nil {
		org, err := orgs.Submit(ctx, f, nil)
		if err != nil {
			return err
		}
		return a.printer.print(org)
	}

	g := a.organizationGuard(orgs, *id)
	if state := g.Observe(ctx); state != guard.StateReady {
		return g.Err()
	}
	org, err := orgs.Submit(ctx, f, id)
	if err = g.ClassifySubmitError(err); err != nil {
		return err
	}
	return a.printer.print(org)
}

func readForm(path string) (form.Organization, error) {
	var f form.Organization
	file, err := os.Open(path)
	if err != nil {
		return f, fmt.Errorf("failed to open form: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&f); err != nil {
		return f, fmt.Errorf("failed to parse form %s: %w", path, err)
	}
	return f, nil
}

func (a *app) references(ctx context.Context, opts docopt.Opts) error {
	name, _ := opts.String("<kind>")
	kind, ok := models.ParseCollection(name)
	if !ok {
		return fmt.Errorf("unknown reference kind %q", name)
	}
	options, err := reference.New(a.client, a.hub).ListAll(ctx, kind)
	if err != nil {
		return err
	}
	return a.printer.print(options)
}

func (a *app) types(ctx context.Context) error {
	types, err := a.client.OrganizationTypes(ctx)
	if err != nil {
		return err
	}
	out := make([]map[string]string, 0, len(types))
	for _, t := range types {
		out = append(out, map[string]string{"value": string(t), "label": t.Label()})
	}
	return a.printer.print(out)
}

var errSomeOperationsFailed = errors.New("some operations failed")

func (a *app) operations(ctx context.Context, opts docopt.Opts) error {
	ops := service.NewOperationsService(a.client.Operations(), a.hub)

	if minimal, _ := opts.Bool("minimal"); minimal {
		org, err := ops.MinimalCoordinates(ctx)
		if err != nil {
			return err
		}
		return a.printer.print(org)
	} else if rating, _ := opts.Bool("rating"); rating {
		groups, err := ops.GroupByRating(ctx)
		if err != nil {
			return err
		}
		return a.printer.print(groups)
	} else if count, _ := opts.Bool("count"); count {
		t, _ := opts.String("<type>")
		result, err := ops.CountByType(ctx, models.OrganizationType(t))
		if err != nil {
			return err
		}
		return a.printer.print(result)
	}

	var report *service.Report
	if dismiss, _ := opts.Bool("dismiss"); dismiss {
		raw, _ := opts["<org-id>"].([]string)
		ids := make([]int64, 0, len(raw))
		for _, r := range raw {
			id, err := strconv.ParseInt(r, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid organization id %q", r)
			}
			ids = append(ids, id)
		}
		report = ops.DismissEmployees(ctx, ids...)
	} else {
		absorbing, err := parseID(opts, "<absorbing-id>")
		if err != nil {
			return err
		}
		absorbed, err := parseID(opts, "<absorbed-id>")
		if err != nil {
			return err
		}
		report = ops.Absorb(ctx, service.AbsorbPair{AbsorbingID: absorbing, AbsorbedID: absorbed})
	}

	if err := a.printer.print(report); err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%w: %d of %d", errSomeOperationsFailed, len(report.Failures), len(report.Failures)+len(report.Successes))
	}
	return nil
}

func (a *app) imports(ctx context.Context, opts docopt.Opts) error {
	initial, maxInterval := a.cfg.HistoryPollBounds()
	history := service.NewImportHistory(a.client, a.hub, initial, maxInterval)

	watch, _ := opts.Bool("--watch")
	if watch {
		if err := a.startPush(ctx); err != nil {
			return err
		}
	}
	if err := history.Start(ctx); err != nil {
		return err
	}
	defer history.Close()

	snap, err := history.WaitFor(ctx, settled[models.ImportOperation])
	if err != nil {
		return err
	}
	if snap.Status == listsync.StatusError {
		return snap.Err
	}
	if err := a.printer.print(pageOutput(models.CollectionImports, snap)); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	// follow the history until every import has finished
	for service.Pending(snap) > 0 {
		next, err := history.WaitFor(ctx, func(s listsync.Snapshot[models.ImportOperation]) bool {
			return settled(s) && s.UpdatedAt.After(snap.UpdatedAt)
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		snap = next
		if err := a.printer.print(pageOutput(models.CollectionImports, snap)); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.errOut, "all imports finished")
	return nil
}

func parseID(opts docopt.Opts, key string) (int64, error) {
	raw, _ := opts.String(key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return id, nil
}
