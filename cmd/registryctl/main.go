package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	apperrors "registry-client/internal/errors"

	"github.com/docopt/docopt-go"
	"github.com/sirupsen/logrus"
)

const RegistryCtlVersion = "0.1.0"

const usage = `Registry control.

Lists, inspects and edits the organization registry through its Gateway.
Configuration is read from the environment, an optional .env file and an
optional config.yaml (see --config).

Usage:
    registryctl list <collection> [--search=<text>] [--field=<field>] [--sort=<field>] [--desc]
        [--page=<n>] [--watch] [--output=<format>] [--config=<path>]
    registryctl get organization <id> [--watch] [--output=<format>] [--config=<path>]
    registryctl delete <collection> <id> [--cascade] [--yes] [--config=<path>]
    registryctl submit --file=<form> [--id=<id>] [--output=<format>] [--config=<path>]
    registryctl references <kind> [--output=<format>] [--config=<path>]
    registryctl types [--output=<format>] [--config=<path>]
    registryctl ops minimal [--output=<format>] [--config=<path>]
    registryctl ops rating [--output=<format>] [--config=<path>]
    registryctl ops count <type> [--output=<format>] [--config=<path>]
    registryctl ops dismiss <org-id>... [--output=<format>] [--config=<path>]
    registryctl ops absorb <absorbing-id> <absorbed-id> [--output=<format>] [--config=<path>]
    registryctl imports [--watch] [--output=<format>] [--config=<path>]
    registryctl -h | --help
    registryctl --version

Collections:
    organizations, coordinates, addresses, locations, imports

Options:
    -h --help          Show this screen.
    --version          Show version.
    --search=<text>    Search text.
    --field=<field>    Field the search applies to.
    --sort=<field>     Sort field, ascending unless --desc is given.
    --desc             Sort descending.
    --page=<n>         Zero-based page index [default: 0].
    --watch            Keep the view open and print every change.
    --cascade          Delete dependent entities without asking.
    --yes              Confirm cascading deletion when the Gateway asks for it.
    --file=<form>      YAML organization form.
    --id=<id>          Organization to update instead of creating a new one.
    --output=<format>  Output format, yaml or json [default: yaml].
    --config=<path>    Config file to read instead of ./config.yaml.`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], RegistryCtlVersion)
	if err != nil {
		logrus.Fatal("Failed to parse arguments: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		stop()
		report(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts docopt.Opts) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	ctx = a.context(ctx)

	if list, _ := opts.Bool("list"); list {
		return a.list(ctx, opts)
	} else if get, _ := opts.Bool("get"); get {
		return a.getOrganization(ctx, opts)
	} else if del, _ := opts.Bool("delete"); del {
		return a.delete(ctx, opts)
	} else if submit, _ := opts.Bool("submit"); submit {
		return a.submit(ctx, opts)
	} else if refs, _ := opts.Bool("references"); refs {
		return a.references(ctx, opts)
	} else if types, _ := opts.Bool("types"); types {
		return a.types(ctx)
	} else if ops, _ := opts.Bool("ops"); ops {
		return a.operations(ctx, opts)
	} else if imports, _ := opts.Bool("imports"); imports {
		return a.imports(ctx, opts)
	}
	return fmt.Errorf("no command given")
}

// report prints err in the most useful shape for its kind
func report(err error) {
	var validationErr *apperrors.ValidationError
	var deletedErr *apperrors.DeletedWhileViewingError
	switch {
	case errors.As(err, &validationErr):
		fmt.Fprintf(os.Stderr, "invalid %s: %s\n", validationErr.Path, validationErr.Message)
	case errors.As(err, &deletedErr):
		fmt.Fprintln(os.Stderr, deletedErr.Error())
	case errors.Is(err, apperrors.ErrCascadeDeclined):
		fmt.Fprintln(os.Stderr, "deletion cancelled")
	case apperrors.IsAuthentication(err):
		fmt.Fprintf(os.Stderr, "authentication failed: %v\n", err)
	case apperrors.IsTransient(err):
		fmt.Fprintf(os.Stderr, "gateway unavailable, try again: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
}
