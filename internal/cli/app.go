package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/persistmap/internal/common"
	"github.com/dmitrijs2005/persistmap/internal/logging"
	"github.com/dmitrijs2005/persistmap/internal/store"
)

// AbsentMarker is printed in place of a value when a queried key does not
// exist. The line is always printed, so scripted callers can count on one
// output line per query.
const AbsentMarker = "<absent>"

// App executes parsed commands against an injected Store and renders results
// to an injected writer. It holds no global state.
type App struct {
	store store.Store
	out   io.Writer
	log   logging.Logger
}

func NewApp(s store.Store, out io.Writer, log logging.Logger) *App {
	return &App{store: s, out: out, log: log}
}

// Dispatch validates the command's argument count and runs it. It returns
// false when the command is malformed (invalid kind or too few arguments);
// the caller is expected to show usage then. A non-nil error is a storage or
// output failure and is fatal to the loop: the core never retries and never
// swallows it.
func (a *App) Dispatch(ctx context.Context, cmd Command) (bool, error) {
	switch cmd.Kind {
	case KindList:
		return true, a.list(ctx)
	case KindPut:
		if len(cmd.Args) < 3 {
			return false, nil
		}
		return true, a.put(ctx, cmd.Args[1], cmd.Args[2])
	case KindQuery:
		if len(cmd.Args) < 2 {
			return false, nil
		}
		return true, a.query(ctx, cmd.Args[1])
	case KindDelete:
		if len(cmd.Args) < 2 {
			return false, nil
		}
		return true, a.delete(ctx, cmd.Args[1])
	default:
		return false, nil
	}
}

func (a *App) list(ctx context.Context) error {
	n, err := a.store.Size(ctx)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	keys, err := a.store.Keys(ctx)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	fmt.Fprintf(a.out, "DB contains %d entries:\n", n)
	for _, key := range keys {
		value, err := a.store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("list %q: %w", key, err)
		}
		fmt.Fprintf(a.out, "\t%s = %s\n", key, value)
	}
	return nil
}

func (a *App) query(ctx context.Context, key string) error {
	value, err := a.store.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		fmt.Fprintln(a.out, AbsentMarker)
		return nil
	}
	if err != nil {
		return fmt.Errorf("query %q: %w", key, err)
	}
	fmt.Fprintln(a.out, value)
	return nil
}

// put and delete print nothing on success; the structured log records the
// mutation instead.
func (a *App) put(ctx context.Context, key, value string) error {
	if err := a.store.Put(ctx, key, value); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	a.log.Debug(ctx, "entry stored", "key", key)
	return nil
}

func (a *App) delete(ctx context.Context, key string) error {
	if err := a.store.Remove(ctx, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	a.log.Debug(ctx, "entry deleted", "key", key)
	return nil
}

// Usage prints the fixed help block shown for any rejected input.
func (a *App) Usage() {
	fmt.Fprintln(a.out, "Supported commands:")
	fmt.Fprintln(a.out, "\tl[ist] - list entries")
	fmt.Fprintln(a.out, "\tp[ut] <key> <value> - add/update entry")
	fmt.Fprintln(a.out, "\tq[uery] <key> - query key")
	fmt.Fprintln(a.out, "\td[elete] <key> - delete entry")
}
