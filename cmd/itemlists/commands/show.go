package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/karupanerura/item-service/dispatch"
	"github.com/karupanerura/item-service/internal/lists"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
)

func (a *app) newQueue() *dispatch.Queue {
	return dispatch.NewQueue(
		dispatch.WithPanicHandler(func(err error) {
			a.log.Error("completion panicked", "err", err)
		}),
		dispatch.WithDropHandler(func(err error) {
			a.log.Warn("completion dropped", "err", err)
		}),
	)
}

// load loads a single list and returns its result as delivered on the queue.
func (a *app) load(ctx context.Context, name string) (dispatch.Result, error) {
	svc, err := a.lists.Get(name)
	if err != nil {
		return dispatch.Result{}, err
	}

	q := a.newQueue()
	var result dispatch.Result
	dispatch.LoadAsync(ctx, svc, q, func(_ context.Context, r dispatch.Result) {
		result = r
		q.Close()
	})
	if err := q.Run(ctx); err != nil {
		return dispatch.Result{}, err
	}
	a.log.Debug("list loaded", "list", name, "items", len(result.Items), "err", result.Err)
	return result, nil
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "show <list>",
		Short:     "Load a list and print it",
		Args:      cobra.ExactArgs(1),
		ValidArgs: lists.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return lists.Render(a.out, lists.Title(args[0]), result)
		},
	}
}

func allCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Load every list at once and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			names := lists.Names()
			results := make(map[string]dispatch.Result, len(names))

			q := a.newQueue()
			var wg conc.WaitGroup
			for _, name := range names {
				svc, err := a.lists.Get(name)
				if err != nil {
					return err
				}
				wg.Go(func() {
					dispatch.Load(ctx, svc, q, func(_ context.Context, r dispatch.Result) {
						results[name] = r
					})
				})
			}
			go func() {
				defer q.Close()
				if r := wg.WaitAndRecover(); r != nil {
					a.log.Error("load panicked", "err", r.AsError())
				}
			}()
			if err := q.Run(ctx); err != nil {
				return err
			}

			for i, name := range names {
				if i > 0 {
					fmt.Fprintln(a.out)
				}
				result, ok := results[name]
				if !ok {
					result.Err = fmt.Errorf("%s was not delivered", name)
				}
				if err := lists.Render(a.out, lists.Title(name), result); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func selectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "select <list> <index>",
		Short:     "Load a list and select one of its items",
		Long:      "Load a list and select one of its items. The index starts at 1 as printed by show.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: lists.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}
			result, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if result.Err != nil {
				return fmt.Errorf("failed to load %s: %w", args[0], result.Err)
			}
			if index < 1 || index > len(result.Items) {
				return fmt.Errorf("index %d is out of range: %s has %d items", index, args[0], len(result.Items))
			}
			result.Items[index-1].Select()
			return nil
		},
	}
}
