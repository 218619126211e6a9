package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	billingapp "github.com/leecohen23/Phone-compamy-software/internal/application/billing"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/billing"
	"github.com/leecohen23/Phone-compamy-software/internal/infrastructure/config"
	"github.com/leecohen23/Phone-compamy-software/internal/infrastructure/dataset"
	"github.com/leecohen23/Phone-compamy-software/internal/infrastructure/logger"
	"github.com/leecohen23/Phone-compamy-software/internal/interfaces/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runOptions struct {
	dataset   string
	cancel    []string
	history   []string
	customers []string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bill a dataset of customers and calls",
		Long: `Load customers, their lines, contract changes and the call log from a JSON
dataset, bill every month from the first call to the last, and print the
statements. A line listed under "recontracts" is cancelled if still active
and moved to its new contract at the given time.

Lines named with --cancel are cancelled at the end of the run. Every
settlement is printed after the statements. --history and --customer print
the full statement history of a line or of every line a customer holds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			tag, err := root.language()
			if err != nil {
				return err
			}
			renderer, err := report.NewRenderer(tag)
			if err != nil {
				return err
			}

			log, err := logger.New(logger.ConfigForEnvironment(cfg.App.Env, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output))
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = log.Sync()
			}()

			return runDataset(cmd.Context(), cmd.OutOrStdout(), cfg, log, renderer, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dataset, "dataset", "d", "", "Path to the JSON dataset")
	cmd.Flags().StringSliceVar(&opts.cancel, "cancel", nil, "Line number to cancel after the last call (repeatable)")
	cmd.Flags().StringSliceVar(&opts.history, "history", nil, "Line number whose statement history is printed (repeatable)")
	cmd.Flags().StringSliceVar(&opts.customers, "customer", nil, "Customer ID whose lines' histories are printed (repeatable)")
	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

func runDataset(ctx context.Context, out io.Writer, cfg *config.Config, log *zap.Logger, renderer *report.Renderer, opts *runOptions) error {
	ctx = logger.WithContext(ctx, log.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env)))
	log = logger.FromContext(ctx)

	data, err := dataset.LoadFile(opts.dataset)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("failed to release resources", zap.Error(err))
		}
	}()

	for _, customer := range data.Customers {
		for _, line := range customer.Lines {
			kind, terms, err := line.Terms()
			if err != nil {
				return fmt.Errorf("line %s: %w", line.Number, err)
			}
			if _, err := a.service.AddLine(ctx, customer.ID, line.Number, kind, terms); err != nil {
				return err
			}
		}
	}
	log.Info("dataset loaded",
		zap.String("path", opts.dataset),
		zap.Int("customers", len(data.Customers)),
		zap.Int("lines", data.LineCount()),
		zap.Int("calls", len(data.Calls)),
		zap.Int("recontracts", len(data.Recontracts)))

	calls, err := data.BillingCalls()
	if err != nil {
		return err
	}
	if len(calls) == 0 && len(data.Recontracts) == 0 {
		_, err := fmt.Fprintln(out, "no calls to bill")
		return err
	}
	sort.SliceStable(calls, func(i, j int) bool { return calls[i].At.Before(calls[j].At) })

	var stats billingapp.RunStats
	for _, change := range data.SortedRecontracts() {
		var before []*billing.Call
		before, calls = splitBefore(calls, change)

		chunk, err := a.service.Run(ctx, before)
		if err != nil {
			return err
		}
		stats = stats.Merge(chunk)

		opened, err := a.service.AdvanceTo(ctx, billing.PeriodOf(change.Time))
		stats.Months += opened
		if err != nil {
			return err
		}
		if err := recontract(ctx, a, log, change); err != nil {
			return err
		}
	}
	chunk, err := a.service.Run(ctx, calls)
	if err != nil {
		return err
	}
	stats = stats.Merge(chunk)

	for _, number := range opts.cancel {
		lineCtx, _ := logger.WithLineNumber(ctx, log, number)
		if _, err := a.service.CancelLine(lineCtx, number); err != nil {
			return err
		}
	}

	if err := a.service.CloseMonth(ctx); err != nil {
		return err
	}

	for _, p := range periodsBetween(stats.FirstPeriod, stats.LastPeriod) {
		periodCtx, _ := logger.WithPeriod(ctx, log, p.String())
		statements, err := a.service.Statements(periodCtx, p)
		if err != nil {
			return err
		}
		if err := renderer.WriteStatements(out, p, statements); err != nil {
			return err
		}
	}
	for _, cancelled := range a.audit.Cancellations() {
		if err := renderer.WriteSettlement(out, cancelled); err != nil {
			return err
		}
	}
	if err := writeHistories(ctx, out, a.service, renderer, opts); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%d calls: %d billed, %d skipped over %d months; %d contract events\n",
		stats.Calls, stats.Billed, stats.Skipped, stats.Months, len(a.audit.Events()))
	return err
}

// splitBefore splits sorted calls into those placed before the change and the rest
func splitBefore(calls []*billing.Call, change dataset.RecontractRecord) ([]*billing.Call, []*billing.Call) {
	i := sort.Search(len(calls), func(i int) bool { return !calls[i].At.Before(change.Time) })
	return calls[:i], calls[i:]
}

// recontract cancels the line if it is still active and moves it to its new contract
func recontract(ctx context.Context, a *app, log *zap.Logger, change dataset.RecontractRecord) error {
	number := change.Line.Number
	ctx, _ = logger.WithLineNumber(ctx, log, number)

	kind, terms, err := change.Line.Terms()
	if err != nil {
		return fmt.Errorf("line %s: %w", number, err)
	}
	line, err := a.service.Line(number)
	if err != nil {
		return err
	}
	if line.Policy.IsActive() {
		if _, err := a.service.CancelLine(ctx, number); err != nil {
			return err
		}
	}
	_, err = a.service.Recontract(ctx, number, kind, terms)
	return err
}

// writeHistories prints the statement history of each requested line, then of
// every line held by each requested customer
func writeHistories(ctx context.Context, out io.Writer, service *billingapp.Service, renderer *report.Renderer, opts *runOptions) error {
	numbers := append([]string(nil), opts.history...)
	for _, id := range opts.customers {
		customer, err := service.Customer(id)
		if err != nil {
			return err
		}
		numbers = append(numbers, customer.Lines...)
	}

	for _, number := range numbers {
		if _, err := service.Line(number); err != nil {
			return err
		}
		statements, err := service.History(ctx, number)
		if err != nil {
			return err
		}
		if err := renderer.WriteHistory(out, number, statements); err != nil {
			return err
		}
	}
	return nil
}

// periodsBetween lists the periods from first through last
func periodsBetween(first, last billing.Period) []billing.Period {
	var periods []billing.Period
	if first.IsZero() {
		return periods
	}
	for p := first; !last.Before(p); p = p.Next() {
		periods = append(periods, p)
	}
	return periods
}
