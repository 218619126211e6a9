package billing

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/billing"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/contract"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PolicyBuilder builds contract policies by kind
type PolicyBuilder interface {
	Build(kind contract.Kind, terms contract.Terms) (contract.Policy, error)
}

// Line is a phone line together with the contract it is billed under
type Line struct {
	Phone  *billing.PhoneLine
	Kind   contract.Kind
	Policy contract.Policy
	// opened is the last period the current policy started
	opened billing.Period
}

// ServiceConfig contains configuration for Service
type ServiceConfig struct {
	// DedupeTTL is how long a billed call key is remembered
	DedupeTTL time.Duration
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{DedupeTTL: 24 * time.Hour}
}

// RunStats summarizes a Run. FirstPeriod and LastPeriod bound the months
// the run billed, including a month that was already open when it started.
type RunStats struct {
	Calls       int
	Billed      int
	Skipped     int
	Months      int
	FirstPeriod billing.Period
	LastPeriod  billing.Period
}

// Merge combines the stats of a run with those of the run that followed it
func (r RunStats) Merge(next RunStats) RunStats {
	merged := RunStats{
		Calls:       r.Calls + next.Calls,
		Billed:      r.Billed + next.Billed,
		Skipped:     r.Skipped + next.Skipped,
		Months:      r.Months + next.Months,
		FirstPeriod: r.FirstPeriod,
		LastPeriod:  next.LastPeriod,
	}
	if merged.FirstPeriod.IsZero() {
		merged.FirstPeriod = next.FirstPeriod
	}
	if merged.LastPeriod.IsZero() {
		merged.LastPeriod = r.LastPeriod
	}
	return merged
}

// Service drives the monthly billing cycle: it opens months on every active
// line, routes calls to the caller's contract, closes bills into statements,
// and settles cancelled lines.
//
// Dedupe keys are scoped to the service instance, so a store shared between
// processes (redis) never suppresses the calls of a later run.
type Service struct {
	policies   PolicyBuilder
	statements billing.StatementRepository
	publisher  shared.EventPublisher
	dedupe     shared.IdempotencyStore
	logger     *zap.Logger
	dedupeTTL  time.Duration
	runID      string
	now        func() time.Time

	mu        sync.Mutex
	lines     map[string]*Line
	customers map[string]*billing.Customer
	period    billing.Period
}

// NewService creates a billing service. publisher and dedupe may be nil.
func NewService(
	policies PolicyBuilder,
	statements billing.StatementRepository,
	publisher shared.EventPublisher,
	dedupe shared.IdempotencyStore,
	logger *zap.Logger,
	config ServiceConfig,
) *Service {
	if config.DedupeTTL <= 0 {
		config.DedupeTTL = DefaultServiceConfig().DedupeTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		policies:   policies,
		statements: statements,
		publisher:  publisher,
		dedupe:     dedupe,
		logger:     logger,
		dedupeTTL:  config.DedupeTTL,
		runID:      uuid.NewString(),
		now:        time.Now,
		lines:      make(map[string]*Line),
		customers:  make(map[string]*billing.Customer),
	}
}

// AddLine registers a new line for a customer under a new contract.
// If a month is already open the line is billed for it immediately.
func (s *Service) AddLine(ctx context.Context, customerID, number string, kind contract.Kind, terms contract.Terms) (*Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lines[number]; exists {
		return nil, fmt.Errorf("%w: line %s", shared.ErrAlreadyExists, number)
	}

	phone, err := billing.NewPhoneLine(customerID, number)
	if err != nil {
		return nil, err
	}
	policy, err := s.policies.Build(kind, terms)
	if err != nil {
		return nil, fmt.Errorf("line %s: %w", number, err)
	}

	line := &Line{Phone: phone, Kind: kind, Policy: policy}
	s.lines[number] = line

	customer, ok := s.customers[customerID]
	if !ok {
		customer = &billing.Customer{ID: customerID}
		s.customers[customerID] = customer
	}
	customer.Lines = append(customer.Lines, number)

	s.logger.Debug("line added",
		zap.String("customer_id", customerID),
		zap.String("line_number", number),
		zap.String("contract", kind.String()))

	if !s.period.IsZero() {
		if err := s.openLine(ctx, line, s.period); err != nil {
			return nil, err
		}
	}
	return line, nil
}

// Recontract puts a cancelled line under a new contract. The line keeps its
// bills; the new contract is billed from the next month opened.
func (s *Service) Recontract(ctx context.Context, number string, kind contract.Kind, terms contract.Terms) (*Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[number]
	if !ok {
		return nil, fmt.Errorf("%w: line %s", shared.ErrNotFound, number)
	}
	if line.Policy.IsActive() {
		return nil, fmt.Errorf("%w: line %s must be cancelled before it is recontracted", shared.ErrInvalidState, number)
	}
	policy, err := s.policies.Build(kind, terms)
	if err != nil {
		return nil, fmt.Errorf("line %s: %w", number, err)
	}

	line.Kind = kind
	line.Policy = policy
	line.opened = billing.Period{}
	s.logger.Info("line recontracted",
		zap.String("line_number", number),
		zap.String("contract", kind.String()))
	return line, nil
}

// Line returns the line with the given number
func (s *Service) Line(number string) (*Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[number]
	if !ok {
		return nil, fmt.Errorf("%w: line %s", shared.ErrNotFound, number)
	}
	return line, nil
}

// Lines returns every line ordered by number
func (s *Service) Lines() []*Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLines()
}

// Customer returns a customer and the numbers they hold
func (s *Service) Customer(id string) (*billing.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: customer %s", shared.ErrNotFound, id)
	}
	return &billing.Customer{ID: c.ID, Lines: append([]string(nil), c.Lines...)}, nil
}

// Period returns the open billing period, or the zero period
func (s *Service) Period() billing.Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period
}

// OpenMonth closes the current month into statements and starts period on
// every active line. Periods must advance.
func (s *Service) OpenMonth(ctx context.Context, period billing.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.period.IsZero() && !s.period.Before(period) {
		return fmt.Errorf("%w: cannot open %s after %s", shared.ErrInvalidState, period, s.period)
	}
	if err := s.closeMonth(ctx); err != nil {
		return err
	}

	s.period = period
	for _, line := range s.sortedLines() {
		if !line.Policy.IsActive() {
			continue
		}
		if err := s.openLine(ctx, line, period); err != nil {
			return err
		}
	}

	s.logger.Info("month opened", zap.String("period", period.String()))
	return nil
}

// CloseMonth saves a statement for every active line's current bill
// without advancing the period. Closing twice overwrites the same statements.
func (s *Service) CloseMonth(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeMonth(ctx)
}

// RecordCall bills call to the caller's line. Calls that cannot be billed
// (unknown number, cancelled or not yet started contract, duplicate) are
// skipped and reported as not billed.
func (s *Service) RecordCall(ctx context.Context, call *billing.Call) (bool, error) {
	if call == nil {
		return false, shared.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.period.IsZero() || !s.period.Contains(call.At) {
		return false, fmt.Errorf("%w: call at %s is outside the open period %s",
			shared.ErrInvalidState, call.At.Format(time.RFC3339), s.period)
	}

	line, ok := s.lines[call.Source]
	if !ok {
		s.logger.Warn("call from unknown line ignored",
			zap.String("source", call.Source),
			zap.Time("at", call.At))
		return false, nil
	}
	if !line.Policy.IsActive() {
		s.logger.Warn("call from cancelled line ignored",
			zap.String("line_number", call.Source),
			zap.Time("at", call.At))
		return false, nil
	}

	if line.opened != s.period {
		s.logger.Warn("call before contract start ignored",
			zap.String("line_number", call.Source),
			zap.Time("at", call.At))
		return false, nil
	}

	if s.dedupe != nil {
		key := s.dedupeKey(call)
		isNew, err := s.dedupe.MarkProcessed(ctx, key, s.dedupeTTL)
		if err != nil {
			return false, fmt.Errorf("dedupe call %s: %w", call.Key(), err)
		}
		if !isNew {
			s.logger.Debug("duplicate call skipped", zap.String("key", key))
			return false, nil
		}
	}

	if err := line.Policy.BillCall(call); err != nil {
		return false, fmt.Errorf("line %s: %w", call.Source, err)
	}
	return true, nil
}

// CancelLine terminates a line's contract and returns the settlement amount.
// A negative amount is owed to the customer.
func (s *Service) CancelLine(ctx context.Context, number string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[number]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: line %s", shared.ErrNotFound, number)
	}

	bill := line.Phone.CurrentBill()
	settlement, err := line.Policy.Cancel()
	if err != nil {
		return decimal.Zero, fmt.Errorf("line %s: %w", number, err)
	}

	if bill != nil {
		statement := s.statementFor(line, bill, billing.StatementSettlement, settlement)
		if err := s.statements.Save(ctx, statement); err != nil {
			return decimal.Zero, err
		}
	}

	period := s.period.String()
	s.logger.Info("contract cancelled",
		zap.String("line_number", number),
		zap.String("period", period),
		zap.String("contract", line.Kind.String()),
		zap.String("settlement", settlement.StringFixed(2)))

	s.publish(ctx, contract.NewContractCancelledEvent(number, period, line.Kind, valueobject.NewMoney(settlement)))
	return settlement, nil
}

// AdvanceTo opens every month after the open period up to and including
// period. With no month open it opens period itself. It returns the number
// of months opened; a period already open or behind is not an error.
func (s *Service) AdvanceTo(ctx context.Context, period billing.Period) (int, error) {
	opened := 0
	if s.Period().IsZero() {
		if err := s.OpenMonth(ctx, period); err != nil {
			return opened, err
		}
		opened++
	}
	for current := s.Period(); current.Before(period); current = s.Period() {
		if err := s.OpenMonth(ctx, current.Next()); err != nil {
			return opened, err
		}
		opened++
	}
	return opened, nil
}

// Run bills calls in chronological order, opening every month from the first
// call's month through the last call's month, including months without calls.
// If no month is open yet the first call's month is opened.
func (s *Service) Run(ctx context.Context, calls []*billing.Call) (RunStats, error) {
	sorted := make([]*billing.Call, 0, len(calls))
	for _, c := range calls {
		if c != nil {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	stats := RunStats{Calls: len(sorted), FirstPeriod: s.Period()}
	for _, call := range sorted {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		opened, err := s.AdvanceTo(ctx, call.Period())
		stats.Months += opened
		if err != nil {
			return stats, err
		}
		if stats.FirstPeriod.IsZero() {
			stats.FirstPeriod = s.Period()
		}

		billed, err := s.RecordCall(ctx, call)
		if err != nil {
			return stats, err
		}
		if billed {
			stats.Billed++
		} else {
			stats.Skipped++
		}
	}

	stats.LastPeriod = s.Period()
	s.logger.Info("run complete",
		zap.Int("calls", stats.Calls),
		zap.Int("billed", stats.Billed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("months", stats.Months))
	return stats, nil
}

// Statements returns the statements closed for a period
func (s *Service) Statements(ctx context.Context, period billing.Period) ([]*billing.Statement, error) {
	return s.statements.FindByPeriod(ctx, period)
}

// History returns every statement of a line
func (s *Service) History(ctx context.Context, number string) ([]*billing.Statement, error) {
	return s.statements.FindByLine(ctx, number)
}

// openLine issues the line a bill for period and starts it on the contract.
// Lines whose contract starts after period are left closed.
func (s *Service) openLine(ctx context.Context, line *Line, period billing.Period) error {
	if period.Before(billing.PeriodOf(line.Policy.Start())) {
		s.logger.Debug("contract not started",
			zap.String("line_number", line.Phone.Number),
			zap.String("period", period.String()))
		return nil
	}

	bill := line.Phone.OpenBill(period)
	if err := line.Policy.NewMonth(period, bill); err != nil {
		return fmt.Errorf("line %s: %w", line.Phone.Number, err)
	}
	line.opened = period

	s.publish(ctx, contract.NewMonthOpenedEvent(
		line.Phone.Number, period.String(), line.Kind, valueobject.NewMoney(bill.FixedCost())))
	return nil
}

func (s *Service) closeMonth(ctx context.Context) error {
	if s.period.IsZero() {
		return nil
	}
	for _, line := range s.sortedLines() {
		if !line.Policy.IsActive() || line.opened != s.period {
			continue
		}
		bill := line.Phone.Bill(s.period)
		statement := s.statementFor(line, bill, billing.StatementMonthly, bill.Cost())
		if err := s.statements.Save(ctx, statement); err != nil {
			return err
		}
	}
	s.logger.Debug("month closed", zap.String("period", s.period.String()))
	return nil
}

func (s *Service) dedupeKey(call *billing.Call) string {
	return s.runID + "|" + call.Key()
}

func (s *Service) statementFor(line *Line, bill *billing.Bill, kind billing.StatementKind, due decimal.Decimal) *billing.Statement {
	return &billing.Statement{
		ID:         line.Phone.StatementID(bill.Period()),
		LineNumber: line.Phone.Number,
		Period:     bill.Period(),
		Contract:   line.Kind.String(),
		Kind:       kind,
		Summary:    bill.Summary(),
		AmountDue:  valueobject.NewMoney(due),
		ClosedAt:   s.now(),
	}
}

func (s *Service) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish events", zap.Error(err))
	}
}

// sortedLines returns lines ordered by number. Callers hold s.mu.
func (s *Service) sortedLines() []*Line {
	lines := make([]*Line, 0, len(s.lines))
	for _, l := range s.lines {
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Phone.Number < lines[j].Phone.Number })
	return lines
}
