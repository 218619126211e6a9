// Package dataset reads the JSON documents that describe customers, their
// lines, contract changes, and the call log to bill.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/billing"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/contract"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DateLayout is the layout of contract start and end dates
const DateLayout = "2006-01-02"

// Dataset is a customer list plus the calls to bill
type Dataset struct {
	Customers   []CustomerRecord   `json:"customers" validate:"required,min=1,dive"`
	Calls       []CallRecord       `json:"calls" validate:"dive"`
	Recontracts []RecontractRecord `json:"recontracts,omitempty" validate:"dive"`
}

// CustomerRecord is one customer and the lines they hold
type CustomerRecord struct {
	ID    string       `json:"id" validate:"required"`
	Lines []LineRecord `json:"lines" validate:"required,min=1,dive"`
}

// LineRecord is one phone line and its contract
type LineRecord struct {
	Number   string          `json:"number" validate:"required"`
	Contract string          `json:"contract" validate:"required"`
	Start    string          `json:"start" validate:"required,datetime=2006-01-02"`
	End      string          `json:"end" validate:"omitempty,datetime=2006-01-02"`
	TopUp    decimal.Decimal `json:"top_up"`
}

// CallRecord is one entry of the call log. Duration is in seconds.
type CallRecord struct {
	Source   string    `json:"src" validate:"required"`
	Target   string    `json:"dst" validate:"required"`
	Time     time.Time `json:"time" validate:"required"`
	Duration int       `json:"duration" validate:"gte=0"`
}

// RecontractRecord moves an existing line to a new contract at Time. A line
// still active at that time is cancelled first.
type RecontractRecord struct {
	Time time.Time  `json:"time" validate:"required"`
	Line LineRecord `json:"line"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadFile reads and validates a dataset file
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a dataset
func Load(r io.Reader) (*Dataset, error) {
	var d Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: decode dataset: %v", shared.ErrInvalidInput, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks field constraints and that no number is held twice
func (d *Dataset) Validate() error {
	if err := validate.Struct(d); err != nil {
		return formatValidationErrors(err)
	}

	seen := make(map[string]string)
	for _, c := range d.Customers {
		for _, l := range c.Lines {
			if owner, dup := seen[l.Number]; dup {
				return fmt.Errorf("%w: line %s is held by both %s and %s", shared.ErrInvalidInput, l.Number, owner, c.ID)
			}
			seen[l.Number] = c.ID
			if _, _, err := l.Terms(); err != nil {
				return fmt.Errorf("line %s: %w", l.Number, err)
			}
		}
	}

	for i, r := range d.Recontracts {
		if _, held := seen[r.Line.Number]; !held {
			return fmt.Errorf("%w: recontracts[%d]: line %s is not held by any customer", shared.ErrInvalidInput, i, r.Line.Number)
		}
		if _, _, err := r.Line.Terms(); err != nil {
			return fmt.Errorf("recontracts[%d]: line %s: %w", i, r.Line.Number, err)
		}
	}
	return nil
}

// SortedRecontracts returns the recontracts in chronological order
func (d *Dataset) SortedRecontracts() []RecontractRecord {
	sorted := append([]RecontractRecord(nil), d.Recontracts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })
	return sorted
}

// Terms returns the contract kind and construction terms of the line
func (l LineRecord) Terms() (contract.Kind, contract.Terms, error) {
	kind, err := contract.ParseKind(l.Contract)
	if err != nil {
		return "", contract.Terms{}, err
	}

	start, err := time.Parse(DateLayout, l.Start)
	if err != nil {
		return "", contract.Terms{}, fmt.Errorf("%w: start: %v", shared.ErrInvalidInput, err)
	}
	terms := contract.Terms{Start: start, TopUp: l.TopUp}

	if l.End != "" {
		end, err := time.Parse(DateLayout, l.End)
		if err != nil {
			return "", contract.Terms{}, fmt.Errorf("%w: end: %v", shared.ErrInvalidInput, err)
		}
		terms.End = end
	}

	switch kind {
	case contract.KindTerm:
		if terms.End.IsZero() {
			return "", contract.Terms{}, fmt.Errorf("%w: term contract needs an end date", shared.ErrInvalidInput)
		}
	case contract.KindPrepaid:
		if l.TopUp.IsNegative() {
			return "", contract.Terms{}, fmt.Errorf("%w: top_up cannot be negative", shared.ErrInvalidInput)
		}
	}
	return kind, terms, nil
}

// BillingCalls converts the call log into domain calls
func (d *Dataset) BillingCalls() ([]*billing.Call, error) {
	calls := make([]*billing.Call, 0, len(d.Calls))
	for i, c := range d.Calls {
		call, err := billing.NewCall(c.Source, c.Target, c.Time, c.Duration)
		if err != nil {
			return nil, fmt.Errorf("calls[%d]: %w", i, err)
		}
		calls = append(calls, call)
	}
	return calls, nil
}

// LineCount returns the number of lines across all customers
func (d *Dataset) LineCount() int {
	n := 0
	for _, c := range d.Customers {
		n += len(c.Lines)
	}
	return n
}

func formatValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		// drop the root struct name from the namespace
		field := e.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		msgs = append(msgs, field+": "+validationMessage(e))
	}
	return fmt.Errorf("%w: %s", shared.ErrInvalidInput, strings.Join(msgs, "; "))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "needs at least " + e.Param() + " entries"
	case "gte":
		return "must be at least " + e.Param()
	case "datetime":
		return "must be a date like " + e.Param()
	default:
		return "is invalid"
	}
}
