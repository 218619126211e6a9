// Package report renders billing statements, settlements and the rate table
// as plain text for the command line.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/billing"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/contract"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const statementsTemplate = `Statements for {{.Period}} ({{.Currency}})
{{range .Rows}}{{printf "%-12s" .LineNumber}} {{printf "%-13s" .Contract}} {{printf "%-10s" .Kind}} fixed {{money .FixedCost}}  free {{.FreeMinutes}}  billed {{.BilledMinutes}}  usage {{money .UsageCost}}  due {{money .Due}}
{{else}}no statements
{{end}}Total due {{money .Total}}
`

const settlementTemplate = `Cancelled {{.LineNumber}} ({{title .Contract}}) in {{.Period}}: settlement {{money .Amount}} {{.Currency}}
`

const historyTemplate = `History of {{.LineNumber}} ({{.Currency}})
{{range .Rows}}{{.Period}}  {{printf "%-15s" .Contract}} {{printf "%-10s" .Kind}} billed {{.BilledMinutes}}  due {{money .Due}}
{{else}}no statements
{{end}}Total due {{money .Total}}
`

const ratesTemplate = `Contracts: {{join .Kinds}}
Rates ({{.Currency}})
Month-to-month  fee {{money .MTMFee}}  per minute {{rate .MTMRate}}
Term            fee {{money .TermFee}}  deposit {{money .TermDeposit}}  per minute {{rate .TermRate}}  free minutes {{.TermFreeMinutes}}  refund after {{.TermRefundMonths}} months
Prepaid         per minute {{rate .PrepaidRate}}  top-up {{money .PrepaidTopUp}}  recharge above {{money .PrepaidLowThreshold}}  top-up billed {{.PrepaidBillTopUp}}
`

// Renderer writes text reports formatted for a language
type Renderer struct {
	printer    *message.Printer
	currency   currency.Unit
	statements *template.Template
	settlement *template.Template
	history    *template.Template
	rates      *template.Template
}

// NewRenderer creates a renderer that formats numbers for tag
func NewRenderer(tag language.Tag) (*Renderer, error) {
	unit, err := currency.ParseISO(valueobject.Currency)
	if err != nil {
		return nil, fmt.Errorf("report: currency %s: %w", valueobject.Currency, err)
	}

	r := &Renderer{
		printer:  message.NewPrinter(tag),
		currency: unit,
	}
	caser := cases.Title(tag)
	funcs := template.FuncMap{
		"money": r.Money,
		"rate":  r.Rate,
		"title": caser.String,
		"join":  joinKinds,
	}

	if r.statements, err = template.New("statements").Funcs(funcs).Parse(statementsTemplate); err != nil {
		return nil, err
	}
	if r.settlement, err = template.New("settlement").Funcs(funcs).Parse(settlementTemplate); err != nil {
		return nil, err
	}
	if r.history, err = template.New("history").Funcs(funcs).Parse(historyTemplate); err != nil {
		return nil, err
	}
	if r.rates, err = template.New("rates").Funcs(funcs).Parse(ratesTemplate); err != nil {
		return nil, err
	}
	return r, nil
}

// Money formats an amount with two decimals and digit grouping
func (r *Renderer) Money(v any) string {
	d := toDecimal(v)
	return r.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// Rate formats a per-minute rate with up to four decimals
func (r *Renderer) Rate(v any) string {
	d := toDecimal(v)
	return r.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MinFractionDigits(2), number.MaxFractionDigits(4)))
}

type statementRow struct {
	Period        string
	LineNumber    string
	Contract      string
	Kind          billing.StatementKind
	FixedCost     decimal.Decimal
	FreeMinutes   int
	BilledMinutes int
	UsageCost     decimal.Decimal
	Due           decimal.Decimal
}

// WriteStatements writes one row per statement and the period total
func (r *Renderer) WriteStatements(w io.Writer, period billing.Period, statements []*billing.Statement) error {
	data := struct {
		Period   string
		Currency string
		Rows     []statementRow
		Total    decimal.Decimal
	}{
		Period:   period.String(),
		Currency: r.currency.String(),
	}

	data.Rows, data.Total = rows(statements)
	return r.statements.Execute(w, data)
}

// WriteHistory writes every statement of one line in period order
func (r *Renderer) WriteHistory(w io.Writer, lineNumber string, statements []*billing.Statement) error {
	data := struct {
		LineNumber string
		Currency   string
		Rows       []statementRow
		Total      decimal.Decimal
	}{
		LineNumber: lineNumber,
		Currency:   r.currency.String(),
	}
	data.Rows, data.Total = rows(statements)
	return r.history.Execute(w, data)
}

func rows(statements []*billing.Statement) ([]statementRow, decimal.Decimal) {
	var result []statementRow
	total := decimal.Zero
	for _, s := range statements {
		if s == nil {
			continue
		}
		label := s.Summary.Label
		if label == "" {
			label = s.Contract
		}
		row := statementRow{
			Period:        s.Period.String(),
			LineNumber:    s.LineNumber,
			Contract:      label,
			Kind:          s.Kind,
			FixedCost:     s.Summary.FixedCost.Amount(),
			FreeMinutes:   s.Summary.FreeMinutes,
			BilledMinutes: s.Summary.BilledMinutes,
			UsageCost:     s.Summary.UsageCost.Amount(),
			Due:           s.AmountDue.Amount(),
		}
		result = append(result, row)
		total = total.Add(row.Due)
	}
	return result, total
}

// WriteSettlement writes the outcome of cancelling a line
func (r *Renderer) WriteSettlement(w io.Writer, cancelled *contract.ContractCancelledEvent) error {
	return r.settlement.Execute(w, struct {
		LineNumber string
		Contract   string
		Period     string
		Amount     decimal.Decimal
		Currency   string
	}{
		LineNumber: cancelled.LineNumber,
		Contract:   kindName(cancelled.Contract),
		Period:     cancelled.Period,
		Amount:     cancelled.Settlement.Amount(),
		Currency:   r.currency.String(),
	})
}

// WriteRates writes the contract kinds on offer and the rate table
func (r *Renderer) WriteRates(w io.Writer, kinds []contract.Kind, rates contract.Rates) error {
	return r.rates.Execute(w, struct {
		contract.Rates
		Kinds    []contract.Kind
		Currency string
	}{
		Rates:    rates,
		Kinds:    kinds,
		Currency: r.currency.String(),
	})
}

func joinKinds(kinds []contract.Kind) string {
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = kindName(kind)
	}
	return strings.Join(names, ", ")
}

func kindName(kind contract.Kind) string {
	switch kind {
	case contract.KindMonthToMonth:
		return "month-to-month"
	case contract.KindTerm:
		return "term"
	case contract.KindPrepaid:
		return "prepaid"
	default:
		return kind.String()
	}
}

func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case valueobject.Money:
		return val.Amount()
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
