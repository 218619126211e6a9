package contract

import (
	"testing"
	"time"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/billing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerm(t *testing.T) *Term {
	t.Helper()
	c, err := NewTerm(date(2019, time.January, 10), date(2019, time.December, 31), DefaultRates())
	require.NoError(t, err)
	return c
}

// openMonths opens n consecutive months from January 2019 and returns the last bill
func openMonths(t *testing.T, c Policy, n int) (*billing.Bill, billing.Period) {
	t.Helper()
	period := jan2019
	var bill *billing.Bill
	for i := 0; i < n; i++ {
		if i > 0 {
			period = period.Next()
		}
		bill = billing.NewBill(period)
		require.NoError(t, c.NewMonth(period, bill))
	}
	return bill, period
}

func TestNewTerm_Validation(t *testing.T) {
	rates := DefaultRates()
	start := date(2019, time.March, 1)

	t.Run("missing end", func(t *testing.T) {
		_, err := NewTerm(start, time.Time{}, rates)
		assert.Error(t, err)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewTerm(start, date(2019, time.February, 1), rates)
		assert.Error(t, err)
	})

	t.Run("end on start", func(t *testing.T) {
		c, err := NewTerm(start, start, rates)
		require.NoError(t, err)
		assert.Equal(t, start, c.End())
		assert.Equal(t, KindTerm, c.Kind())
	})
}

func TestTerm_NewMonth_DepositOnlyInStartMonth(t *testing.T) {
	c := newTestTerm(t)

	first := billing.NewBill(jan2019)
	require.NoError(t, c.NewMonth(jan2019, first))
	assert.True(t, first.FixedCost().Equal(dec("320")), "got %s", first.FixedCost())
	assert.Equal(t, "TermContract", first.Label())
	assert.True(t, first.Rate().Equal(dec("0.1")))

	for _, period := range []billing.Period{jan2019.Next(), jan2019.Next().Next()} {
		bill := billing.NewBill(period)
		require.NoError(t, c.NewMonth(period, bill))
		assert.True(t, bill.FixedCost().Equal(dec("20")), "period %s got %s", period, bill.FixedCost())
	}
}

func TestTerm_NewMonth_StartedMidPeriod(t *testing.T) {
	// a contract whose start month is never opened is never charged the deposit
	c, err := NewTerm(date(2018, time.December, 20), date(2019, time.December, 20), DefaultRates())
	require.NoError(t, err)

	bill := billing.NewBill(jan2019)
	require.NoError(t, c.NewMonth(jan2019, bill))
	assert.True(t, bill.FixedCost().Equal(dec("20")))
}

func TestTerm_BillCall_FreeMinuteAllowance(t *testing.T) {
	tests := []struct {
		name       string
		calls      []int // minutes
		wantFree   int
		wantBilled int
	}{
		{name: "under allowance", calls: []int{30}, wantFree: 30, wantBilled: 0},
		{name: "exactly the allowance", calls: []int{100}, wantFree: 100, wantBilled: 0},
		{name: "one over the allowance", calls: []int{101}, wantFree: 100, wantBilled: 1},
		{name: "allowance crossed mid call", calls: []int{60, 60}, wantFree: 100, wantBilled: 20},
		{name: "allowance reached exactly across calls", calls: []int{40, 60}, wantFree: 100, wantBilled: 0},
		{name: "calls after allowance exhausted", calls: []int{100, 1, 15}, wantFree: 100, wantBilled: 16},
		{name: "zero length call", calls: []int{0}, wantFree: 0, wantBilled: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestTerm(t)
			bill := billing.NewBill(jan2019)
			require.NoError(t, c.NewMonth(jan2019, bill))

			for _, m := range tt.calls {
				require.NoError(t, c.BillCall(callOf(t, jan2019, minutes(m))))
			}

			assert.Equal(t, tt.wantFree, bill.FreeMinutes())
			assert.Equal(t, tt.wantBilled, bill.BilledMinutes())
		})
	}
}

func TestTerm_BillCall_PartialMinuteRoundsUp(t *testing.T) {
	c := newTestTerm(t)
	bill := billing.NewBill(jan2019)
	require.NoError(t, c.NewMonth(jan2019, bill))

	// 100 minutes and one second is 101 minutes
	require.NoError(t, c.BillCall(callOf(t, jan2019, minutes(100)+1)))
	assert.Equal(t, 100, bill.FreeMinutes())
	assert.Equal(t, 1, bill.BilledMinutes())
}

func TestTerm_AllowanceResetsEachMonth(t *testing.T) {
	c := newTestTerm(t)

	jan := billing.NewBill(jan2019)
	require.NoError(t, c.NewMonth(jan2019, jan))
	require.NoError(t, c.BillCall(callOf(t, jan2019, minutes(150))))

	feb := jan2019.Next()
	bill := billing.NewBill(feb)
	require.NoError(t, c.NewMonth(feb, bill))
	require.NoError(t, c.BillCall(callOf(t, feb, minutes(80))))

	assert.Equal(t, 80, bill.FreeMinutes())
	assert.Equal(t, 0, bill.BilledMinutes())
}

func TestTerm_MonthsElapsedIncrementsOncePerMonth(t *testing.T) {
	c := newTestTerm(t)
	assert.Equal(t, 0, c.MonthsElapsed())

	period := jan2019
	for i := 1; i <= 4; i++ {
		bill := billing.NewBill(period)
		require.NoError(t, c.NewMonth(period, bill))
		for j := 0; j < i*3; j++ {
			require.NoError(t, c.BillCall(callOf(t, period, minutes(25))))
		}
		assert.Equal(t, i, c.MonthsElapsed())
		period = period.Next()
	}
}

func TestTerm_Cancel(t *testing.T) {
	tests := []struct {
		name   string
		months int
		want   decimal.Decimal
	}{
		// final month: 20 fee, 150 minutes of which 50 billed at 0.1, cost 25
		{name: "deposit refunded after six months", months: 6, want: dec("275")},
		{name: "deposit refunded after seven months", months: 7, want: dec("275")},
		{name: "deposit forfeited after five months", months: 5, want: dec("25")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestTerm(t)
			bill, period := openMonths(t, c, tt.months)
			require.NoError(t, c.BillCall(callOf(t, period, minutes(150))))
			require.True(t, bill.Cost().Equal(dec("25")))

			owed, err := c.Cancel()
			require.NoError(t, err)
			assert.True(t, owed.Equal(tt.want), "got %s want %s", owed, tt.want)
			assert.False(t, c.IsActive())
		})
	}
}

func TestTerm_CancelCanRefund(t *testing.T) {
	c := newTestTerm(t)
	bill, _ := openMonths(t, c, 6)
	require.True(t, bill.Cost().Equal(dec("20")))

	owed, err := c.Cancel()
	require.NoError(t, err)
	assert.True(t, owed.Equal(dec("280")))
}

func TestTerm_CancelInFirstMonthOwesDeposit(t *testing.T) {
	c := newTestTerm(t)
	_, _ = openMonths(t, c, 1)

	owed, err := c.Cancel()
	require.NoError(t, err)
	assert.True(t, owed.Equal(dec("320")))
}
