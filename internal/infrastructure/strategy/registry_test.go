package strategy

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/contract"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestNewRegistryWithDefaults(t *testing.T) {
	r, err := NewRegistryWithDefaults(contract.DefaultRates())
	require.NoError(t, err)

	assert.Equal(t, []contract.Kind{contract.KindMonthToMonth, contract.KindPrepaid, contract.KindTerm}, r.List())

	t.Run("builds month-to-month", func(t *testing.T) {
		p, err := r.Build(contract.KindMonthToMonth, contract.Terms{Start: start})
		require.NoError(t, err)
		assert.Equal(t, contract.KindMonthToMonth, p.Kind())
	})

	t.Run("builds term", func(t *testing.T) {
		p, err := r.Build(contract.KindTerm, contract.Terms{Start: start, End: start.AddDate(1, 0, 0)})
		require.NoError(t, err)
		term, ok := p.(*contract.Term)
		require.True(t, ok)
		assert.Equal(t, start.AddDate(1, 0, 0), term.End())
	})

	t.Run("builds prepaid", func(t *testing.T) {
		p, err := r.Build(contract.KindPrepaid, contract.Terms{Start: start, TopUp: decimal.NewFromInt(40)})
		require.NoError(t, err)
		prepaid, ok := p.(*contract.Prepaid)
		require.True(t, ok)
		assert.True(t, prepaid.Balance().Equal(decimal.NewFromInt(-40)))
	})

	t.Run("propagates constructor errors", func(t *testing.T) {
		_, err := r.Build(contract.KindTerm, contract.Terms{Start: start})
		assert.Error(t, err)
	})
}

func TestNewRegistryWithDefaults_InvalidRates(t *testing.T) {
	rates := contract.DefaultRates()
	rates.MTMFee = decimal.NewFromInt(-1)

	_, err := NewRegistryWithDefaults(rates)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestPolicyRegistry_RegisterAndBuild(t *testing.T) {
	r := NewPolicyRegistry(contract.DefaultRates())

	var gotRates contract.Rates
	factory := func(terms contract.Terms, rates contract.Rates) (contract.Policy, error) {
		gotRates = rates
		return contract.NewMonthToMonth(terms.Start, rates)
	}

	require.NoError(t, r.Register(contract.KindMonthToMonth, factory))

	err := r.Register(contract.KindMonthToMonth, factory)
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))

	err = r.Register(contract.KindTerm, nil)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = r.Build(contract.KindMonthToMonth, contract.Terms{Start: start})
	require.NoError(t, err)
	assert.True(t, gotRates.MTMFee.Equal(r.Rates().MTMFee))

	_, err = r.Build(contract.KindPrepaid, contract.Terms{Start: start})
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestPolicyRegistry_ConcurrentAccess(t *testing.T) {
	r := NewPolicyRegistry(contract.DefaultRates())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			kind := contract.Kind(fmt.Sprintf("custom-%d", i))
			_ = r.Register(kind, func(terms contract.Terms, rates contract.Rates) (contract.Policy, error) {
				return contract.NewMonthToMonth(terms.Start, rates)
			})
		}(i)
		go func() {
			defer wg.Done()
			_ = r.List()
		}()
	}
	wg.Wait()

	assert.Len(t, r.List(), 50)
}
