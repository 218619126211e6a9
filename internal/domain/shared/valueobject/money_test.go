package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.RequireFromString("123.45")))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestMoneyIsPositiveNegativeZero(t *testing.T) {
	positive := NewMoneyFromFloat(100)
	negative := NewMoneyFromFloat(-100)
	zero := Zero()

	assert.True(t, positive.IsPositive())
	assert.False(t, positive.IsNegative())
	assert.False(t, positive.IsZero())

	assert.False(t, negative.IsPositive())
	assert.True(t, negative.IsNegative())

	assert.True(t, zero.IsZero())
}

func TestMoneyArithmetic(t *testing.T) {
	m1 := NewMoneyFromFloat(100.50)
	m2 := NewMoneyFromFloat(50.25)

	assert.True(t, m1.Add(m2).Equals(NewMoneyFromFloat(150.75)))
	assert.True(t, m1.Subtract(m2).Equals(NewMoneyFromFloat(50.25)))
	assert.True(t, m2.Subtract(m1).IsNegative())
	assert.True(t, m1.Negate().Equals(NewMoneyFromFloat(-100.50)))
	assert.True(t, NewMoneyFromFloat(0.025).MultiplyByInt(3).Equals(NewMoneyFromFloat(0.075)))
}

func TestMoneyComparison(t *testing.T) {
	small := NewMoneyFromFloat(10)
	large := NewMoneyFromFloat(20)

	assert.True(t, small.LessThan(large))
	assert.False(t, large.LessThan(small))
	assert.True(t, large.GreaterThan(small))
	assert.False(t, small.GreaterThan(small))
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "50.00 CAD", NewMoneyFromFloat(50).String())
	assert.Equal(t, "-12.50 CAD", NewMoneyFromFloat(-12.5).String())
	assert.Equal(t, "0.075", NewMoneyFromFloat(0.075).StringFixed(3))
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshals as decimal string", func(t *testing.T) {
		data, err := json.Marshal(NewMoneyFromFloat(320))
		require.NoError(t, err)
		assert.Equal(t, `"320"`, string(data))
	})

	t.Run("unmarshals string and number", func(t *testing.T) {
		var fromString, fromNumber Money
		require.NoError(t, json.Unmarshal([]byte(`"12.34"`), &fromString))
		require.NoError(t, json.Unmarshal([]byte(`12.34`), &fromNumber))
		assert.True(t, fromString.Equals(fromNumber))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var m Money
		assert.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
		assert.Error(t, json.Unmarshal([]byte(`{}`), &m))
	})
}

func TestMoneyScan(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    string
		wantErr bool
	}{
		{name: "nil", value: nil, want: "0"},
		{name: "string", value: "42.5", want: "42.5"},
		{name: "bytes", value: []byte("-7.25"), want: "-7.25"},
		{name: "float", value: float64(1.5), want: "1.5"},
		{name: "int", value: int64(3), want: "3"},
		{name: "unsupported", value: true, wantErr: true},
		{name: "bad string", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Money
			err := m.Scan(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, m.Amount().Equal(decimal.RequireFromString(tt.want)))
		})
	}
}

func TestMoneyValue(t *testing.T) {
	v, err := NewMoneyFromFloat(-40).Value()
	require.NoError(t, err)
	assert.Equal(t, "-40", v)
}
