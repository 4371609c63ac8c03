package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundCents(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no rounding needed", "100.00", "100"},
		{"round half up", "433.335", "433.34"},
		{"round down below half", "433.334", "433.33"},
		{"repeating division", "433.333333333", "433.33"},
		{"zero", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.input)
			assert.True(t, RoundCents(d).Equal(decimal.RequireFromString(tt.expected)))
		})
	}
}

func TestMoney_AddSubtract(t *testing.T) {
	a := NewMoneyARSFromFloat(100.50)
	b := NewMoneyARSFromFloat(49.50)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(150)))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "51.00", diff.StringFixed(2))
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	a := NewMoneyARSFromFloat(10)
	b, err := NewMoney(decimal.NewFromInt(10), USD)
	require.NoError(t, err)

	_, err = a.Add(b)
	assert.Error(t, err)

	_, err = a.Subtract(b)
	assert.Error(t, err)

	_, err = a.LessThan(b)
	assert.Error(t, err)
}

func TestMoney_EmptyCurrencyRejected(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(1), "")
	assert.Error(t, err)
}

func TestMoney_SplitEqual_ExactSum(t *testing.T) {
	tests := []struct {
		name  string
		total string
		parts int
		want  []string
	}{
		{"1300 into 3", "1300.00", 3, []string{"433.33", "433.33", "433.34"}},
		{"500 into 5", "500.00", 5, []string{"100.00", "100.00", "100.00", "100.00", "100.00"}},
		{"100 into 3", "100.00", 3, []string{"33.33", "33.33", "33.34"}},
		{"0.01 into 2", "0.01", 2, []string{"0.01", "0.00"}},
		{"single part", "77.77", 1, []string{"77.77"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoneyARSFromString(tt.total)
			require.NoError(t, err)

			parts, err := m.SplitEqual(tt.parts)
			require.NoError(t, err)
			require.Len(t, parts, tt.parts)

			sum := decimal.Zero
			for i, p := range parts {
				assert.Equal(t, tt.want[i], p.StringFixed(2))
				sum = sum.Add(p.Amount())
			}
			assert.True(t, sum.Equal(m.Amount()), "parts must sum back to the total exactly")
		})
	}
}

func TestMoney_SplitEqual_InvalidParts(t *testing.T) {
	m := NewMoneyARSFromFloat(100)
	_, err := m.SplitEqual(0)
	assert.Error(t, err)
	_, err = m.SplitEqual(-3)
	assert.Error(t, err)
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m, err := NewMoneyARSFromString("1234.56")
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("99.95"))
	assert.Equal(t, DefaultCurrency, m.Currency())
	assert.Equal(t, "99.95", m.StringFixed(2))

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(42))
}
