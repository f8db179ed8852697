package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/pkg/money"
)

func TestFormatter_RupiasConSeparadorDeMiles(t *testing.T) {
	f, err := money.NewFormatter("PKR")
	require.NoError(t, err)

	assert.Equal(t, "PKR", f.Code())
	assert.Equal(t, "Rs 1,234.5", f.Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "Rs 218.5", f.Format(decimal.RequireFromString("218.50")))
	assert.Equal(t, "Rs 1,000", f.Format(decimal.NewFromInt(1000)))
}

func TestFormatter_RedondeaADosDecimales(t *testing.T) {
	f, err := money.NewFormatter("pkr")
	require.NoError(t, err)
	assert.Equal(t, "0.5", f.Number(decimal.RequireFromString("0.4995")))
}

func TestFormatter_MonedaSinSimboloUsaISO(t *testing.T) {
	f, err := money.NewFormatter("JPY")
	require.NoError(t, err)
	assert.Equal(t, "JPY 5", f.Format(decimal.NewFromInt(5)))
}

func TestNewFormatter_CodigoInvalido(t *testing.T) {
	_, err := money.NewFormatter("XX1")
	assert.Error(t, err)
}
