package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
)

func TestCashDrawer_ExpectedBalance(t *testing.T) {
	tests := []struct {
		name    string
		opening string
		cashIn  string
		cashOut string
		want    string
	}{
		{name: "opening only", opening: "100", cashIn: "0", cashOut: "0", want: "100"},
		{name: "sales inflow", opening: "100", cashIn: "250.50", cashOut: "0", want: "350.50"},
		{name: "refund outflow", opening: "100", cashIn: "250", cashOut: "75.25", want: "274.75"},
		{name: "outflow exceeds inflow", opening: "50", cashIn: "10", cashOut: "80", want: "-20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := domain.CashDrawer{
				OpeningBalance: decimal.RequireFromString(tt.opening),
				CashIn:         decimal.RequireFromString(tt.cashIn),
				CashOut:        decimal.RequireFromString(tt.cashOut),
			}
			assert.True(t, decimal.RequireFromString(tt.want).Equal(d.ExpectedBalance()),
				"expected %s, got %s", tt.want, d.ExpectedBalance())
		})
	}
}
