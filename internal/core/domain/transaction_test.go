package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
)

func TestTransactionStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status domain.TransactionStatus
		want   bool
	}{
		{name: "draft is not terminal", status: domain.StatusDraft, want: false},
		{name: "completed is terminal", status: domain.StatusCompleted, want: true},
		{name: "locked is terminal", status: domain.StatusLocked, want: true},
		{name: "unknown status is not terminal", status: domain.TransactionStatus("PENDING"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}
