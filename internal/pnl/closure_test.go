package pnl

import (
	"testing"

	"trade-journal-lab/internal/domain"
)

func TestIsEffectivelyClosed(t *testing.T) {
	tests := []struct {
		name      string
		direction domain.Direction
		txs       []*domain.Transaction
		want      bool
	}{
		{
			name:      "no transactions",
			direction: domain.DirectionLong,
			txs:       nil,
			want:      true,
		},
		{
			name:      "balanced long",
			direction: domain.DirectionLong,
			txs: []*domain.Transaction{
				makeTx(domain.ActionBuy, "10", "100", 1, "0"),
				makeTx(domain.ActionSell, "10", "110", 2, "0"),
			},
			want: true,
		},
		{
			name:      "open long",
			direction: domain.DirectionLong,
			txs: []*domain.Transaction{
				makeTx(domain.ActionBuy, "10", "100", 1, "0"),
				makeTx(domain.ActionSell, "4", "110", 2, "0"),
			},
			want: false,
		},
		{
			name:      "balanced short",
			direction: domain.DirectionShort,
			txs: []*domain.Transaction{
				makeTx(domain.ActionSell, "3", "100", 1, "0"),
				makeTx(domain.ActionBuy, "3", "90", 2, "0"),
			},
			want: true,
		},
		{
			name:      "residual exactly at tolerance reads closed",
			direction: domain.DirectionLong,
			txs: []*domain.Transaction{
				makeTx(domain.ActionBuy, "10.00000001", "100", 1, "0"),
				makeTx(domain.ActionSell, "10.00000000", "110", 2, "0"),
			},
			want: true,
		},
		{
			name:      "residual above tolerance reads open",
			direction: domain.DirectionLong,
			txs: []*domain.Transaction{
				makeTx(domain.ActionBuy, "10.00000002", "100", 1, "0"),
				makeTx(domain.ActionSell, "10", "110", 2, "0"),
			},
			want: false,
		},
		{
			name:      "small but real position reads open",
			direction: domain.DirectionLong,
			txs: []*domain.Transaction{
				makeTx(domain.ActionBuy, "0.00000002", "100", 1, "0"),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEffectivelyClosed(tt.txs, tt.direction); got != tt.want {
				t.Errorf("IsEffectivelyClosed = %v, want %v", got, tt.want)
			}
		})
	}
}
