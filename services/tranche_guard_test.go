package services

import (
	"errors"
	"testing"

	"grants-marketplace-api/models"
)

func tranches(statuses ...string) []models.GrantTranche {
	out := make([]models.GrantTranche, 0, len(statuses))
	for i, status := range statuses {
		out = append(out, models.GrantTranche{
			TrancheNumber: i + 1,
			Status:        status,
		})
	}
	return out
}

func TestCheckTrancheEligibility(t *testing.T) {
	cases := []struct {
		name         string
		history      []models.GrantTranche
		isFirst      bool
		wantExisting int
		wantErr      error
	}{
		{
			name:         "first tranche on empty history",
			history:      nil,
			isFirst:      true,
			wantExisting: 0,
		},
		{
			name:         "next tranche after paid",
			history:      tranches(models.TrancheStatusPaid),
			wantExisting: 1,
		},
		{
			name:    "first tranche with existing tranches",
			history: tranches(models.TrancheStatusPaid),
			isFirst: true,
			wantErr: ErrInvalidFirstTrancheRequest,
		},
		{
			name:    "non-first tranche with no history",
			history: nil,
			wantErr: ErrNoPriorTranche,
		},
		{
			name:    "prior tranche still pending",
			history: tranches(models.TrancheStatusPending),
			wantErr: ErrPriorTranchePending,
		},
		{
			name:    "prior tranche approved but unpaid",
			history: tranches(models.TrancheStatusPaid, models.TrancheStatusApproved),
			wantErr: ErrPriorTranchePending,
		},
		{
			name:         "rejected tranches do not consume the plan",
			history:      tranches(models.TrancheStatusPaid, models.TrancheStatusRejected),
			wantExisting: 1,
		},
		{
			name: "all tranches created",
			history: tranches(models.TrancheStatusPaid, models.TrancheStatusPaid,
				models.TrancheStatusPaid, models.TrancheStatusPaid),
			wantErr: ErrTrancheLimitExceeded,
		},
		{
			name: "rejection frees a slot at the limit",
			history: tranches(models.TrancheStatusPaid, models.TrancheStatusPaid,
				models.TrancheStatusPaid, models.TrancheStatusRejected),
			wantExisting: 3,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			existing, err := CheckTrancheEligibility(tc.history, tc.isFirst)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if existing != tc.wantExisting {
				t.Fatalf("expected %d existing tranches, got %d", tc.wantExisting, existing)
			}
		})
	}
}
