package services

import (
	"errors"

	"grants-marketplace-api/models"
)

// Tranche request and decision validation failures. All of these mark an
// invalid request, never a transient fault; callers surface them as 4xx
// responses and nothing is retried.
var (
	ErrTrancheLimitExceeded       = errors.New("all tranches have already been created")
	ErrInvalidFirstTrancheRequest = errors.New("cannot create first tranche when tranches already exist")
	ErrNoPriorTranche             = errors.New("cannot create tranche when no tranches exist")
	ErrPriorTranchePending        = errors.New("previous tranche must be paid before requesting a new tranche")
	ErrAmountExceedsRemaining     = errors.New("tranche amount exceeds remaining amount")
	ErrApprovedAmountOverflow     = errors.New("total approved tranches would exceed the application's approved amount")
	ErrTrancheAlreadyDecided      = errors.New("tranche has already been decided")
)

// CheckTrancheEligibility decides whether a new tranche may be created given
// the application's tranche history, ordered by tranche number. It returns
// the number of existing non-rejected tranches, which is also the next
// tranche number minus one.
//
// A tranche that is still Pending, or Approved but not yet Paid, blocks the
// next request. Rejected tranches do not consume the plan.
func CheckTrancheEligibility(history []models.GrantTranche, isFirstTranche bool) (int, error) {
	existing := 0
	var lastActive *models.GrantTranche
	for i := range history {
		if history[i].Status == models.TrancheStatusRejected {
			continue
		}
		existing++
		lastActive = &history[i]
	}

	if existing >= MaxTranchesPerApplication {
		return existing, ErrTrancheLimitExceeded
	}
	if isFirstTranche && existing > 0 {
		return existing, ErrInvalidFirstTrancheRequest
	}
	if !isFirstTranche && existing == 0 {
		return existing, ErrNoPriorTranche
	}
	if lastActive != nil && lastActive.Status != models.TrancheStatusPaid {
		return existing, ErrPriorTranchePending
	}

	return existing, nil
}
