package services

import "time"

// Listing lifecycle values stored on a listing row.
const (
	ListingStatusOpen       = "OPEN"
	ListingStatusReview     = "REVIEW"
	ListingStatusClosed     = "CLOSED"
	ListingStatusVerifying  = "VERIFYING"
	ListingStatusVerifyFail = "VERIFY_FAIL"
)

// BonusRewardPosition is the rewards-map key holding the per-bonus-spot
// amount, as opposed to a 1-based winner rank.
const BonusRewardPosition = "bonus"

// ListingSnapshot is everything the display-status derivation needs about a
// listing. The fields are explicit and typed; there is no reading through a
// loosely shaped object.
type ListingSnapshot struct {
	Status             string
	Type               string // bounty|project|hackathon|grant
	IsPublished        bool
	PublishedAt        *time.Time
	Deadline           *time.Time
	Rewards            map[string]float64
	MaxBonusSpots      int
	IsWinnersAnnounced bool
	TotalPaymentsMade  int
	IsFndnPaying       bool
}

// ListingDraftStatus collapses a listing's raw status and publish flag into
// its draft-stage label.
func ListingDraftStatus(status string, isPublished bool) string {
	switch status {
	case ListingStatusClosed, ListingStatusReview, ListingStatusVerifying, ListingStatusVerifyFail:
		return status
	}
	if isPublished {
		return "PUBLISHED"
	}
	return "DRAFT"
}

// TotalWinnerRanks counts the prize slots a listing pays out: one per reward
// rank plus the configured bonus spots.
func TotalWinnerRanks(rewards map[string]float64, maxBonusSpots int) int {
	ranks := 0
	for position := range rewards {
		if position == BonusRewardPosition {
			continue
		}
		ranks++
	}
	return ranks + maxBonusSpots
}

// ListingDisplayStatus derives the sponsor-facing status label of a listing.
func ListingDisplayStatus(listing ListingSnapshot, now time.Time) string {
	draftStatus := ListingDraftStatus(listing.Status, listing.IsPublished)
	deadlineOver := listing.Deadline != nil && listing.Deadline.Before(now)
	totalWinnerRanks := TotalWinnerRanks(listing.Rewards, listing.MaxBonusSpots)

	switch draftStatus {
	case ListingStatusVerifying:
		return "Under Verification"
	case ListingStatusVerifyFail:
		return "Verification Failed"
	case "DRAFT":
		if listing.PublishedAt == nil {
			return "Draft"
		}
		return "Unpublished"
	}

	if listing.Type == "grant" {
		return "In Progress"
	}

	switch draftStatus {
	case ListingStatusClosed:
		return "Closed"
	case ListingStatusReview, "PUBLISHED":
		if !deadlineOver && !listing.IsWinnersAnnounced {
			return "In Progress"
		}
		if !listing.IsWinnersAnnounced {
			return "In Review"
		}
		if listing.TotalPaymentsMade != totalWinnerRanks {
			if listing.IsFndnPaying {
				return "Fndn to Pay"
			}
			return "Payment Pending"
		}
		if listing.TotalPaymentsMade > 0 {
			return "Completed"
		}
		return "In Review"
	}

	return "Draft"
}
