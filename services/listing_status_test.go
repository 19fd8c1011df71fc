package services

import (
	"testing"
	"time"
)

func TestListingDraftStatus(t *testing.T) {
	cases := []struct {
		status      string
		isPublished bool
		want        string
	}{
		{ListingStatusClosed, true, "CLOSED"},
		{ListingStatusReview, false, "REVIEW"},
		{ListingStatusVerifying, true, "VERIFYING"},
		{ListingStatusVerifyFail, false, "VERIFY_FAIL"},
		{ListingStatusOpen, true, "PUBLISHED"},
		{ListingStatusOpen, false, "DRAFT"},
	}

	for _, tc := range cases {
		if got := ListingDraftStatus(tc.status, tc.isPublished); got != tc.want {
			t.Fatalf("status %s published=%v: expected %s, got %s", tc.status, tc.isPublished, tc.want, got)
		}
	}
}

func TestTotalWinnerRanks(t *testing.T) {
	rewards := map[string]float64{"1": 500, "2": 300, "3": 200, BonusRewardPosition: 50}
	if got := TotalWinnerRanks(rewards, 5); got != 8 {
		t.Fatalf("expected 8 winner ranks, got %d", got)
	}
	if got := TotalWinnerRanks(nil, 0); got != 0 {
		t.Fatalf("expected 0 winner ranks, got %d", got)
	}
}

func TestListingDisplayStatus(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)
	published := past

	rewards := map[string]float64{"1": 500, "2": 300}

	cases := []struct {
		name    string
		listing ListingSnapshot
		want    string
	}{
		{
			name:    "never published draft",
			listing: ListingSnapshot{Status: ListingStatusOpen},
			want:    "Draft",
		},
		{
			name:    "unpublished after going live",
			listing: ListingSnapshot{Status: ListingStatusOpen, PublishedAt: &published},
			want:    "Unpublished",
		},
		{
			name:    "under verification",
			listing: ListingSnapshot{Status: ListingStatusVerifying, IsPublished: true},
			want:    "Under Verification",
		},
		{
			name:    "verification failed",
			listing: ListingSnapshot{Status: ListingStatusVerifyFail},
			want:    "Verification Failed",
		},
		{
			name:    "grants stay in progress",
			listing: ListingSnapshot{Status: ListingStatusOpen, Type: "grant", IsPublished: true, Deadline: &past},
			want:    "In Progress",
		},
		{
			name:    "closed listing",
			listing: ListingSnapshot{Status: ListingStatusClosed, Type: "bounty"},
			want:    "Closed",
		},
		{
			name:    "open before deadline",
			listing: ListingSnapshot{Status: ListingStatusOpen, Type: "bounty", IsPublished: true, Deadline: &future, Rewards: rewards},
			want:    "In Progress",
		},
		{
			name:    "deadline passed, winners not announced",
			listing: ListingSnapshot{Status: ListingStatusOpen, Type: "bounty", IsPublished: true, Deadline: &past, Rewards: rewards},
			want:    "In Review",
		},
		{
			name: "winners announced, foundation paying",
			listing: ListingSnapshot{Status: ListingStatusOpen, Type: "bounty", IsPublished: true, Deadline: &past,
				Rewards: rewards, IsWinnersAnnounced: true, TotalPaymentsMade: 1, IsFndnPaying: true},
			want: "Fndn to Pay",
		},
		{
			name: "winners announced, payments outstanding",
			listing: ListingSnapshot{Status: ListingStatusOpen, Type: "bounty", IsPublished: true, Deadline: &past,
				Rewards: rewards, IsWinnersAnnounced: true, TotalPaymentsMade: 1},
			want: "Payment Pending",
		},
		{
			name: "all winners paid",
			listing: ListingSnapshot{Status: ListingStatusOpen, Type: "bounty", IsPublished: true, Deadline: &past,
				Rewards: rewards, IsWinnersAnnounced: true, TotalPaymentsMade: 2},
			want: "Completed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ListingDisplayStatus(tc.listing, now); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
