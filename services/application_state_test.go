package services

import (
	"testing"

	"grants-marketplace-api/models"
)

func trackedSnapshot(kycVerified bool, trancheStatuses ...string) ApplicationSnapshot {
	airtableID := "appXYZ"
	return ApplicationSnapshot{
		ApplicationStatus: models.ApplicationStatusApproved,
		GrantIsNative:     true,
		GrantAirtableID:   &airtableID,
		UserIsKYCVerified: kycVerified,
		Tranches:          tranches(trancheStatuses...),
	}
}

func TestProjectApplicationStatePending(t *testing.T) {
	// The shipped derivation set ALLOW_EDIT for native grants and then
	// overwrote it with APPLIED; the projection keeps the winning value.
	native := ApplicationSnapshot{
		ApplicationStatus: models.ApplicationStatusPending,
		GrantIsNative:     true,
	}
	if got := ProjectApplicationState(native); got != StateApplied {
		t.Fatalf("expected APPLIED for pending native application, got %q", got)
	}

	external := ApplicationSnapshot{
		ApplicationStatus: models.ApplicationStatusPending,
	}
	if got := ProjectApplicationState(external); got != StateApplied {
		t.Fatalf("expected APPLIED for pending application, got %q", got)
	}
}

func TestProjectApplicationStateUntrackedGrant(t *testing.T) {
	snap := ApplicationSnapshot{
		ApplicationStatus: models.ApplicationStatusApproved,
		GrantIsNative:     true, // native but never synced to the ledger
		UserIsKYCVerified: true,
	}
	if got := ProjectApplicationState(snap); got != StateApplied {
		t.Fatalf("expected APPLIED for untracked grant, got %q", got)
	}
}

func TestProjectApplicationStateKYCGate(t *testing.T) {
	if got := ProjectApplicationState(trackedSnapshot(false)); got != StateKYCPending {
		t.Fatalf("expected KYC_PENDING, got %q", got)
	}
	if got := ProjectApplicationState(trackedSnapshot(true)); got != StateKYCApproved {
		t.Fatalf("expected KYC_APPROVED, got %q", got)
	}
}

func TestProjectApplicationStateTrancheProgression(t *testing.T) {
	cases := []struct {
		name     string
		statuses []string
		want     ApplicationState
	}{
		{"first pending", []string{models.TrancheStatusPending}, "TRANCHE1_PENDING"},
		{"first approved", []string{models.TrancheStatusApproved}, "TRANCHE1_APPROVED"},
		{"first paid", []string{models.TrancheStatusPaid}, "TRANCHE1_PAID"},
		{"second pending", []string{models.TrancheStatusPaid, models.TrancheStatusPending}, "TRANCHE2_PENDING"},
		{"third paid", []string{models.TrancheStatusPaid, models.TrancheStatusPaid, models.TrancheStatusPaid}, "TRANCHE3_PAID"},
		{"fourth approved", []string{models.TrancheStatusPaid, models.TrancheStatusPaid, models.TrancheStatusPaid, models.TrancheStatusApproved}, "TRANCHE4_APPROVED"},
		{"rejected tranche is skipped", []string{models.TrancheStatusRejected, models.TrancheStatusPending}, "TRANCHE1_PENDING"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ProjectApplicationState(trackedSnapshot(true, tc.statuses...))
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestProjectApplicationStateTerminalStatuses(t *testing.T) {
	for _, status := range []string{models.ApplicationStatusRejected, models.ApplicationStatusCompleted} {
		snap := ApplicationSnapshot{ApplicationStatus: status}
		if got := ProjectApplicationState(snap); got != StateNone {
			t.Fatalf("expected no state for %s application, got %q", status, got)
		}
	}
}

func TestProjectApplicationStateIsPure(t *testing.T) {
	snap := trackedSnapshot(true, models.TrancheStatusPaid, models.TrancheStatusPending)
	first := ProjectApplicationState(snap)
	second := ProjectApplicationState(snap)
	if first != second {
		t.Fatalf("projection is not idempotent: %q vs %q", first, second)
	}
}

func TestStateButtonConfig(t *testing.T) {
	cases := []struct {
		state         ApplicationState
		totalTranches int
		wantText      string
		wantDisabled  bool
	}{
		{StateApplied, 2, "Applied Successfully", true},
		{StateAllowEdit, 2, "Edit Application", false},
		{StateKYCPending, 2, "Submit KYC", false},
		{TrancheState(1, models.TrancheStatusPending), 2, "Tranche Requested", true},
		{TrancheState(2, models.TrancheStatusApproved), 3, "Payment Processing", true},
		{TrancheState(1, models.TrancheStatusPaid), 2, "Apply for Second Tranche", false},
		{TrancheState(2, models.TrancheStatusPaid), 3, "Apply for Third Tranche", false},
		{TrancheState(2, models.TrancheStatusPaid), 2, "Apply Now", false},
		{TrancheState(3, models.TrancheStatusPaid), 4, "Apply for Fourth Tranche", false},
		{StateNone, 2, "Apply Now", false},
	}

	for _, tc := range cases {
		got := StateButtonConfig(tc.state, tc.totalTranches)
		if got.Text != tc.wantText || got.Disabled != tc.wantDisabled {
			t.Fatalf("state %q: expected {%q %v}, got {%q %v}",
				tc.state, tc.wantText, tc.wantDisabled, got.Text, got.Disabled)
		}
	}
}
