package services

import (
	"fmt"
	"strings"

	"grants-marketplace-api/models"
)

// ApplicationState is the display state of a grant application, summarizing
// where it sits in the approval and disbursement pipeline. It is derived on
// every read and never stored.
type ApplicationState string

const (
	StateNone        ApplicationState = ""
	StateApplied     ApplicationState = "APPLIED"
	StateAllowEdit   ApplicationState = "ALLOW_EDIT"
	StateKYCPending  ApplicationState = "KYC_PENDING"
	StateKYCApproved ApplicationState = "KYC_APPROVED"
)

// TrancheState builds the per-installment display states TRANCHE{n}_PENDING,
// TRANCHE{n}_APPROVED and TRANCHE{n}_PAID.
func TrancheState(n int, trancheStatus string) ApplicationState {
	return ApplicationState(fmt.Sprintf("TRANCHE%d_%s", n, strings.ToUpper(trancheStatus)))
}

// ApplicationSnapshot is the read-side view the state projection works on.
// Tranches must be ordered by tranche number.
type ApplicationSnapshot struct {
	ApplicationStatus string
	GrantIsNative     bool
	GrantAirtableID   *string
	UserIsKYCVerified bool
	Tranches          []models.GrantTranche
}

// ProjectApplicationState derives the display state of an application. It is
// a pure function of the snapshot and must be re-evaluated on every fetch.
//
// A Pending application on a native grant assigns ALLOW_EDIT and then
// unconditionally overwrites it with APPLIED; that matches the shipped
// behavior, where the later assignment always won.
func ProjectApplicationState(snap ApplicationSnapshot) ApplicationState {
	switch snap.ApplicationStatus {
	case models.ApplicationStatusPending:
		state := StateNone
		if snap.GrantIsNative {
			state = StateAllowEdit
		}
		state = StateApplied
		return state

	case models.ApplicationStatusApproved:
		tracked := snap.GrantIsNative && snap.GrantAirtableID != nil && *snap.GrantAirtableID != ""
		if !tracked {
			return StateApplied
		}
		if !snap.UserIsKYCVerified {
			return StateKYCPending
		}

		valid := make([]models.GrantTranche, 0, len(snap.Tranches))
		for _, t := range snap.Tranches {
			if t.Status != models.TrancheStatusRejected {
				valid = append(valid, t)
			}
		}
		k := len(valid)
		if k == 0 {
			return StateKYCApproved
		}
		if k > MaxTranchesPerApplication {
			return StateNone
		}
		switch valid[k-1].Status {
		case models.TrancheStatusPending, models.TrancheStatusApproved, models.TrancheStatusPaid:
			return TrancheState(k, valid[k-1].Status)
		}
		return StateNone
	}

	return StateNone
}

// ButtonConfig is the UI affordance associated with a display state.
type ButtonConfig struct {
	Text     string `json:"text"`
	Disabled bool   `json:"disabled"`
}

// StateButtonConfig maps a display state to the applicant-facing button.
// totalTranches is the application's current installment plan, which decides
// whether a paid middle tranche offers the next installment or a fresh apply.
func StateButtonConfig(state ApplicationState, totalTranches int) ButtonConfig {
	switch state {
	case StateApplied:
		return ButtonConfig{Text: "Applied Successfully", Disabled: true}
	case StateAllowEdit:
		return ButtonConfig{Text: "Edit Application"}
	case StateKYCPending:
		return ButtonConfig{Text: "Submit KYC"}
	case TrancheState(1, models.TrancheStatusPending),
		TrancheState(2, models.TrancheStatusPending),
		TrancheState(3, models.TrancheStatusPending),
		TrancheState(4, models.TrancheStatusPending):
		return ButtonConfig{Text: "Tranche Requested", Disabled: true}
	case TrancheState(1, models.TrancheStatusApproved),
		TrancheState(2, models.TrancheStatusApproved),
		TrancheState(3, models.TrancheStatusApproved),
		TrancheState(4, models.TrancheStatusApproved):
		return ButtonConfig{Text: "Payment Processing", Disabled: true}
	case TrancheState(1, models.TrancheStatusPaid):
		return ButtonConfig{Text: "Apply for Second Tranche"}
	case TrancheState(2, models.TrancheStatusPaid):
		if totalTranches >= 3 {
			return ButtonConfig{Text: "Apply for Third Tranche"}
		}
		return ButtonConfig{Text: "Apply Now"}
	case TrancheState(3, models.TrancheStatusPaid):
		if totalTranches >= 4 {
			return ButtonConfig{Text: "Apply for Fourth Tranche"}
		}
		return ButtonConfig{Text: "Apply Now"}
	}
	return ButtonConfig{Text: "Apply Now"}
}
