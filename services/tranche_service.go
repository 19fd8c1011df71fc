package services

import (
	"context"
	"fmt"
	"time"

	"grants-marketplace-api/config"
	"grants-marketplace-api/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentLedger mirrors payment records for approved tranches into the
// external ledger. It returns the opaque id of the created record.
type PaymentLedger interface {
	AddPaymentInfo(ctx context.Context, application *models.GrantApplication, user *models.User, grant *models.Grant, tranche *models.GrantTranche) (string, error)
}

// NotificationDispatcher delivers tranche decision notifications to the
// applicant. Implementations are best-effort; a returned error is logged by
// the caller and never fails the decision.
type NotificationDispatcher interface {
	TrancheApproved(trancheID string, triggeredBy int) error
	TrancheRejected(trancheID string, triggeredBy int) error
}

// TrancheService drives the tranche disbursement lifecycle: requesting a new
// tranche for an application and deciding a pending one. Both operations run
// their read-validate-write sequence inside one transaction with the
// application row locked, so two concurrent requests cannot both pass the
// eligibility checks.
type TrancheService struct {
	db       *gorm.DB
	ledger   PaymentLedger
	notifier NotificationDispatcher
	log      *logrus.Entry
}

// NewTrancheService constructs a TrancheService.
func NewTrancheService(db *gorm.DB, ledger PaymentLedger, notifier NotificationDispatcher) *TrancheService {
	if db == nil {
		db = config.DB
	}
	return &TrancheService{
		db:       db,
		ledger:   ledger,
		notifier: notifier,
		log:      logrus.WithField("service", "tranche"),
	}
}

// RequestTrancheInput carries a grantee's request for the next installment.
type RequestTrancheInput struct {
	ApplicationID  string
	IsFirstTranche bool
	HelpWanted     *string
	UpdateNote     *string
}

// RequestTranche validates and creates the next tranche of an application.
//
// The first tranche is auto-approved and its payment record is pushed to the
// external ledger before the transaction commits; a ledger failure aborts the
// whole request so the tranche row and the ledger entry stay consistent.
// Later tranches enter Pending and wait for a sponsor decision.
func (s *TrancheService) RequestTranche(ctx context.Context, in *RequestTrancheInput) (*models.GrantTranche, error) {
	if in == nil || in.ApplicationID == "" {
		return nil, fmt.Errorf("application id is required")
	}

	var tranche *models.GrantTranche
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var application models.GrantApplication
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", in.ApplicationID).
			First(&application).Error; err != nil {
			return fmt.Errorf("grant application %s: %w", in.ApplicationID, err)
		}

		var history []models.GrantTranche
		if err := tx.Where("application_id = ?", application.ID).
			Order("tranche_number ASC").
			Find(&history).Error; err != nil {
			return fmt.Errorf("tranche history for application %s: %w", application.ID, err)
		}

		existing, err := CheckTrancheEligibility(history, in.IsFirstTranche)
		if err != nil {
			return fmt.Errorf("application %s: %w", application.ID, err)
		}

		amount := TrancheAmount(application.TotalTranches, application.ApprovedAmount, application.TotalPaid, existing, in.IsFirstTranche)
		if amount > application.RemainingAmount() {
			return fmt.Errorf("application %s: tranche %d for %.0f with %.0f remaining: %w",
				application.ID, existing+1, amount, application.RemainingAmount(), ErrAmountExceedsRemaining)
		}

		now := time.Now()
		tranche = &models.GrantTranche{
			ID:            uuid.NewString(),
			ApplicationID: application.ID,
			GrantID:       application.GrantID,
			TrancheNumber: existing + 1,
			Status:        models.TrancheStatusPending,
			Ask:           amount,
			HelpWanted:    in.HelpWanted,
			UpdateNote:    in.UpdateNote,
			CreateAt:      now,
		}
		if in.IsFirstTranche {
			tranche.Status = models.TrancheStatusApproved
			tranche.ApprovedAmount = &amount
			tranche.DecidedAt = &now
		}

		if err := tx.Create(tranche).Error; err != nil {
			return fmt.Errorf("create tranche for application %s: %w", application.ID, err)
		}

		if in.IsFirstTranche {
			grant, user, err := s.loadLedgerParties(tx, &application)
			if err != nil {
				return err
			}
			if _, err := s.ledger.AddPaymentInfo(ctx, &application, user, grant, tranche); err != nil {
				return fmt.Errorf("payment ledger sync for tranche %s: %w", tranche.ID, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"application_id": tranche.ApplicationID,
		"tranche_id":     tranche.ID,
		"tranche_number": tranche.TrancheNumber,
		"status":         tranche.Status,
		"ask":            tranche.Ask,
	}).Info("tranche created")

	return tranche, nil
}

// DecideTrancheInput carries a sponsor's decision on a pending tranche.
type DecideTrancheInput struct {
	TrancheID      string
	Status         string // models.TrancheStatusApproved or models.TrancheStatusRejected
	ApprovedAmount *float64
	TriggeredBy    int
}

// DecideTranche transitions a pending tranche to Approved or Rejected.
//
// Approval checks that the cumulative approved amount stays within the
// application's approved amount, and extends the installment plan by one when
// this approval consumes the planned schedule while leaving funds unpaid.
// The ledger push and the applicant notification happen after the decision
// commits and are best-effort: the tranche state is the source of truth.
func (s *TrancheService) DecideTranche(ctx context.Context, in *DecideTrancheInput) (*models.GrantTranche, error) {
	if in == nil || in.TrancheID == "" {
		return nil, fmt.Errorf("tranche id is required")
	}
	if in.Status != models.TrancheStatusApproved && in.Status != models.TrancheStatusRejected {
		return nil, fmt.Errorf("invalid decision status %q", in.Status)
	}
	if in.Status == models.TrancheStatusApproved && in.ApprovedAmount == nil {
		return nil, fmt.Errorf("approved amount is required to approve a tranche")
	}

	var (
		tranche     models.GrantTranche
		application models.GrantApplication
		grant       *models.Grant
		user        *models.User
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", in.TrancheID).
			First(&tranche).Error; err != nil {
			return fmt.Errorf("grant tranche %s: %w", in.TrancheID, err)
		}
		if tranche.Status != models.TrancheStatusPending {
			return fmt.Errorf("tranche %s is %s: %w", tranche.ID, tranche.Status, ErrTrancheAlreadyDecided)
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", tranche.ApplicationID).
			First(&application).Error; err != nil {
			return fmt.Errorf("grant application %s: %w", tranche.ApplicationID, err)
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":     in.Status,
			"decided_at": now,
		}

		if in.Status == models.TrancheStatusApproved {
			var sanctioned []models.GrantTranche
			if err := tx.Where("application_id = ? AND id <> ? AND status IN ?",
				application.ID, tranche.ID,
				[]string{models.TrancheStatusApproved, models.TrancheStatusPaid}).
				Find(&sanctioned).Error; err != nil {
				return fmt.Errorf("sanctioned tranches for application %s: %w", application.ID, err)
			}

			approvedSoFar := 0.0
			for _, t := range sanctioned {
				if t.ApprovedAmount != nil {
					approvedSoFar += *t.ApprovedAmount
				}
			}
			if approvedSoFar+*in.ApprovedAmount > application.ApprovedAmount {
				return fmt.Errorf("application %s: %.0f already sanctioned, approving %.0f against %.0f total: %w",
					application.ID, approvedSoFar, *in.ApprovedAmount, application.ApprovedAmount, ErrApprovedAmountOverflow)
			}

			var existingNonRejected int64
			if err := tx.Model(&models.GrantTranche{}).
				Where("application_id = ? AND status <> ?", application.ID, models.TrancheStatusRejected).
				Count(&existingNonRejected).Error; err != nil {
				return fmt.Errorf("count tranches for application %s: %w", application.ID, err)
			}

			// The schedule grows instead of silently losing the shortfall when
			// the last planned tranche is approved for less than what is owed.
			if application.TotalTranches == int(existingNonRejected) &&
				application.TotalPaid+*in.ApprovedAmount < application.ApprovedAmount {
				application.TotalTranches++
				if err := tx.Model(&models.GrantApplication{}).
					Where("id = ?", application.ID).
					Update("total_tranches", application.TotalTranches).Error; err != nil {
					return fmt.Errorf("extend tranche plan for application %s: %w", application.ID, err)
				}
			}

			updates["approved_amount"] = *in.ApprovedAmount
			tranche.ApprovedAmount = in.ApprovedAmount
		}

		if err := tx.Model(&tranche).Updates(updates).Error; err != nil {
			return fmt.Errorf("update tranche %s: %w", tranche.ID, err)
		}
		tranche.Status = in.Status
		tranche.DecidedAt = &now

		if in.Status == models.TrancheStatusApproved {
			var err error
			grant, user, err = s.loadLedgerParties(tx, &application)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"application_id": tranche.ApplicationID,
		"tranche_id":     tranche.ID,
		"tranche_number": tranche.TrancheNumber,
		"status":         tranche.Status,
	}).Info("tranche decided")

	// The decision is committed; ledger and notification failures must not
	// undo it.
	switch tranche.Status {
	case models.TrancheStatusApproved:
		if _, err := s.ledger.AddPaymentInfo(ctx, &application, user, grant, &tranche); err != nil {
			s.log.WithError(err).WithField("tranche_id", tranche.ID).
				Error("failed to add payment info to ledger")
		}
		if err := s.notifier.TrancheApproved(tranche.ID, in.TriggeredBy); err != nil {
			s.log.WithError(err).WithField("tranche_id", tranche.ID).
				Error("failed to send tranche approved notification")
		}
	case models.TrancheStatusRejected:
		if err := s.notifier.TrancheRejected(tranche.ID, in.TriggeredBy); err != nil {
			s.log.WithError(err).WithField("tranche_id", tranche.ID).
				Error("failed to send tranche rejected notification")
		}
	}

	return &tranche, nil
}

// loadLedgerParties fetches the grant and applicant needed to build a ledger
// payment record.
func (s *TrancheService) loadLedgerParties(tx *gorm.DB, application *models.GrantApplication) (*models.Grant, *models.User, error) {
	var grant models.Grant
	if err := tx.Where("id = ?", application.GrantID).First(&grant).Error; err != nil {
		return nil, nil, fmt.Errorf("grant %s: %w", application.GrantID, err)
	}
	var user models.User
	if err := tx.Where("user_id = ?", application.UserID).First(&user).Error; err != nil {
		return nil, nil, fmt.Errorf("user %d: %w", application.UserID, err)
	}
	return &grant, &user, nil
}
