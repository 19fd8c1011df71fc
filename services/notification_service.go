package services

import (
	"fmt"

	"grants-marketplace-api/config"
	"grants-marketplace-api/models"
	"grants-marketplace-api/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Notification types recorded for tranche decisions.
const (
	NotificationTrancheApproved = "trancheApproved"
	NotificationTrancheRejected = "trancheRejected"
)

// NotificationService records tranche decision notifications and emails the
// applicant. Delivery is best-effort; the email leaves on a goroutine so the
// caller never waits on SMTP.
type NotificationService struct {
	db  *gorm.DB
	log *logrus.Entry
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB) *NotificationService {
	if db == nil {
		db = config.DB
	}
	return &NotificationService{
		db:  db,
		log: logrus.WithField("service", "notification"),
	}
}

// TrancheApproved notifies the applicant that a tranche was approved.
func (s *NotificationService) TrancheApproved(trancheID string, triggeredBy int) error {
	return s.dispatch(NotificationTrancheApproved, trancheID, triggeredBy)
}

// TrancheRejected notifies the applicant that a tranche was rejected.
func (s *NotificationService) TrancheRejected(trancheID string, triggeredBy int) error {
	return s.dispatch(NotificationTrancheRejected, trancheID, triggeredBy)
}

func (s *NotificationService) dispatch(notificationType, trancheID string, triggeredBy int) error {
	var tranche models.GrantTranche
	if err := s.db.
		Preload("Application").
		Preload("Application.Grant").
		Preload("Application.User").
		Where("id = ?", trancheID).
		First(&tranche).Error; err != nil {
		return fmt.Errorf("load tranche %s for notification: %w", trancheID, err)
	}

	application := tranche.Application
	title, message := notificationContent(notificationType, &tranche, &application)

	notification := models.Notification{
		UserID:           application.UserID,
		Title:            title,
		Message:          message,
		Type:             notificationTypeLabel(notificationType),
		RelatedTrancheID: &tranche.ID,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("create notification for tranche %s: %w", trancheID, err)
	}

	recipient := application.User.Email
	if !utils.ValidateEmail(recipient) {
		s.log.WithField("tranche_id", trancheID).Warn("skipping notification email, applicant has no valid address")
		return nil
	}
	go func() {
		html := fmt.Sprintf("<p>%s</p>", message)
		if err := config.SendMail([]string{recipient}, title, html); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"type":         notificationType,
				"tranche_id":   trancheID,
				"triggered_by": triggeredBy,
			}).Error("failed to send notification email")
		}
	}()

	return nil
}

func notificationContent(notificationType string, tranche *models.GrantTranche, application *models.GrantApplication) (string, string) {
	grantTitle := application.Grant.Title
	switch notificationType {
	case NotificationTrancheApproved:
		amount := tranche.Ask
		if tranche.ApprovedAmount != nil {
			amount = *tranche.ApprovedAmount
		}
		return "Tranche approved",
			fmt.Sprintf("Tranche %d of your grant %q was approved for %.0f %s.",
				tranche.TrancheNumber, grantTitle, amount, application.Grant.Token)
	case NotificationTrancheRejected:
		return "Tranche rejected",
			fmt.Sprintf("Tranche %d of your grant %q was rejected.",
				tranche.TrancheNumber, grantTitle)
	}
	return "Grant update", fmt.Sprintf("Your grant %q has an update.", grantTitle)
}

func notificationTypeLabel(notificationType string) string {
	if notificationType == NotificationTrancheApproved {
		return "success"
	}
	return "warning"
}
