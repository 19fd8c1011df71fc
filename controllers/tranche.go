package controllers

import (
	"errors"
	"net/http"

	"grants-marketplace-api/config"
	"grants-marketplace-api/middleware"
	"grants-marketplace-api/models"
	"grants-marketplace-api/services"
	"grants-marketplace-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func newTrancheService() *services.TrancheService {
	return services.NewTrancheService(nil,
		services.NewAirtableService(nil),
		services.NewNotificationService(nil))
}

// RequestTranche creates the next tranche of the caller's application.
func RequestTranche(c *gin.Context) {
	applicationID := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	type TrancheRequest struct {
		IsFirstTranche bool    `json:"is_first_tranche"`
		HelpWanted     *string `json:"help_wanted"`
		Update         *string `json:"update"`
	}

	var req TrancheRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Applicants can only draw tranches on their own applications
	if roleID.(int) != middleware.RoleAdmin {
		var application models.GrantApplication
		if err := config.DB.Select("id").
			Where("id = ? AND user_id = ? AND delete_at IS NULL", applicationID, userID).
			First(&application).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
	}

	if req.HelpWanted != nil {
		cleaned := utils.SanitizeInput(*req.HelpWanted)
		req.HelpWanted = &cleaned
	}
	if req.Update != nil {
		cleaned := utils.SanitizeInput(*req.Update)
		req.Update = &cleaned
	}

	tranche, err := newTrancheService().RequestTranche(c.Request.Context(), &services.RequestTrancheInput{
		ApplicationID:  applicationID,
		IsFirstTranche: req.IsFirstTranche,
		HelpWanted:     req.HelpWanted,
		UpdateNote:     req.Update,
	})
	if err != nil {
		respondTrancheError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tranche created successfully",
		"tranche": tranche,
	})
}

// DecideTranche approves or rejects a pending tranche (sponsor only).
func DecideTranche(c *gin.Context) {
	trancheID := c.Param("id")
	userID, _ := c.Get("userID")

	type DecisionRequest struct {
		Status         string   `json:"status" binding:"required,oneof=Approved Rejected"`
		ApprovedAmount *float64 `json:"approved_amount" binding:"omitempty,gte=0"`
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := checkGrantSponsorAuth(c, trancheID); err != nil {
		return
	}

	tranche, err := newTrancheService().DecideTranche(c.Request.Context(), &services.DecideTrancheInput{
		TrancheID:      trancheID,
		Status:         req.Status,
		ApprovedAmount: req.ApprovedAmount,
		TriggeredBy:    userID.(int),
	})
	if err != nil {
		respondTrancheError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tranche updated successfully",
		"tranche": tranche,
	})
}

// GetGrantTranches lists the tranches of a grant for its sponsor.
func GetGrantTranches(c *gin.Context) {
	grantID := c.Param("id")
	roleID, _ := c.Get("roleID")

	var grant models.Grant
	if err := config.DB.Where("id = ? AND delete_at IS NULL", grantID).First(&grant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grant not found"})
		return
	}

	if roleID.(int) != middleware.RoleAdmin {
		sponsorID, _ := c.Get("sponsorID")
		if sponsorID != grant.SponsorID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Grant belongs to another sponsor"})
			return
		}
	}

	var tranches []models.GrantTranche
	if err := config.DB.Preload("Application").Preload("Application.User").
		Where("grant_id = ?", grantID).
		Order("create_at DESC").
		Find(&tranches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tranches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tranches": tranches,
		"total":    len(tranches),
	})
}

// checkGrantSponsorAuth verifies the caller's sponsor owns the grant the
// tranche belongs to. It writes the error response itself.
func checkGrantSponsorAuth(c *gin.Context, trancheID string) error {
	roleID, _ := c.Get("roleID")
	if roleID.(int) == middleware.RoleAdmin {
		return nil
	}

	var tranche models.GrantTranche
	if err := config.DB.Select("id", "grant_id").
		Where("id = ?", trancheID).
		First(&tranche).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tranche not found"})
		return err
	}

	var grant models.Grant
	if err := config.DB.Select("id", "sponsor_id").
		Where("id = ?", tranche.GrantID).
		First(&grant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grant not found"})
		return err
	}

	sponsorID, _ := c.Get("sponsorID")
	if sponsorID != grant.SponsorID {
		err := errors.New("grant belongs to another sponsor")
		c.JSON(http.StatusForbidden, gin.H{"error": "Grant belongs to another sponsor"})
		return err
	}

	return nil
}

// respondTrancheError maps lifecycle errors to HTTP responses without leaking
// raw persistence errors.
func respondTrancheError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrTrancheLimitExceeded),
		errors.Is(err, services.ErrInvalidFirstTrancheRequest),
		errors.Is(err, services.ErrNoPriorTranche),
		errors.Is(err, services.ErrPriorTranchePending),
		errors.Is(err, services.ErrAmountExceedsRemaining),
		errors.Is(err, services.ErrApprovedAmountOverflow),
		errors.Is(err, services.ErrTrancheAlreadyDecided):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tranche"})
	}
}
