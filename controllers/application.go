package controllers

import (
	"errors"
	"net/http"

	"grants-marketplace-api/config"
	"grants-marketplace-api/middleware"
	"grants-marketplace-api/models"
	"grants-marketplace-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetApplications returns the caller's grant applications
func GetApplications(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var applications []models.GrantApplication
	query := config.DB.Preload("Grant").
		Preload("Tranches", func(db *gorm.DB) *gorm.DB {
			return db.Order("tranche_number ASC")
		}).
		Where("grant_applications.delete_at IS NULL")

	// Filter by user if not admin
	if roleID.(int) != middleware.RoleAdmin {
		query = query.Where("user_id = ?", userID)
	}

	// Apply filters from query params
	if status := c.Query("status"); status != "" {
		query = query.Where("application_status = ?", status)
	}

	if grantID := c.Query("grant_id"); grantID != "" {
		query = query.Where("grant_id = ?", grantID)
	}

	if err := query.Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"total":        len(applications),
	})
}

// GetApplication returns a single application with its tranches and the
// display state derived from the current snapshot. The state is recomputed on
// every fetch; it is never stored.
func GetApplication(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var application models.GrantApplication
	query := config.DB.Preload("Grant").Preload("User").
		Preload("Tranches", func(db *gorm.DB) *gorm.DB {
			return db.Order("tranche_number ASC")
		}).
		Where("id = ? AND grant_applications.delete_at IS NULL", id)

	// Check permission if not admin
	if roleID.(int) != middleware.RoleAdmin {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch application"})
		return
	}

	state := services.ProjectApplicationState(services.ApplicationSnapshot{
		ApplicationStatus: application.ApplicationStatus,
		GrantIsNative:     application.Grant.IsNative,
		GrantAirtableID:   application.Grant.AirtableID,
		UserIsKYCVerified: application.User.IsKYCVerified,
		Tranches:          application.Tranches,
	})

	c.JSON(http.StatusOK, gin.H{
		"application": application,
		"state":       state,
		"button":      services.StateButtonConfig(state, application.TotalTranches),
	})
}
