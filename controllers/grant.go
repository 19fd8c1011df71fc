package controllers

import (
	"net/http"
	"time"

	"grants-marketplace-api/config"
	"grants-marketplace-api/models"
	"grants-marketplace-api/services"

	"github.com/gin-gonic/gin"
)

type grantView struct {
	models.Grant
	DisplayStatus string `json:"display_status"`
}

func newGrantView(grant models.Grant, now time.Time) grantView {
	return grantView{
		Grant: grant,
		DisplayStatus: services.ListingDisplayStatus(services.ListingSnapshot{
			Status:      grant.Status,
			Type:        "grant",
			IsPublished: grant.IsPublished,
			PublishedAt: grant.PublishedAt,
		}, now),
	}
}

// GetGrants returns all open grants
func GetGrants(c *gin.Context) {
	var grants []models.Grant
	query := config.DB.Preload("Sponsor").Where("delete_at IS NULL")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("create_at DESC").Find(&grants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch grants"})
		return
	}

	now := time.Now()
	views := make([]grantView, 0, len(grants))
	for _, grant := range grants {
		views = append(views, newGrantView(grant, now))
	}

	c.JSON(http.StatusOK, gin.H{
		"grants": views,
		"total":  len(views),
	})
}

// GetGrant returns a single grant by slug
func GetGrant(c *gin.Context) {
	slug := c.Param("slug")

	var grant models.Grant
	if err := config.DB.Preload("Sponsor").
		Where("slug = ? AND delete_at IS NULL", slug).
		First(&grant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grant not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"grant": newGrantView(grant, time.Now()),
	})
}
