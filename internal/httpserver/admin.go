package httpserver

import (
	"net/http"

	"storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

func updateOrderStatusHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidation(c, err)
			return
		}
		ord, err := orders.Progress(c.Request.Context(), c.Param("orderID"), domain.OrderStatus(in.Status))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": ord})
	}
}

func setTrackingHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			TrackingNumber string `json:"trackingNumber"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidation(c, err)
			return
		}
		if err := orders.SetTracking(c.Request.Context(), c.Param("orderID"), in.TrackingNumber); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": true})
	}
}

func getMaintenanceHandler(settings settingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		enabled, err := settings.MaintenanceMode(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"maintenance": enabled})
	}
}

func setMaintenanceHandler(settings settingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Maintenance *bool `json:"maintenance"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidation(c, err)
			return
		}
		if in.Maintenance == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "maintenance required"})
			return
		}
		if err := settings.SetMaintenanceMode(c.Request.Context(), *in.Maintenance); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"maintenance": *in.Maintenance})
	}
}
