package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sheelhammi/sheelhammi-api/config"
	"github.com/sheelhammi/sheelhammi-api/services"
)

// GetAdminStats handles GET /api/v1/admin/stats?period=&date= (admin only).
// Period is day|month|year|custom, defaulting to month; date is only read
// when period is custom.
func GetAdminStats(c *gin.Context) {
	period := c.DefaultQuery("period", services.PeriodMonth)
	date := c.Query("date")

	stats, err := services.GetStats(config.GetDB(), period, date, time.Now())
	if err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
