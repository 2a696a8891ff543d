package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB) {
	router.GET("/api/fleet", handleFleet(db))
	router.GET("/api/inspections", handleInspections(db))
	router.GET("/api/inspections/counts", handleInspectionCounts(db))
	router.GET("/api/workorders", handleWorkOrders(db))
	router.GET("/healthz", handleHealth)
}

func handleFleet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := FleetSummary(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"vehicles": rows})
	}
}

func handleInspections(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		rows, err := RecentInspections(db, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"inspections": rows})
	}
}

func handleInspectionCounts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := InspectionCounts(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, counts)
	}
}

func handleWorkOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := OpenWorkOrders(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"work_orders": rows})
	}
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
