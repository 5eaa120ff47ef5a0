package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"arcade-rewards-backend/internal/services"
)

// AdminHandler serves the offline review surface over the anomaly log. None
// of this feeds back into the accept/reject decision.
type AdminHandler struct {
	redisService *services.RedisService
}

func NewAdminHandler(redisService *services.RedisService) *AdminHandler {
	return &AdminHandler{redisService: redisService}
}

func (h *AdminHandler) GetRecentAnomalies(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	records, err := h.redisService.RecentAnomalies(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load anomalies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"anomalies": records})
}

func (h *AdminHandler) GetWalletAnomalies(c *gin.Context) {
	wallet := c.Param("wallet")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	records, err := h.redisService.WalletAnomalies(c.Request.Context(), wallet, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load anomalies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet, "anomalies": records})
}

// GetFlaggedWallets lists wallets with repeated incidents in a trailing
// window, default ≥3 in 7 days.
func (h *AdminHandler) GetFlaggedWallets(c *gin.Context) {
	window, err := time.ParseDuration(c.DefaultQuery("window", "168h"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window"})
		return
	}

	min, err := strconv.ParseInt(c.DefaultQuery("min", "3"), 10, 64)
	if err != nil || min < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min"})
		return
	}

	flagged, err := h.redisService.FlaggedWallets(c.Request.Context(), window, min)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load flagged wallets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"window":  window.String(),
		"min":     min,
		"wallets": flagged,
	})
}
