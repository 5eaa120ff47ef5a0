package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"arcade-rewards-backend/internal/models"
	"arcade-rewards-backend/internal/services"
)

type SessionHandler struct {
	tokens  *services.TokenManager
	gateway *services.IntegrityGateway
	limits  *services.LimitRegistry

	allowUnknown bool
}

func NewSessionHandler(tokens *services.TokenManager, gateway *services.IntegrityGateway, limits *services.LimitRegistry, allowUnknown bool) *SessionHandler {
	return &SessionHandler{
		tokens:       tokens,
		gateway:      gateway,
		limits:       limits,
		allowUnknown: allowUnknown,
	}
}

// CreateSession issues the single-use token a client needs before it may
// submit the session's result.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	wallet := c.GetString("wallet")

	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if _, known := h.limits.Profile(req.GameType); !known && !h.allowUnknown {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown game type",
			"code":  models.ReasonUnknownGameType,
		})
		return
	}

	token, err := h.tokens.Create(c.Request.Context(), wallet, req.GameType)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, models.CreateSessionResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
}

// SubmitResult runs a self-reported result through the integrity gateway.
func (h *SessionHandler) SubmitResult(c *gin.Context) {
	wallet := c.GetString("wallet")

	var req models.SubmitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	meta := services.RequestMeta{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	decision, err := h.gateway.Submit(c.Request.Context(), req.Token, req.Submission(wallet), meta)
	if err != nil {
		if errors.Is(err, services.ErrServiceUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Submission could not be verified, try again"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process submission"})
		return
	}

	if decision.Accepted {
		c.JSON(http.StatusOK, gin.H{
			"accepted": true,
			"warnings": decision.Warnings,
		})
		return
	}

	c.JSON(rejectionStatus(decision), gin.H{
		"accepted": false,
		"stage":    decision.Stage,
		"errors":   decision.Errors,
	})
}

func rejectionStatus(decision *services.Decision) int {
	switch decision.Stage {
	case services.StageRate:
		return http.StatusTooManyRequests
	case services.StageValidation:
		return http.StatusUnprocessableEntity
	case services.StageToken:
		if len(decision.Errors) > 0 {
			switch decision.Errors[0].Code {
			case models.ReasonTokenAlreadyUsed:
				return http.StatusConflict
			case models.ReasonTokenExpired:
				return http.StatusGone
			}
		}
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
