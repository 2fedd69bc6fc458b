package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/bharosahq/trust-network/internal/application"
	"github.com/bharosahq/trust-network/internal/domain/repository"
	"github.com/bharosahq/trust-network/pkg/helpers"
	"github.com/bharosahq/trust-network/pkg/response"
	"github.com/bharosahq/trust-network/pkg/validation"
)

type RatingHandler struct {
	Svc    *app.ReputationService
	Logger *logrus.Logger
}

func NewRatingHandler(svc *app.ReputationService, logger *logrus.Logger) *RatingHandler {
	return &RatingHandler{Svc: svc, Logger: logger}
}

type submitRatingRequest struct {
	MerchantID string `json:"merchant_id" binding:"required"`
	Value      int    `json:"value" binding:"required,rating"`
	Comment    string `json:"comment" binding:"max=500"`
	Location   string `json:"location"`
}

// Submit records or revises the caller's audit of a merchant.
func (h *RatingHandler) Submit(c *gin.Context) {
	var req submitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	raterID := c.GetString("subjectID")
	m, err := h.Svc.SubmitRating(raterID, req.MerchantID, req.Value, req.Comment, req.Location)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Error(c, http.StatusNotFound, "merchant not found", nil)
		case errors.Is(err, app.ErrInvalidRating):
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			helpers.LogError(h.Logger, "submit rating", err, logrus.Fields{"merchant_id": req.MerchantID})
			response.Error(c, http.StatusInternalServerError, "something went wrong", nil)
		}
		return
	}

	response.Success[any](c, http.StatusOK, gin.H{
		"merchant_id": m.MerchantID,
		"trust_score": m.TrustScore,
	}, "rating recorded", nil)
}

// MerchantRatings lists a merchant's received audits.
func (h *RatingHandler) MerchantRatings(c *gin.Context) {
	ratings, err := h.Svc.MerchantRatings(c.Param("merchantID"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusOK, ratings, "ratings", map[string]any{"count": len(ratings)})
}

// History lists the caller's own audits.
func (h *RatingHandler) History(c *gin.Context) {
	ratings, err := h.Svc.RaterHistory(c.GetString("subjectID"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusOK, ratings, "rating history", map[string]any{"count": len(ratings)})
}
