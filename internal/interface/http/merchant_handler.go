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

type MerchantHandler struct {
	Directory *app.DirectoryService
	Loans     *app.LoanService
	Logger    *logrus.Logger
}

func NewMerchantHandler(directory *app.DirectoryService, loans *app.LoanService, logger *logrus.Logger) *MerchantHandler {
	return &MerchantHandler{Directory: directory, Loans: loans, Logger: logger}
}

// Search resolves a directory query to merchant standings.
func (h *MerchantHandler) Search(c *gin.Context) {
	q := c.Query("q")
	hits, err := h.Directory.Search(c.Request.Context(), q)
	if err != nil {
		helpers.LogError(h.Logger, "directory search", err, logrus.Fields{"query": q})
		response.Error(c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

// Standing shows one merchant's public directory entry.
func (h *MerchantHandler) Standing(c *gin.Context) {
	st, err := h.Directory.Standing(c.Param("merchantID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "merchant not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusOK, st, "merchant standing", nil)
}

// Report returns the narrative advisory paragraph. Always printable copy.
func (h *MerchantHandler) Report(c *gin.Context) {
	report, err := h.Directory.Report(c.Request.Context(), c.Param("merchantID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "merchant not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"report": report}, "advisory report", nil)
}

// UploadMedia attaches a shop photo to the signed-in merchant's record.
func (h *MerchantHandler) UploadMedia(c *gin.Context) {
	merchantID := c.GetString("subjectID")
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "could not read file", nil)
		return
	}
	defer func() { _ = src.Close() }()

	url, err := h.Directory.UploadMedia(c.Request.Context(), merchantID, file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		helpers.LogError(h.Logger, "upload merchant media", err, logrus.Fields{"merchant_id": merchantID})
		response.Error(c, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"url": url}, "media uploaded", nil)
}

// LoanQuotes prices every bank offer for the signed-in merchant.
func (h *MerchantHandler) LoanQuotes(c *gin.Context) {
	quotes, err := h.Loans.Quotes(c.GetString("subjectID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "merchant not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	response.Success(c, http.StatusOK, quotes, "loan offers", map[string]any{"count": len(quotes)})
}

type applyLoanRequest struct {
	BankID string `json:"bank_id" binding:"required"`
}

// ApplyLoan records a mock application against one of the fixed offers.
func (h *MerchantHandler) ApplyLoan(c *gin.Context) {
	var req applyLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	loanApp, err := h.Loans.Apply(c.GetString("subjectID"), req.BankID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Error(c, http.StatusNotFound, "merchant not found", nil)
		case errors.Is(err, app.ErrUnknownBank):
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			response.Error(c, http.StatusInternalServerError, "something went wrong", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, loanApp, "application recorded", nil)
}

// LoanApplications lists the signed-in merchant's applications.
func (h *MerchantHandler) LoanApplications(c *gin.Context) {
	apps := h.Loans.Applications(c.GetString("subjectID"))
	response.Success(c, http.StatusOK, apps, "loan applications", map[string]any{"count": len(apps)})
}
