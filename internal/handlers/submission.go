package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/lhdn"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/models"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/services"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/store"

	"github.com/gin-gonic/gin"
)

// Submitter drives the submission pipeline.
type Submitter interface {
	Submit(ctx context.Context, req services.SubmitRequest) (*models.Submission, error)
}

// SubmissionReader reads persisted submission records.
type SubmissionReader interface {
	Get(id string) (*models.Submission, error)
	List(status models.Status, limit, offset int) ([]models.Submission, error)
}

// SubmissionHandler exposes the submission pipeline over HTTP.
type SubmissionHandler struct {
	submitter Submitter
	reader    SubmissionReader
}

func NewSubmissionHandler(submitter Submitter, reader SubmissionReader) *SubmissionHandler {
	return &SubmissionHandler{submitter: submitter, reader: reader}
}

type submitBody struct {
	InvoiceCodeNumber string `json:"invoiceCodeNumber" binding:"required"`
	FileName          string `json:"fileName"`
	Format            string `json:"format" binding:"required"`
	Document          string `json:"document" binding:"required"`
	DocumentHash      string `json:"documentHash" binding:"required"`
}

type submissionResponse struct {
	ID                string    `json:"id"`
	InvoiceCodeNumber string    `json:"invoiceCodeNumber"`
	SubmissionUID     string    `json:"submissionUid,omitempty"`
	DocumentUID       string    `json:"documentUid,omitempty"`
	Status            string    `json:"status"`
	Attempts          int       `json:"attempts"`
	ErrorCode         string    `json:"errorCode,omitempty"`
	ErrorMessage      string    `json:"errorMessage,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	StatusChangedAt   time.Time `json:"statusChangedAt"`
}

func toResponse(sub *models.Submission) submissionResponse {
	return submissionResponse{
		ID:                sub.ID,
		InvoiceCodeNumber: sub.InvoiceCodeNumber,
		SubmissionUID:     sub.SubmissionUID,
		DocumentUID:       sub.DocumentUID,
		Status:            string(sub.Status),
		Attempts:          sub.Attempts,
		ErrorCode:         sub.ErrorCode,
		ErrorMessage:      sub.ErrorMessage,
		CreatedAt:         sub.CreatedAt,
		StatusChangedAt:   sub.StatusChangedAt,
	}
}

// Submit handles POST /api/v1/submissions.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var body submitBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.submitter.Submit(c.Request.Context(), services.SubmitRequest{
		InvoiceCodeNumber: body.InvoiceCodeNumber,
		FileName:          body.FileName,
		Format:            body.Format,
		Document:          body.Document,
		DocumentHash:      body.DocumentHash,
	})
	if err != nil {
		status, payload := mapSubmitError(sub, err)
		c.JSON(status, payload)
		return
	}

	c.JSON(http.StatusCreated, toResponse(sub))
}

// mapSubmitError translates pipeline failures into HTTP responses. The
// submission record, when present, is included so callers can track the
// Pending record for retry.
func mapSubmitError(sub *models.Submission, err error) (int, gin.H) {
	payload := gin.H{"error": err.Error()}
	if sub != nil {
		payload["submission"] = toResponse(sub)
	}

	var upstream *lhdn.UpstreamError
	if errors.As(err, &upstream) {
		payload["errorCode"] = upstream.Code
		return http.StatusUnprocessableEntity, payload
	}

	var rateLimited *lhdn.RateLimitedError
	if errors.As(err, &rateLimited) {
		return http.StatusTooManyRequests, payload
	}

	var authErr *lhdn.AuthError
	if errors.As(err, &authErr) {
		return http.StatusBadGateway, payload
	}

	if errors.Is(err, lhdn.ErrConfigNotFound) || errors.Is(err, lhdn.ErrConfigInvalid) {
		return http.StatusServiceUnavailable, payload
	}

	return http.StatusBadGateway, payload
}

// Get handles GET /api/v1/submissions/:id.
func (h *SubmissionHandler) Get(c *gin.Context) {
	sub, err := h.reader.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponse(sub))
}

// List handles GET /api/v1/submissions?status=&limit=&offset=.
func (h *SubmissionHandler) List(c *gin.Context) {
	status := models.Status(c.Query("status"))
	if status != "" && !status.IsKnown() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	subs, err := h.reader.List(status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]submissionResponse, 0, len(subs))
	for i := range subs {
		out = append(out, toResponse(&subs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"submissions": out, "count": len(out)})
}
