package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/hireground/internal/dtos"
	"github.com/justsurfingit/hireground/internal/services"
)

type InterviewHandler struct {
	InterviewService *services.InterviewService
	ReviewService    *services.ReviewService
}

func NewInterviewHandler(iv *services.InterviewService, rv *services.ReviewService) *InterviewHandler {
	return &InterviewHandler{InterviewService: iv, ReviewService: rv}
}

// Create is POST /interviews (recruiter)
func (h *InterviewHandler) Create(c *gin.Context) {
	var req dtos.InterviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	iv, err := h.InterviewService.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NewInterviewResponse(iv))
}

// Get is GET /interviews/:id. 404 when unknown, 410 when expired.
func (h *InterviewHandler) Get(c *gin.Context) {
	iv, err := h.InterviewService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewInterviewResponse(iv))
}

// Submit is POST /interviews/:id/submit
func (h *InterviewHandler) Submit(c *gin.Context) {
	var req dtos.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ack, err := h.InterviewService.Submit(c.Request.Context(), c.Param("id"), req.Responses)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ack)
}

// Review is GET /interviews/:id/review (recruiter)
func (h *InterviewHandler) Review(c *gin.Context) {
	review, err := h.ReviewService.Review(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}
