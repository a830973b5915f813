package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

// @Summary List approved reviews
// @Tags Reviews
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} models.PaginatedResponse "Paginated reviews"
// @Router /reviews [get]
func (s *Server) handleListReviews(c *gin.Context) {
	page, perPage := pageParams(c)
	reviewsList, total, err := s.reviewSvc.ListApproved(c.Request.Context(), page, perPage)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondPage(c, reviewsList, page, perPage, total)
}

func (s *Server) handleReviewStats(c *gin.Context) {
	stats, err := s.reviewSvc.Stats(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, stats, "")
}

func (s *Server) handleFeaturedReviews(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	reviewsList, err := s.reviewSvc.ListFeatured(c.Request.Context(), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, reviewsList, "")
}

func (s *Server) handleGetReview(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	review, err := s.reviewSvc.GetApproved(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, review, "")
}

// @Summary Submit a review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param request body models.CreateReviewRequest true "Review fields"
// @Success 201 {object} models.DataResponse "Created review, pending moderation"
// @Failure 400 {object} models.ErrorResponse "Validation error"
// @Router /reviews [post]
func (s *Server) handleCreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	review, err := s.reviewSvc.Create(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusCreated, review, "review submitted for moderation")
}

func (s *Server) handleAdminListReviews(c *gin.Context) {
	page, perPage := pageParams(c)
	reviewsList, total, err := s.reviewSvc.ListAll(c.Request.Context(), page, perPage)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondPage(c, reviewsList, page, perPage, total)
}

func (s *Server) handlePendingReviews(c *gin.Context) {
	reviewsList, err := s.reviewSvc.ListPending(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, reviewsList, "")
}

func (s *Server) handleSearchReviews(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		s.writeError(c, apierr.Invalidf("query parameter q is required"))
		return
	}
	reviewsList, err := s.reviewSvc.Search(c.Request.Context(), query)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, reviewsList, "")
}

func (s *Server) handleAdminGetReview(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	review, err := s.reviewSvc.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, review, "")
}

func (s *Server) handleAdminUpdateReview(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	review, err := s.reviewSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, review, "review updated")
}

func (s *Server) handleModerateReview(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req models.ModerateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	review, err := s.reviewSvc.Moderate(c.Request.Context(), id, &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, review, "review moderated")
}

func (s *Server) handleApproveReview(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	review, err := s.reviewSvc.Approve(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, review, "review approved")
}

func (s *Server) handleRejectReview(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	review, err := s.reviewSvc.Reject(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, review, "review rejected")
}

func (s *Server) handleFeatureReview(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	featured := c.DefaultQuery("featured", "true") != "false"
	review, err := s.reviewSvc.SetFeatured(c.Request.Context(), id, featured)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, review, "review updated")
}

func (s *Server) handleDeleteReview(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.reviewSvc.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, nil, "review deleted")
}
