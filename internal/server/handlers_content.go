package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

// handleListArticles lists published articles. Only admin callers may
// widen the listing to drafts with published_only=false.
// @Summary List published articles
// @Tags CMS
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Param category query string false "Category filter"
// @Param published_only query bool false "Admins may pass false to include drafts"
// @Success 200 {object} models.PaginatedResponse "Paginated articles"
// @Router /articles [get]
func (s *Server) handleListArticles(c *gin.Context) {
	page, perPage := pageParams(c)
	publishedOnly := true
	if s.isAdminCaller(c) {
		publishedOnly = c.DefaultQuery("published_only", "true") != "false"
	}
	articles, total, err := s.contentSvc.ListArticles(c.Request.Context(), publishedOnly, c.Query("category"), page, perPage)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondPage(c, articles, page, perPage, total)
}

// handleGetArticle resolves the path parameter as UUID or slug. Drafts
// are not found for anyone but admins.
// @Summary Get an article by id or slug
// @Tags CMS
// @Produce json
// @Param id path string true "Article ID or slug"
// @Success 200 {object} models.DataResponse "Article"
// @Failure 404 {object} models.ErrorResponse "Not found or unpublished"
// @Router /articles/{id} [get]
func (s *Server) handleGetArticle(c *gin.Context) {
	article, err := s.contentSvc.GetArticle(c.Request.Context(), c.Param("id"), s.isAdminCaller(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, article, "")
}

func (s *Server) handleCreateArticle(c *gin.Context) {
	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	article, err := s.contentSvc.CreateArticle(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusCreated, article, "article created")
}

func (s *Server) handleUpdateArticle(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req models.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	article, err := s.contentSvc.UpdateArticle(c.Request.Context(), id, &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, article, "article updated")
}

func (s *Server) handleDeleteArticle(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.contentSvc.DeleteArticle(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, nil, "article deleted")
}

func (s *Server) handleListCategories(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "true") != "false"
	categories, err := s.contentSvc.ListCategories(c.Request.Context(), c.Query("type"), activeOnly)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, categories, "")
}

func (s *Server) handleSearchCategories(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		s.writeError(c, apierr.Invalidf("query parameter q is required"))
		return
	}
	categories, err := s.contentSvc.SearchCategories(c.Request.Context(), query)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, categories, "")
}

func (s *Server) handleGetCategoryBySlug(c *gin.Context) {
	category, err := s.contentSvc.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, category, "")
}

func (s *Server) handleGetCategory(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	category, err := s.contentSvc.GetCategory(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, category, "")
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	category, err := s.contentSvc.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusCreated, category, "category created")
}

func (s *Server) handleUpdateCategory(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	category, err := s.contentSvc.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, category, "category updated")
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.contentSvc.DeleteCategory(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, nil, "category deactivated")
}

func (s *Server) handleActivateCategory(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	category, err := s.contentSvc.SetCategoryActive(c.Request.Context(), id, true)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, category, "category activated")
}

// handleContentByKeys fetches CMS fragments in one batch:
// ?keys=home.hero.title,home.hero.subtitle
func (s *Server) handleContentByKeys(c *gin.Context) {
	raw := c.Query("keys")
	if raw == "" {
		s.writeError(c, apierr.Invalidf("query parameter keys is required"))
		return
	}
	entries, err := s.contentSvc.GetContentByKeys(c.Request.Context(), strings.Split(raw, ","))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, entries, "")
}

// @Summary Active content fragments of a group
// @Tags CMS
// @Produce json
// @Param group path string true "Group name"
// @Success 200 {object} models.DataResponse "Fragments keyed by name"
// @Router /cms/content/by-group/{group} [get]
func (s *Server) handleContentByGroup(c *gin.Context) {
	entries, err := s.contentSvc.ListContentByGroup(c.Request.Context(), c.Param("group"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, entries, "")
}

// handleListContent lists every fragment for the admin dashboard,
// optionally narrowed with ?group=.
func (s *Server) handleListContent(c *gin.Context) {
	entries, err := s.contentSvc.ListContent(c.Request.Context(), c.Query("group"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, entries, "")
}

func (s *Server) handleContentGroups(c *gin.Context) {
	groups, err := s.contentSvc.ListContentGroups(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, groups, "")
}

func (s *Server) handleUpsertContent(c *gin.Context) {
	var req models.UpsertContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	entry, err := s.contentSvc.UpsertContent(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, entry, "content saved")
}

// handleUpdateContent updates the fragment named in the path; the key in
// the body, if any, is overridden.
func (s *Server) handleUpdateContent(c *gin.Context) {
	var req models.UpsertContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	req.Key = c.Param("key")
	entry, err := s.contentSvc.UpsertContent(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, entry, "content saved")
}

func (s *Server) handleDeleteContent(c *gin.Context) {
	if err := s.contentSvc.DeleteContent(c.Request.Context(), c.Param("key")); err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, nil, "content deleted")
}

func (s *Server) handleListPages(c *gin.Context) {
	pages, err := s.contentSvc.ListPages(c.Request.Context(), false)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, pages, "")
}

// @Summary Published page by slug
// @Tags CMS
// @Produce json
// @Param slug path string true "Page slug"
// @Success 200 {object} models.DataResponse "Page"
// @Failure 404 {object} models.ErrorResponse "Not found"
// @Router /cms/pages/{slug} [get]
func (s *Server) handleGetPublicPage(c *gin.Context) {
	page, err := s.contentSvc.GetPage(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, page, "")
}

func (s *Server) handleUpsertPage(c *gin.Context) {
	var req models.UpsertPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	page, err := s.contentSvc.UpsertPage(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, page, "page saved")
}

func (s *Server) handleUpdatePage(c *gin.Context) {
	var req models.UpsertPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	req.Slug = c.Param("slug")
	page, err := s.contentSvc.UpsertPage(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, page, "page saved")
}

func (s *Server) handleDeletePage(c *gin.Context) {
	if err := s.contentSvc.DeletePage(c.Request.Context(), c.Param("slug")); err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, nil, "page deleted")
}

// @Summary Public site settings
// @Tags CMS
// @Produce json
// @Success 200 {object} models.DataResponse "Settings keyed by name"
// @Router /cms/settings/public [get]
func (s *Server) handlePublicSettings(c *gin.Context) {
	settings, err := s.contentSvc.PublicSettings(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, settings, "")
}

func (s *Server) handleListSettings(c *gin.Context) {
	settings, err := s.contentSvc.ListSettings(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, settings, "")
}

func (s *Server) handleUpsertSetting(c *gin.Context) {
	var req models.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	setting, err := s.contentSvc.UpsertSetting(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, setting, "setting saved")
}

func (s *Server) handleUpdateSetting(c *gin.Context) {
	var req models.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	req.Key = c.Param("key")
	setting, err := s.contentSvc.UpsertSetting(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, setting, "setting saved")
}

func (s *Server) handleDeleteSetting(c *gin.Context) {
	if err := s.contentSvc.DeleteSetting(c.Request.Context(), c.Param("key")); err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, nil, "setting deleted")
}
