package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

// projectFilter reads the project listing query parameters.
func projectFilter(c *gin.Context) models.ProjectFilter {
	filter := models.ProjectFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if v := c.Query("is_featured"); v != "" {
		featured := v == "true" || v == "1"
		filter.IsFeatured = &featured
	}
	if v := c.Query("complexity"); v != "" {
		filter.ComplexityLevels = strings.Split(v, ",")
	}
	if v := c.Query("min_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filter.MinPrice = &d
		}
	}
	if v := c.Query("max_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filter.MaxPrice = &d
		}
	}
	if v := c.Query("min_hours"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.MinHours = &n
		}
	}
	if v := c.Query("max_hours"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.MaxHours = &n
		}
	}
	return filter
}

// handleListProjects lists gallery projects with the optional filters
// parsed by projectFilter.
// @Summary List gallery projects
// @Tags Projects
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Param category query string false "Category filter"
// @Param search query string false "Full-text search"
// @Param is_featured query bool false "Featured only"
// @Param complexity query string false "Comma-separated complexity levels"
// @Success 200 {object} models.PaginatedResponse "Paginated projects"
// @Router /projects [get]
func (s *Server) handleListProjects(c *gin.Context) {
	page, perPage := pageParams(c)
	projects, total, err := s.catalogSvc.ListProjects(c.Request.Context(), projectFilter(c), page, perPage)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondPage(c, projects, page, perPage, total)
}

func (s *Server) handleFeaturedProjects(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	projects, err := s.catalogSvc.ListFeaturedProjects(c.Request.Context(), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, projects, "")
}

func (s *Server) handleProjectCategories(c *gin.Context) {
	categories, err := s.catalogSvc.ListProjectCategories(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, categories, "")
}

func (s *Server) handleComplexityLevels(c *gin.Context) {
	s.respond(c, http.StatusOK, []gin.H{
		{"value": models.ComplexitySimple, "label": "Simple", "hours": "1-3"},
		{"value": models.ComplexityMedium, "label": "Medium", "hours": "4-8"},
		{"value": models.ComplexityComplex, "label": "Complex", "hours": "9+"},
	}, "")
}

// @Summary Get a project by id
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} models.DataResponse "Project"
// @Failure 404 {object} models.ErrorResponse "Not found"
// @Router /projects/{id} [get]
func (s *Server) handleGetProject(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	project, err := s.catalogSvc.GetProject(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, project, "")
}

// handleProjectSTL redirects to the stored STL file of a project.
func (s *Server) handleProjectSTL(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	project, err := s.catalogSvc.GetProject(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if project.STLFile == "" {
		s.writeError(c, apierr.NotFoundf("project %s has no stl file", id))
		return
	}
	url, err := s.files.URL(c.Request.Context(), project.STLFile, time.Hour)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// @Summary Create a project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateProjectRequest true "Project fields"
// @Success 201 {object} models.DataResponse "Created project"
// @Failure 400 {object} models.ErrorResponse "Validation error"
// @Router /projects [post]
func (s *Server) handleCreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	project, err := s.catalogSvc.CreateProject(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusCreated, project, "project created")
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	project, err := s.catalogSvc.UpdateProject(c.Request.Context(), id, &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, project, "project updated")
}

// handleDeleteProject removes the project row and cleans up its stored
// files best effort.
func (s *Server) handleDeleteProject(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	project, err := s.catalogSvc.GetProject(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.catalogSvc.DeleteProject(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}

	if project.STLFile != "" {
		_ = s.files.Delete(c.Request.Context(), project.STLFile)
	}
	for _, img := range project.ProjectImages {
		_ = s.files.Delete(c.Request.Context(), img.ImagePath)
	}
	s.respond(c, http.StatusOK, nil, "project deleted")
}

func (s *Server) handleUploadProjectSTL(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		s.writeError(c, apierr.Invalidf("missing file field"))
		return
	}
	f, err := header.Open()
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer f.Close()

	key, err := s.files.UploadModel(c.Request.Context(), "projects/stl", header.Filename, f, header.Size)
	if err != nil {
		s.writeError(c, err)
		return
	}
	project, err := s.catalogSvc.AttachProjectSTL(c.Request.Context(), id, key)
	if err != nil {
		_ = s.files.Delete(c.Request.Context(), key)
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, project, "stl file attached")
}

func (s *Server) handleUploadProjectImage(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		s.writeError(c, apierr.Invalidf("missing file field"))
		return
	}
	f, err := header.Open()
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer f.Close()

	key, err := s.files.UploadImage(c.Request.Context(), "projects/images", header.Filename, f, header.Size)
	if err != nil {
		s.writeError(c, err)
		return
	}
	isPrimary := c.PostForm("is_primary") == "true"
	image, err := s.catalogSvc.AddProjectImage(c.Request.Context(), id, key, c.PostForm("alt_text"), isPrimary)
	if err != nil {
		_ = s.files.Delete(c.Request.Context(), key)
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusCreated, image, "image added")
}

// @Summary List printing services
// @Tags Services
// @Produce json
// @Param active_only query bool false "Active services only (default true)"
// @Success 200 {object} models.DataResponse "Services"
// @Router /services [get]
func (s *Server) handleListServices(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "true") != "false"
	services, err := s.catalogSvc.ListServices(c.Request.Context(), activeOnly)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, services, "")
}

func (s *Server) handleSearchServices(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		s.writeError(c, apierr.Invalidf("query parameter q is required"))
		return
	}
	services, err := s.catalogSvc.SearchServices(c.Request.Context(), query)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, services, "")
}

func (s *Server) handleGetService(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	svc, err := s.catalogSvc.GetService(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, svc, "")
}

func (s *Server) handleCreateService(c *gin.Context) {
	var req models.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	svc, err := s.catalogSvc.CreateService(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusCreated, svc, "service created")
}

func (s *Server) handleUpdateService(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req models.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	svc, err := s.catalogSvc.UpdateService(c.Request.Context(), id, &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, svc, "service updated")
}

func (s *Server) handleDeleteService(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.catalogSvc.DeleteService(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, nil, "service deleted")
}

func (s *Server) handleActivateService(c *gin.Context) {
	s.setServiceActive(c, true)
}

func (s *Server) handleDeactivateService(c *gin.Context) {
	s.setServiceActive(c, false)
}

func (s *Server) setServiceActive(c *gin.Context, active bool) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	svc, err := s.catalogSvc.SetServiceActive(c.Request.Context(), id, active)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, svc, "service updated")
}

// @Summary List filament colors
// @Tags Colors
// @Produce json
// @Param active_only query bool false "Active colors only (default true)"
// @Success 200 {object} models.DataResponse "Colors"
// @Router /colors [get]
func (s *Server) handleListColors(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "true") != "false"
	colors, err := s.catalogSvc.ListColors(c.Request.Context(), activeOnly)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, colors, "")
}

func (s *Server) handleColorTypes(c *gin.Context) {
	types, err := s.catalogSvc.ListColorTypes(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, types, "")
}

func (s *Server) handleColorsByType(c *gin.Context) {
	colors, err := s.catalogSvc.ListColorsByType(c.Request.Context(), c.Param("type"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, colors, "")
}

func (s *Server) handleGetColor(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	color, err := s.catalogSvc.GetColor(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, color, "")
}

func (s *Server) handleCreateColor(c *gin.Context) {
	var req models.CreateColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	color, err := s.catalogSvc.CreateColor(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusCreated, color, "color created")
}

func (s *Server) handleUpdateColor(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req models.UpdateColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	color, err := s.catalogSvc.UpdateColor(c.Request.Context(), id, &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, color, "color updated")
}

func (s *Server) handleDeleteColor(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.catalogSvc.DeleteColor(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, nil, "color deleted")
}

func (s *Server) handleToggleColorActive(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	color, err := s.catalogSvc.ToggleColorActive(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, color, "color updated")
}

func (s *Server) handleToggleColorNew(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	color, err := s.catalogSvc.ToggleColorNew(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, color, "color updated")
}
