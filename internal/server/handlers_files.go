package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
)

// handleUploadFile is the generic admin upload. kind selects the
// validation rules: "model" (default) or "image".
// @Summary Upload a file
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to store"
// @Param folder formData string false "Target folder"
// @Param kind formData string false "Validation kind: model or image"
// @Success 201 {object} models.DataResponse "Stored file info"
// @Failure 400 {object} models.ErrorResponse "Rejected file"
// @Router /files/upload [post]
func (s *Server) handleUploadFile(c *gin.Context) {
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

	folder := c.DefaultPostForm("folder", "misc")
	var key string
	if c.DefaultPostForm("kind", "model") == "image" {
		key, err = s.files.UploadImage(c.Request.Context(), folder, header.Filename, f, header.Size)
	} else {
		key, err = s.files.UploadModel(c.Request.Context(), folder, header.Filename, f, header.Size)
	}
	if err != nil {
		s.writeError(c, err)
		return
	}

	url, err := s.files.URL(c.Request.Context(), key, time.Hour)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusCreated, gin.H{"key": key, "url": url}, "file uploaded")
}

func (s *Server) handleDeleteFile(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		s.writeError(c, apierr.Invalidf("query parameter key is required"))
		return
	}
	if err := s.files.Delete(c.Request.Context(), key); err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, nil, "file deleted")
}

func (s *Server) handleListFiles(c *gin.Context) {
	objects, err := s.files.List(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, objects, "")
}

func (s *Server) handleFileInfo(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		s.writeError(c, apierr.Invalidf("query parameter key is required"))
		return
	}
	info, err := s.files.Stat(c.Request.Context(), key)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, info, "")
}

func (s *Server) handlePresignedURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		s.writeError(c, apierr.Invalidf("query parameter key is required"))
		return
	}
	minutes, _ := strconv.Atoi(c.DefaultQuery("expiry_minutes", "60"))
	if minutes < 1 || minutes > 7*24*60 {
		minutes = 60
	}
	url, err := s.files.URL(c.Request.Context(), key, time.Duration(minutes)*time.Minute)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, gin.H{"url": url, "expires_in_minutes": minutes}, "")
}

// handleValidateFile dry-runs the upload rules for a filename and size.
func (s *Server) handleValidateFile(c *gin.Context) {
	filename := c.Query("filename")
	if filename == "" {
		s.writeError(c, apierr.Invalidf("query parameter filename is required"))
		return
	}
	size, _ := strconv.ParseInt(c.DefaultQuery("size", "0"), 10, 64)
	kind := c.DefaultQuery("kind", "model")

	if err := s.files.Validate(filename, size, kind); err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, gin.H{"valid": true}, "")
}

func (s *Server) handleCacheStats(c *gin.Context) {
	s.respond(c, http.StatusOK, s.cache.Stats(), "")
}

func (s *Server) handleCacheKeys(c *gin.Context) {
	keys, err := s.cache.Keys(c.Request.Context(), c.DefaultQuery("pattern", "*"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, keys, "")
}

func (s *Server) handleCacheGet(c *gin.Context) {
	var raw json.RawMessage
	hit, err := s.cache.Get(c.Request.Context(), c.Param("key"), &raw)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if !hit {
		s.writeError(c, apierr.NotFoundf("cache key %q not found", c.Param("key")))
		return
	}
	s.respond(c, http.StatusOK, raw, "")
}

func (s *Server) handleCacheDelete(c *gin.Context) {
	if err := s.cache.Delete(c.Request.Context(), c.Param("key")); err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, nil, "cache key deleted")
}

func (s *Server) handleCacheClear(c *gin.Context) {
	pattern := c.DefaultQuery("pattern", "*")
	if err := s.cache.DeletePattern(c.Request.Context(), pattern); err != nil {
		s.writeError(c, err)
		return
	}
	s.logger.Info("cache cleared", zap.String("pattern", pattern))
	s.respond(c, http.StatusOK, nil, "cache cleared")
}

// handleCacheWarmUp preloads the hot public listings.
func (s *Server) handleCacheWarmUp(c *gin.Context) {
	ctx := c.Request.Context()
	warmed := []string{}
	if _, err := s.catalogSvc.ListFeaturedProjects(ctx, 6); err == nil {
		warmed = append(warmed, "featured_projects")
	}
	if _, err := s.catalogSvc.ListServices(ctx, true); err == nil {
		warmed = append(warmed, "active_services")
	}
	if _, err := s.catalogSvc.ListColors(ctx, true); err == nil {
		warmed = append(warmed, "active_colors")
	}
	if _, err := s.contentSvc.PublicSettings(ctx); err == nil {
		warmed = append(warmed, "public_settings")
	}
	s.respond(c, http.StatusOK, gin.H{"warmed": warmed}, "cache warmed up")
}

// handleTelegramWebhook receives notification callbacks from the bot
// service. The payload is logged and acknowledged; the bot owns its own
// state.
func (s *Server) handleTelegramWebhook(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.bindError(c, err)
		return
	}
	s.logger.Info("telegram webhook received", zap.Any("payload", payload))
	s.respond(c, http.StatusOK, nil, "ok")
}

func (s *Server) handleTelegramHealth(c *gin.Context) {
	configured := s.cfg.Notify.TelegramWebhookURL != ""
	s.respond(c, http.StatusOK, gin.H{
		"configured": configured,
		"chat_ids":   len(s.cfg.Notify.TelegramAdminChatIDs),
	}, "")
}
