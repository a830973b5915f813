package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

// handleLogin authenticates an admin or customer account.
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.DataResponse "Token pair and user"
// @Failure 401 {object} models.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (s *Server) handleLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	resp, err := s.identitySvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, resp, "login successful")
}

// handleLoginForm accepts the OAuth2-style form login used by the admin
// dashboard: username field carries the email.
func (s *Server) handleLoginForm(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")
	if email == "" || password == "" {
		s.writeError(c, apierr.Invalidf("username and password are required"))
		return
	}
	resp, err := s.identitySvc.Login(c.Request.Context(), email, password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": resp.AccessToken,
		"token_type":   resp.TokenType,
	})
}

// handleGetMe returns the authenticated user.
// @Summary Current authenticated user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DataResponse "User"
// @Failure 401 {object} models.ErrorResponse "Missing or invalid token"
// @Router /auth/me [get]
func (s *Server) handleGetMe(c *gin.Context) {
	user, err := s.identitySvc.GetUser(c.Request.Context(), s.currentUserID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, user, "")
}

func (s *Server) handleChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	err := s.identitySvc.ChangePassword(c.Request.Context(), s.currentUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, nil, "password changed")
}

func (s *Server) handleListUsers(c *gin.Context) {
	page, perPage := pageParams(c)
	users, total, err := s.identitySvc.ListUsers(c.Request.Context(), (page-1)*perPage, perPage)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondPage(c, users, page, perPage, total)
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	user, err := s.identitySvc.CreateUser(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusCreated, user, "user created")
}

func (s *Server) handleGetUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	user, err := s.identitySvc.GetUser(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, user, "")
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	user, err := s.identitySvc.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, user, "user updated")
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.identitySvc.DeleteUser(c.Request.Context(), id, s.currentUserID(c)); err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, nil, "user deleted")
}
