package server

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nordlayer/printing-platform/internal/orders"
	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

// @Summary Submit a print order
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body models.CreateOrderRequest true "Order fields"
// @Success 201 {object} models.DataResponse "Created order"
// @Failure 400 {object} models.ErrorResponse "Validation error"
// @Router /orders [post]
func (s *Server) handleCreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	order, err := s.orderSvc.Create(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusCreated, order, "order created")
}

// @Summary List orders
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Param status query string false "Status filter"
// @Success 200 {object} models.PaginatedResponse "Paginated orders"
// @Router /orders [get]
func (s *Server) handleListOrders(c *gin.Context) {
	page, perPage := pageParams(c)
	ordersList, total, err := s.orderSvc.List(c.Request.Context(), c.Query("status"), page, perPage)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondPage(c, ordersList, page, perPage, total)
}

// @Summary Get an order by id
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} models.DataResponse "Order"
// @Failure 404 {object} models.ErrorResponse "Not found"
// @Router /orders/{id} [get]
func (s *Server) handleGetOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	order, err := s.orderSvc.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, order, "")
}

func (s *Server) handleUpdateOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	order, err := s.orderSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, order, "order updated")
}

// handleDeleteOrder removes the order and cleans up its stored files.
func (s *Server) handleDeleteOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		s.writeError(c, err)
		return
	}
	order, err := s.orderSvc.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.orderSvc.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	for _, f := range order.Files {
		_ = s.files.Delete(c.Request.Context(), f.FilePath)
	}
	s.respond(c, http.StatusOK, nil, "order deleted")
}

// handleSearchOrders is the public order tracking lookup by email.
func (s *Server) handleSearchOrders(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		s.writeError(c, apierr.Invalidf("query parameter email is required"))
		return
	}
	ordersList, err := s.orderSvc.SearchByEmail(c.Request.Context(), email)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, ordersList, "")
}

// handleOrderStatusWebhook lets the Telegram bot push status changes.
func (s *Server) handleOrderStatusWebhook(c *gin.Context) {
	var req struct {
		OrderID uuid.UUID `json:"order_id" binding:"required"`
		Status  string    `json:"status" binding:"required,oneof=new confirmed in_progress completed cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	order, err := s.orderSvc.Update(c.Request.Context(), req.OrderID, &models.UpdateOrderRequest{Status: &req.Status})
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, http.StatusOK, order, "order status updated")
}

// handleUploadOrderFiles stores multipart model files and records them
// on the order.
func (s *Server) handleUploadOrderFiles(c *gin.Context) {
	id, err := parseID(c, "orderID")
	if err != nil {
		s.writeError(c, err)
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		s.writeError(c, apierr.Invalidf("invalid multipart form"))
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		s.writeError(c, apierr.Invalidf("no files provided"))
		return
	}

	var stored []orders.AttachedFile
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			s.writeError(c, err)
			return
		}
		key, err := s.files.UploadModel(c.Request.Context(), "orders/"+id.String(), header.Filename, f, header.Size)
		f.Close()
		if err != nil {
			// Roll back already stored files so a failed upload leaves
			// no partial state.
			for _, done := range stored {
				_ = s.files.Delete(c.Request.Context(), done.FilePath)
			}
			s.writeError(c, err)
			return
		}
		stored = append(stored, orders.AttachedFile{
			FilePath:         key,
			OriginalFilename: header.Filename,
			FileSize:         header.Size,
			FileType:         strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), "."),
		})
	}

	rows, err := s.orderSvc.AttachFiles(c.Request.Context(), id, stored)
	if err != nil {
		for _, done := range stored {
			_ = s.files.Delete(c.Request.Context(), done.FilePath)
		}
		s.writeError(c, err)
		return
	}
	s.logger.Info("order files uploaded",
		zap.String("order_id", id.String()),
		zap.Int("count", len(rows)))
	s.respond(c, http.StatusCreated, rows, "files uploaded")
}
