package handlers

import (
	"net/http"

	"billino/internal/domain/models"
	"billino/internal/http/middleware"
	"billino/internal/logging"
	"billino/internal/repositories"
	"billino/internal/services"
	"billino/internal/tablequery"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	Repo repositories.InvoiceRepository
	Svc  services.InvoiceService
}

// GET /api/invoices
func (h InvoiceHandler) List(c *gin.Context) {
	state := tablequery.ParseBackendQuery(c.Request.URL.Query(), defaultPageSize)
	page, err := h.Repo.List(state)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/invoices/:id
func (h InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	inv, err := h.Repo.GetByID(id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// POST /api/invoices
func (h InvoiceHandler) Create(c *gin.Context) {
	var in services.InvoiceInput
	if !BindJSONOrError(c, &in) {
		return
	}
	inv, err := h.Svc.Create(in)
	if err != nil {
		RespondError(c, err)
		return
	}
	logging.For("audit").Info("invoice created",
		"invoice_id", inv.ID, "number", inv.Number, "user_id", middleware.AuthUserID(c))
	c.JSON(http.StatusCreated, inv)
}

type invoiceUpdateRequest struct {
	Status models.InvoiceStatus `json:"status"`
	services.InvoiceInput
}

// PUT /api/invoices/:id
func (h InvoiceHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req invoiceUpdateRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	inv, err := h.Svc.Update(id, req.Status, req.InvoiceInput)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// DELETE /api/invoices/:id
func (h InvoiceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Repo.Delete(id); err != nil {
		RespondError(c, err)
		return
	}
	logging.For("audit").Info("invoice deleted",
		"invoice_id", id, "user_id", middleware.AuthUserID(c))
	c.Status(http.StatusNoContent)
}
