package handlers

import (
	"net/http"

	"billino/internal/http/middleware"
	"billino/internal/logging"
	"billino/internal/repositories"
	"billino/internal/services"
	"billino/internal/tablequery"

	"github.com/gin-gonic/gin"
)

type SummaryInvoiceHandler struct {
	Repo repositories.SummaryInvoiceRepository
	Svc  services.InvoiceService
}

// GET /api/summary-invoices
func (h SummaryInvoiceHandler) List(c *gin.Context) {
	state := tablequery.ParseBackendQuery(c.Request.URL.Query(), defaultPageSize)
	page, err := h.Repo.List(state)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/summary-invoices/:id
func (h SummaryInvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	sum, err := h.Repo.GetByID(id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// GET /api/summary-invoices/:id/invoices
func (h SummaryInvoiceHandler) ListMembers(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.Repo.GetByID(id); err != nil {
		RespondError(c, err)
		return
	}
	invoices, err := h.Repo.ListInvoices(id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": invoices})
}

// POST /api/summary-invoices
func (h SummaryInvoiceHandler) Create(c *gin.Context) {
	var in services.SummaryInput
	if !BindJSONOrError(c, &in) {
		return
	}
	sum, err := h.Svc.CreateSummary(in)
	if err != nil {
		RespondError(c, err)
		return
	}
	logging.For("audit").Info("summary invoice created",
		"summary_invoice_id", sum.ID, "number", sum.Number, "user_id", middleware.AuthUserID(c))
	c.JSON(http.StatusCreated, sum)
}

// DELETE /api/summary-invoices/:id
func (h SummaryInvoiceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Repo.Delete(id); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
