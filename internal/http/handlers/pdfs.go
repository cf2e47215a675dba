package handlers

import (
	"net/http"

	"billino/internal/domain"
	"billino/internal/domain/models"
	"billino/internal/repositories"
	"billino/internal/services"

	"github.com/gin-gonic/gin"
)

type PDFHandler struct {
	PDFs repositories.PDFRepository
	Svc  services.PDFService
}

// GET /api/pdfs/by-invoice/:id
func (h PDFHandler) GetByInvoice(c *gin.Context) {
	h.respondStored(c, func(id int64) (models.PDFDocument, error) {
		return h.PDFs.GetByInvoice(models.PDFInvoices, id)
	})
}

// GET /api/pdfs/by-a6-invoice/:id
func (h PDFHandler) GetByA6Invoice(c *gin.Context) {
	h.respondStored(c, func(id int64) (models.PDFDocument, error) {
		return h.PDFs.GetByInvoice(models.PDFA6Invoices, id)
	})
}

// GET /api/pdfs/by-summary/:id
func (h PDFHandler) GetBySummary(c *gin.Context) {
	h.respondStored(c, h.PDFs.GetBySummaryInvoice)
}

func (h PDFHandler) respondStored(c *gin.Context, fetch func(int64) (models.PDFDocument, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	doc, err := fetch(id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// POST /api/pdfs/invoices/:id
func (h PDFHandler) CreateInvoicePDF(c *gin.Context) {
	h.respondGenerated(c, func(id int64) (models.PDFDocument, error) {
		return h.Svc.GenerateInvoice(id, false)
	})
}

// POST /api/pdfs/a6-invoices/:id
func (h PDFHandler) CreateA6InvoicePDF(c *gin.Context) {
	h.respondGenerated(c, func(id int64) (models.PDFDocument, error) {
		return h.Svc.GenerateInvoice(id, true)
	})
}

type summaryPDFRequest struct {
	RecipientName string `json:"recipient_name"`
}

// POST /api/pdfs/summary-invoices/:id
func (h PDFHandler) CreateSummaryPDF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req summaryPDFRequest
	if !BindOptionalJSON(c, &req) {
		return
	}
	doc, err := h.Svc.GenerateSummary(id, req.RecipientName)
	if err != nil {
		h.respondGenerateError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h PDFHandler) respondGenerated(c *gin.Context, generate func(int64) (models.PDFDocument, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	doc, err := generate(id)
	if err != nil {
		h.respondGenerateError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// respondGenerateError maps a generation conflict to 400 rather than
// the usual 409: clients take 400 on this endpoint to mean "another
// request generated it first, fetch again". Part of the wire contract.
func (h PDFHandler) respondGenerateError(c *gin.Context, err error) {
	if domain.IsConflict(err) {
		respondDetail(c, http.StatusBadRequest, "pdf already generated")
		return
	}
	RespondError(c, err)
}
