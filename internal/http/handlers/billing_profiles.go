package handlers

import (
	"net/http"

	"billino/internal/domain/models"
	"billino/internal/repositories"
	"billino/internal/tablequery"

	"github.com/gin-gonic/gin"
)

type BillingProfileHandler struct {
	Repo repositories.BillingProfileRepository
}

// GET /api/billing-profiles
func (h BillingProfileHandler) List(c *gin.Context) {
	state := tablequery.ParseBackendQuery(c.Request.URL.Query(), defaultPageSize)
	page, err := h.Repo.List(state)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/billing-profiles/:id
func (h BillingProfileHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.Repo.GetByID(id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/billing-profiles
func (h BillingProfileHandler) Create(c *gin.Context) {
	var p models.BillingProfile
	if !BindJSONOrError(c, &p) {
		return
	}
	if p.CustomerID <= 0 || p.CompanyName == "" {
		respondDetail(c, http.StatusBadRequest, "customer_id and company_name are required")
		return
	}
	created, err := h.Repo.Create(p)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PUT /api/billing-profiles/:id
func (h BillingProfileHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p models.BillingProfile
	if !BindJSONOrError(c, &p) {
		return
	}
	p.ID = id
	if err := h.Repo.Update(p); err != nil {
		RespondError(c, err)
		return
	}
	updated, err := h.Repo.GetByID(id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /api/billing-profiles/:id
func (h BillingProfileHandler) Delete(c *gin.Context) {
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
