package handlers

import (
	"net/http"

	"billino/internal/domain/models"
	"billino/internal/repositories"
	"billino/internal/tablequery"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	Repo repositories.CustomerRepository
}

// GET /api/customers
func (h CustomerHandler) List(c *gin.Context) {
	state := tablequery.ParseBackendQuery(c.Request.URL.Query(), defaultPageSize)
	page, err := h.Repo.List(state)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/customers/:id
func (h CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cust, err := h.Repo.GetByID(id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

// POST /api/customers
func (h CustomerHandler) Create(c *gin.Context) {
	var cust models.Customer
	if !BindJSONOrError(c, &cust) {
		return
	}
	if cust.Name == "" {
		respondDetail(c, http.StatusBadRequest, "name is required")
		return
	}
	created, err := h.Repo.Create(cust)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PUT /api/customers/:id
func (h CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var cust models.Customer
	if !BindJSONOrError(c, &cust) {
		return
	}
	cust.ID = id
	if err := h.Repo.Update(cust); err != nil {
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

// DELETE /api/customers/:id
func (h CustomerHandler) Delete(c *gin.Context) {
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
