package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"billino/internal/domain"
	"billino/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 25

// RespondError maps a domain error onto the wire contract: a {detail,
// request_id} payload where detail is a string or, for validation
// failures with field information, the field list itself.
func RespondError(c *gin.Context, err error) {
	var (
		status = http.StatusInternalServerError
		detail any
	)

	var notFound domain.NotFoundError
	var validation domain.ValidationError
	var conflict domain.ConflictError
	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
		detail = notFound.Error()
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		if len(validation.Fields) > 0 {
			detail = validation.Fields
		} else {
			detail = validation.Error()
		}
	case errors.As(err, &conflict):
		status = http.StatusConflict
		detail = conflict.Error()
	default:
		detail = "internal error"
	}

	respondDetail(c, status, detail)
}

func respondDetail(c *gin.Context, status int, detail any) {
	c.JSON(status, gin.H{
		"detail":     detail,
		"request_id": middleware.GetRequestID(c),
	})
}

// BindJSONOrError ensures the body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondDetail(c, http.StatusBadRequest, "empty body")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondDetail(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return false
	}
	return true
}

// BindOptionalJSON parses the body into dst when one is sent; a
// missing or empty body leaves dst untouched. Content-Length is not
// consulted, so chunked requests bind too.
func BindOptionalJSON[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		return true
	}
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	respondDetail(c, http.StatusBadRequest, "invalid payload: "+err.Error())
	return false
}

// pathID parses the :id path parameter; 0 and false mean the error
// response was already written.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondDetail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
