package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"altis.app/tracker/internal/auth"
	"altis.app/tracker/internal/http/dto"
	"altis.app/tracker/internal/http/middleware"
)

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.NewError(status, message))
}

// bindJSON decodes the body into req and writes a 400 when that fails.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		respondError(c, http.StatusBadRequest, "Invalid JSON format")
	case errors.As(err, &typeErr):
		respondError(c, http.StatusBadRequest, "Invalid value for "+typeErr.Field)
	default:
		respondError(c, http.StatusBadRequest, dto.ValidationMessage(err))
	}
	return false
}

// pathID parses a positive numeric path parameter and writes a 400 when it is malformed.
func pathID(c *gin.Context, name, label string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+label)
		return 0, false
	}
	return v, true
}

// caller returns the authenticated identity. Routes using it sit behind middleware.Authenticate.
func caller(c *gin.Context) (auth.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "No token provided")
	}
	return identity, ok
}
