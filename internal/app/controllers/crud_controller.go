package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/ucsb-cs156/crudapi/internal/app/models/dto"
	"github.com/ucsb-cs156/crudapi/internal/app/services"
	"github.com/ucsb-cs156/crudapi/internal/middleware"
	"github.com/ucsb-cs156/crudapi/internal/pkg/apperrors"
)

// CrudController serves the five CRUD routes of one entity type. The
// OpenAPI description of these routes lives in the docs package, one path
// set per entity.
type CrudController[T any] struct {
	service services.CrudService[T]
}

// NewCrudController creates a new CrudController
func NewCrudController[T any](service services.CrudService[T]) *CrudController[T] {
	return &CrudController[T]{
		service: service,
	}
}

// List handles GET /all
func (c *CrudController[T]) List(ctx *gin.Context) {
	items, err := c.service.ListAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, items)
}

// Get handles GET ?id=
func (c *CrudController[T]) Get(ctx *gin.Context) {
	id, err := queryID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	entity, err := c.service.GetByKey(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entity)
}

// Create handles POST /post. Every field arrives as its own query or form
// parameter.
func (c *CrudController[T]) Create(ctx *gin.Context) {
	var entity T
	if err := ctx.ShouldBindWith(&entity, binding.Form); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindError(err))
		return
	}
	// binding.Form has parsed both the query string and the body into Request.Form
	if err := c.requirePresent(func(key string) bool {
		return ctx.Request.Form.Get(key) != ""
	}); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	saved, err := c.service.Create(ctx.Request.Context(), &entity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, saved)
}

// Update handles PUT ?id= with the full entity as JSON body
func (c *CrudController[T]) Update(ctx *gin.Context) {
	id, err := queryID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var incoming T
	if err := ctx.ShouldBindBodyWith(&incoming, binding.JSON); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindError(err))
		return
	}
	// ShouldBindBodyWith keeps the body under gin.BodyBytesKey
	raw, _ := ctx.Get(gin.BodyBytesKey)
	body, _ := raw.([]byte)
	if err := c.requirePresent(jsonKeys(body)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.service.Update(ctx.Request.Context(), id, &incoming)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// Delete handles DELETE ?id=
func (c *CrudController[T]) Delete(ctx *gin.Context) {
	id, err := queryID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message, err := c.service.Delete(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: message})
}

// requirePresent fails with a validation error naming every PresentParams key
// the request lacks.
func (c *CrudController[T]) requirePresent(present func(key string) bool) error {
	var details map[string]string
	for _, key := range c.service.Kind().PresentParams {
		if present(key) {
			continue
		}
		if details == nil {
			details = make(map[string]string)
		}
		details[key] = key + " is required"
	}
	if details != nil {
		return apperrors.NewValidationError("Validation failed", details)
	}
	return nil
}

// jsonKeys reports which top-level keys of a JSON object body hold a non-null value.
func jsonKeys(body []byte) func(key string) bool {
	var fields map[string]json.RawMessage
	_ = json.Unmarshal(body, &fields)
	return func(key string) bool {
		v, ok := fields[key]
		return ok && string(v) != "null"
	}
}

func queryID(ctx *gin.Context) (int64, error) {
	raw, ok := ctx.GetQuery("id")
	if !ok || raw == "" {
		return 0, apperrors.NewValidationError("Validation failed", map[string]string{"id": "id is required"})
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("Validation failed", map[string]string{"id": "id must be an integer"})
	}
	return id, nil
}

// Route returns the path segment the entity is served under
func (c *CrudController[T]) Route() string {
	return c.service.Kind().Route
}
