package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"regform/src/app/http/dto"
	"regform/src/app/http/response"
	"regform/src/app/middleware"
	"regform/src/core/usecase"
)

// FormHandler handles form session endpoints.
type FormHandler struct {
	sessionService *usecase.SessionService
}

func NewFormHandler(sessionService *usecase.SessionService) *FormHandler {
	return &FormHandler{sessionService: sessionService}
}

// Create starts a form with default values.
// POST /v1/forms
func (h *FormHandler) Create(c *gin.Context) {
	sess, err := h.sessionService.Start(c.Request.Context())
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.Created(c, dto.FormResponse{}.FromSession(sess))
}

// Get returns the current snapshot.
// GET /v1/forms/:form_id
func (h *FormHandler) Get(c *gin.Context) {
	id, ok := parseFormID(c)
	if !ok {
		return
	}
	sess, err := h.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.FormResponse{}.FromSession(sess))
}

// SetField updates one field. Errors are not recomputed here.
// PUT /v1/forms/:form_id/fields/:field
func (h *FormHandler) SetField(c *gin.Context) {
	id, ok := parseFormID(c)
	if !ok {
		return
	}
	var req dto.SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}
	if req.Value == nil {
		response.BadRequest(c, "value is required", middleware.GetRequestID(c))
		return
	}

	sess, err := h.sessionService.SetField(c.Request.Context(), id, c.Param("field"), req.Value)
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.FormResponse{}.FromSession(sess))
}

// Validate runs a validation pass and returns the fresh error map.
// POST /v1/forms/:form_id/validate
func (h *FormHandler) Validate(c *gin.Context) {
	id, ok := parseFormID(c)
	if !ok {
		return
	}
	res, err := h.sessionService.Validate(c.Request.Context(), id)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.ValidationResponse{}.FromResult(res))
}

// Submit validates and emits the form. An invalid form answers 422 with
// the error map and nothing is emitted.
// POST /v1/forms/:form_id/submit
func (h *FormHandler) Submit(c *gin.Context) {
	id, ok := parseFormID(c)
	if !ok {
		return
	}
	res, err := h.sessionService.Submit(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	if !res.Submitted {
		response.FormInvalid(c, dto.ErrorsFromDomain(res.Session.Errors), middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.SubmitResponse{
		Submitted: true,
		Form:      dto.FormResponse{}.FromSession(res.Session),
	})
}

// Delete discards the form.
// DELETE /v1/forms/:form_id
func (h *FormHandler) Delete(c *gin.Context) {
	id, ok := parseFormID(c)
	if !ok {
		return
	}
	if err := h.sessionService.Discard(c.Request.Context(), id); err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.NoContent(c)
}

func parseFormID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("form_id"))
	if err != nil {
		response.BadRequest(c, "invalid form_id", middleware.GetRequestID(c))
		return uuid.Nil, false
	}
	return id, true
}
