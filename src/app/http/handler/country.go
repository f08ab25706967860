package handler

import (
	"github.com/gin-gonic/gin"

	"regform/src/app/http/dto"
	"regform/src/app/http/response"
	"regform/src/core/usecase"
)

// CountryHandler serves the country directory.
type CountryHandler struct {
	sessionService *usecase.SessionService
}

func NewCountryHandler(sessionService *usecase.SessionService) *CountryHandler {
	return &CountryHandler{sessionService: sessionService}
}

// List returns the directory in provider order. An empty list means the
// load has not finished or failed; clients fall back to free text.
// GET /v1/countries
func (h *CountryHandler) List(c *gin.Context) {
	response.OK(c, dto.CountriesFromDomain(h.sessionService.Countries()))
}
