package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/service-marketplace/internal/model"
	"github.com/iliyamo/service-marketplace/internal/store"
)

// ServiceHandler serves the service catalog.
type ServiceHandler struct {
	Store *store.Store
}

func NewServiceHandler(s *store.Store) *ServiceHandler { return &ServiceHandler{Store: s} }

func (h *ServiceHandler) Create(c echo.Context) error {
	var req model.NewService
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Name == "" || req.ProviderID == "" {
		return badRequest(c, "name/provider_id required")
	}
	return c.JSON(http.StatusCreated, h.Store.CreateService(req))
}

func (h *ServiceHandler) Get(c echo.Context) error {
	svc, ok := h.Store.GetServiceByID(c.Param("id"))
	if !ok {
		return notFound(c, "service")
	}
	return c.JSON(http.StatusOK, svc)
}

func (h *ServiceHandler) Update(c echo.Context) error {
	var p model.ServicePatch
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "invalid body")
	}
	svc, ok := h.Store.UpdateService(c.Param("id"), p)
	if !ok {
		return notFound(c, "service")
	}
	return c.JSON(http.StatusOK, svc)
}

// Search handles GET /v1/services. Supported query parameters are q,
// category, min_price, max_price and provider_id. Only active services
// are returned.
func (h *ServiceHandler) Search(c echo.Context) error {
	lo, ok := queryDecimal(c, "min_price")
	if !ok {
		return badRequest(c, "invalid min_price")
	}
	hi, ok := queryDecimal(c, "max_price")
	if !ok {
		return badRequest(c, "invalid max_price")
	}
	return c.JSON(http.StatusOK, h.Store.SearchServices(model.ServiceFilter{
		Query:      c.QueryParam("q"),
		Category:   c.QueryParam("category"),
		PriceMin:   lo,
		PriceMax:   hi,
		ProviderID: c.QueryParam("provider_id"),
	}))
}

// ListAll handles GET /v1/admin/services, active or not.
func (h *ServiceHandler) ListAll(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.ListServices())
}

// ByProvider handles GET /v1/providers/:id/services, active or not.
func (h *ServiceHandler) ByProvider(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.GetServicesByProvider(c.Param("id")))
}
