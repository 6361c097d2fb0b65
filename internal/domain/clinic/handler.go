package clinic

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/clinics", h.List)
	g.POST("/clinics", h.Register)
	g.GET("/clinics/:id", h.Get)
	g.GET("/clinics/:id/full", h.Full)
	g.GET("/clinics/:id/reviews", h.ListReviews)
	g.POST("/clinics/:id/reviews", h.AddReview)

	g.GET("/clinic-settings/:clinicId", h.GetSettings)
	g.PATCH("/clinic-settings/:clinicId/basic-info", h.PatchBasicInfo)
	g.PATCH("/clinic-settings/:clinicId/address", h.PatchAddress)
	g.PATCH("/clinic-settings/:clinicId/opening-hours", h.PatchOpeningHours)
	g.PATCH("/clinic-settings/:clinicId/specialties", h.PatchSpecialties)
	g.PATCH("/clinic-settings/:clinicId/images", h.PatchImages)
	g.PATCH("/clinic-settings/:clinicId/map-location", h.PatchMapLocation)
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return echo.NewHTTPError(http.StatusConflict, "a clinic with this email already exists")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) List(c echo.Context) error {
	clinics, err := h.svc.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list clinics")
	}
	if clinics == nil {
		clinics = []*Clinic{}
	}
	return c.JSON(http.StatusOK, clinics)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic id")
	}
	found, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "clinic not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load clinic")
	}
	return c.JSON(http.StatusOK, found)
}

func (h *Handler) Full(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic id")
	}
	view, err := h.svc.FullProfile(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "clinic not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load clinic profile")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) ListReviews(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic id")
	}
	reviews, err := h.svc.ListReviews(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list reviews")
	}
	if reviews == nil {
		reviews = []*Review{}
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *Handler) AddReview(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic id")
	}
	var r Review
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	r.ClinicID = id
	if err := h.svc.AddReview(c.Request().Context(), &r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, &r)
}

func (h *Handler) GetSettings(c echo.Context) error {
	id, err := parseID(c.Param("clinicId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic id")
	}
	settings, err := h.svc.GetSettings(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "settings not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load settings")
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *Handler) PatchBasicInfo(c echo.Context) error {
	id, err := parseID(c.Param("clinicId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic id")
	}
	var in BasicInfoInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	settings, err := h.svc.UpdateBasicInfo(c.Request().Context(), id, in)
	return h.respondSettings(c, settings, err)
}

func (h *Handler) PatchAddress(c echo.Context) error {
	id, err := parseID(c.Param("clinicId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic id")
	}
	var in AddressInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	settings, err := h.svc.UpdateAddress(c.Request().Context(), id, in)
	return h.respondSettings(c, settings, err)
}

func (h *Handler) PatchOpeningHours(c echo.Context) error {
	id, err := parseID(c.Param("clinicId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic id")
	}
	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	settings, err := h.svc.UpdateOpeningHours(c.Request().Context(), id, body["opening_hours"])
	return h.respondSettings(c, settings, err)
}

func (h *Handler) PatchSpecialties(c echo.Context) error {
	id, err := parseID(c.Param("clinicId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic id")
	}
	var in struct {
		Specialties []string `json:"specialties"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	settings, err := h.svc.UpdateSpecialties(c.Request().Context(), id, in.Specialties)
	return h.respondSettings(c, settings, err)
}

func (h *Handler) PatchImages(c echo.Context) error {
	id, err := parseID(c.Param("clinicId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic id")
	}
	var in ImagesInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	settings, err := h.svc.UpdateImages(c.Request().Context(), id, in)
	return h.respondSettings(c, settings, err)
}

func (h *Handler) PatchMapLocation(c echo.Context) error {
	id, err := parseID(c.Param("clinicId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic id")
	}
	var in MapLocationInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	settings, err := h.svc.UpdateMapLocation(c.Request().Context(), id, in)
	return h.respondSettings(c, settings, err)
}

func (h *Handler) respondSettings(c echo.Context, settings *Settings, err error) error {
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "settings not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, settings)
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
