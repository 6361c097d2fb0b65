package patient

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/uploads"
)

type Handler struct {
	svc   *Service
	files uploads.Store
}

func NewHandler(svc *Service, files uploads.Store) *Handler {
	return &Handler{svc: svc, files: files}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/patients", h.List)
	g.POST("/patients", h.Create)
	g.GET("/patients/profile", h.Profile)
	g.GET("/patients/:id", h.Get)
	g.PUT("/patients/:id", h.Update)
	g.DELETE("/patients/:id", h.Delete)

	g.GET("/patients/:id/procedures", h.ListProcedures)
	g.POST("/patients/:id/procedures", h.AddProcedure)
	g.DELETE("/patients/:id/procedures/:procedureId", h.DeleteProcedure)
	g.GET("/patients/:id/procedures/:procedureId/images", h.ListProcedureImages)
	g.POST("/patients/:id/procedures/:procedureId/images", h.AddProcedureImage)

	g.GET("/patients/:id/anamnese", h.LatestAnamnese)
	g.POST("/patients/:id/anamnese", h.AddAnamnese)
	g.GET("/patients/:id/anamnese/history", h.AnamneseHistory)

	g.GET("/patients/:id/images", h.ListImages)
	g.POST("/patients/:id/images", h.AddImage)
	g.DELETE("/patients/:id/images/:imageId", h.DeleteImage)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return echo.NewHTTPError(http.StatusConflict, "a patient with this email already exists for this clinic")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) List(c echo.Context) error {
	var clinicID *int64
	if raw := queryParam(c, "clinicId", "clinic_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic id")
		}
		clinicID = &id
	}
	patients, err := h.svc.List(c.Request().Context(), clinicID, c.QueryParam("search"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list patients")
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) Profile(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email query parameter is required")
	}
	p, err := h.svc.Profile(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load patient profile")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load patient")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		case errors.Is(err, ErrDuplicateEmail):
			return echo.NewHTTPError(http.StatusConflict, "a patient with this email already exists for this clinic")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete patient")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListProcedures(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	procs, err := h.svc.ListProcedures(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list procedures")
	}
	if procs == nil {
		procs = []*Procedure{}
	}
	return c.JSON(http.StatusOK, procs)
}

func (h *Handler) AddProcedure(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in ProcedureInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	proc, err := h.svc.AddProcedure(c.Request().Context(), id, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, proc)
}

func (h *Handler) DeleteProcedure(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	procID, err := pathID(c, "procedureId")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteProcedure(c.Request().Context(), id, procID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "procedure not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete procedure")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListProcedureImages(c echo.Context) error {
	procID, err := pathID(c, "procedureId")
	if err != nil {
		return err
	}
	imgs, err := h.svc.ListProcedureImages(c.Request().Context(), procID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list procedure images")
	}
	if imgs == nil {
		imgs = []*ProcedureImage{}
	}
	return c.JSON(http.StatusOK, imgs)
}

// AddProcedureImage accepts a multipart upload under the "photo" field.
func (h *Handler) AddProcedureImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	procID, err := pathID(c, "procedureId")
	if err != nil {
		return err
	}
	filename, err := h.saveUpload(c)
	if err != nil {
		return err
	}
	img, err := h.svc.AddProcedureImage(c.Request().Context(), id, procID, filename)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "procedure not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save procedure image")
	}
	return c.JSON(http.StatusCreated, img)
}

func (h *Handler) LatestAnamnese(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.svc.LatestAnamnese(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "anamnese not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load anamnese")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) AddAnamnese(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in AnamneseInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.svc.AddAnamnese(c.Request().Context(), id, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) AnamneseHistory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	history, err := h.svc.AnamneseHistory(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load anamnese history")
	}
	if history == nil {
		history = []*Anamnese{}
	}
	return c.JSON(http.StatusOK, history)
}

func (h *Handler) ListImages(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	imgs, err := h.svc.ListImages(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list patient images")
	}
	if imgs == nil {
		imgs = []*Image{}
	}
	return c.JSON(http.StatusOK, imgs)
}

// AddImage accepts a multipart upload under the "photo" field plus an
// optional "description" form value.
func (h *Handler) AddImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	filename, err := h.saveUpload(c)
	if err != nil {
		return err
	}
	var description *string
	if d := c.FormValue("description"); d != "" {
		description = &d
	}
	img, err := h.svc.AddImage(c.Request().Context(), id, filename, description)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save patient image")
	}
	return c.JSON(http.StatusCreated, img)
}

func (h *Handler) DeleteImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	imageID, err := pathID(c, "imageId")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteImage(c.Request().Context(), id, imageID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "image not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete image")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) saveUpload(c echo.Context) (string, error) {
	fh, err := c.FormFile("photo")
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "photo file is required")
	}
	name, err := h.files.SaveMultipart("photo", fh)
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrNotAnImage):
			return "", echo.NewHTTPError(http.StatusBadRequest, "only image files are accepted")
		case errors.Is(err, uploads.ErrFileTooLarge):
			return "", echo.NewHTTPError(http.StatusBadRequest, "file exceeds the 5MB limit")
		}
		return "", echo.NewHTTPError(http.StatusInternalServerError, "failed to store file")
	}
	return name, nil
}

// queryParam returns the first non-empty value among the accepted
// spellings; query strings bypass the body case conversion.
func queryParam(c echo.Context, names ...string) string {
	for _, n := range names {
		if v := c.QueryParam(n); v != "" {
			return v
		}
	}
	return ""
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
