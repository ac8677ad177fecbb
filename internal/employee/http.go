package employee

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"employee-service/internal/httputil"
	"employee-service/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service        Service
	validate       *validator.Validate
	logger         *slog.Logger
	metrics        *metrics.Metrics
	maxUploadBytes int64
}

func NewHandler(service Service, logger *slog.Logger, metrics *metrics.Metrics, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{
		service:        service,
		validate:       validator.New(),
		logger:         logger,
		metrics:        metrics,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/employees", h.CreateEmployee)
	router.Get("/employees", h.GetAllEmployees)
	router.Get("/employees/{id}", h.GetEmployee)
	router.Get("/employees/{id}/image", h.GetEmployeeImage)
	router.Put("/employees/{id}", h.UpdateEmployee)
	router.Delete("/employees/{id}", h.DeleteEmployee)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	req := CreateEmployeeRequest{
		Name:         r.FormValue("name"),
		Email:        r.FormValue("email"),
		MobileNumber: r.FormValue("mobileNumber"),
		Designation:  r.FormValue("designation"),
		Gender:       r.FormValue("gender"),
		Courses:      r.FormValue("courses"),
	}

	// Reject malformed input before the image payload is touched
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "image is required")
		return
	}
	defer file.Close()

	h.logger.InfoContext(r.Context(), "creating employee", "email", req.Email)
	created, err := h.service.CreateEmployee(r.Context(), req, &Upload{
		Filename: header.Filename,
		Content:  file,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordEmployeeCreated(r.Context())

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching all employees")

	employees, err := h.service.GetAllEmployees(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordEmployeesListViewed(r.Context())

	httputil.RespondWithJSON(w, http.StatusOK, employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	h.logger.InfoContext(r.Context(), "fetching employee by ID")
	emp, err := h.service.GetEmployeeByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordEmployeeViewed(r.Context())

	httputil.RespondWithJSON(w, http.StatusOK, emp)
}

func (h *Handler) GetEmployeeImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	image, locator, err := h.service.GetEmployeeImage(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	defer image.Close()

	contentType := mime.TypeByExtension(filepath.Ext(locator))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, image); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream image", "error", err)
	}
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	req := UpdateEmployeeRequest{
		Name:         r.FormValue("name"),
		Email:        r.FormValue("email"),
		MobileNumber: r.FormValue("mobileNumber"),
		Designation:  r.FormValue("designation"),
		Gender:       r.FormValue("gender"),
		Courses:      r.FormValue("courses"),
	}

	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	// The image part is optional on update; the existing asset is kept
	// when it is absent.
	var upload *Upload
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		upload = &Upload{Filename: header.Filename, Content: file}
	}

	h.logger.InfoContext(r.Context(), "updating employee", "email", req.Email)
	updated, err := h.service.UpdateEmployee(r.Context(), id, req, upload)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordEmployeeUpdated(r.Context())

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting employee")
	if err := h.service.DeleteEmployee(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordEmployeeDeleted(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrEmployeeNotFound) {
		h.logger.Info("employee not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Employee not found")
		return
	}
	if errors.Is(err, ErrEmailExists) {
		h.logger.Info("duplicate email")
		httputil.RespondWithError(w, http.StatusConflict, err.Error())
		return
	}
	if errors.Is(err, ErrInvalidInput) {
		h.logger.Info("invalid input")
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("internal error", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}
