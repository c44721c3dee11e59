// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staff_reviews/internal/app"
	"staff_reviews/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Reviews   *app.ReviewRepository
	Employees *app.EmployeeDirectory
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type reviewsPage struct {
	Items []domain.ReviewView `json:"items"`
}

type employeesPage struct {
	Items []domain.Employee `json:"items"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1/reviews", func(r chi.Router) {
		r.Get("/", h.listReviews)
		r.Post("/", h.createReview)
		r.Get("/{id}", h.getReview)
		r.Put("/{id}", h.updateReview)
		r.Delete("/{id}", h.deleteReview)
	})
	s.mux.Route("/v1/employees", func(r chi.Router) {
		r.Get("/", h.listEmployees)
		r.Post("/", h.createEmployee)
		r.Get("/{id}", h.getEmployee)
		r.Delete("/{id}", h.deleteEmployee)
		r.Get("/{id}/reviews", h.listEmployeeReviews)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotSaved):
		writeProblem(w, http.StatusConflict, "Not Saved", err.Error())
	case errors.As(err, &ve):
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", ve.Message)
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "internal error")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached writes v with an ETag and honours If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	writeBody(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "internal error")
		return
	}
	writeBody(w, status, body)
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return 0, false
	}
	return id, true
}

// decodeObject reads a JSON object body, keeping numbers as json.Number.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil || body == nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be a JSON object")
		return nil, false
	}
	return body, true
}

// ---- reviews ----

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	var (
		rs  []*domain.Review
		err error
	)
	if es := r.URL.Query().Get("employee_id"); es != "" {
		empID, perr := strconv.ParseInt(es, 10, 64)
		if perr != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid employee_id", "employee_id must be a number")
			return
		}
		rs, err = h.Reviews.ListByEmployee(r.Context(), empID)
	} else {
		rs, err = h.Reviews.GetAll(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, reviewsPage{Items: h.Reviews.Views(rs)})
}

func (h *Handlers) getReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rv, err := h.Reviews.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rv == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "review not found")
		return
	}
	writeCached(w, r, h.Reviews.View(rv))
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeObject(w, r)
	if !ok {
		return
	}
	rv, err := h.Reviews.CreateFromValues(r.Context(), app.ReviewValuesFromPayload(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	view := h.Reviews.View(rv)
	if view.ID != nil {
		w.Header().Set("Location", fmt.Sprintf("/v1/reviews/%d", *view.ID))
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handlers) updateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	body, ok := decodeObject(w, r)
	if !ok {
		return
	}
	rv, err := h.Reviews.Patch(r.Context(), id, app.ReviewValuesFromPayload(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rv == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "review not found")
		return
	}
	writeJSON(w, http.StatusOK, h.Reviews.View(rv))
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rv, err := h.Reviews.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rv == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "review not found")
		return
	}
	if err := h.Reviews.Delete(r.Context(), rv); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- employees ----

func (h *Handlers) listEmployees(w http.ResponseWriter, r *http.Request) {
	es, err := h.Employees.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if es == nil {
		es = []domain.Employee{}
	}
	writeCached(w, r, employeesPage{Items: es})
}

func (h *Handlers) getEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	e, err := h.Employees.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, e)
}

func (h *Handlers) createEmployee(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeObject(w, r)
	if !ok {
		return
	}
	in, err := app.EmployeeFromPayload(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.Employees.Create(r.Context(), in.Name, in.JobTitle)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/employees/%d", e.ID))
	writeJSON(w, http.StatusCreated, e)
}

func (h *Handlers) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.Employees.Get(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Employees.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listEmployeeReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.Employees.Get(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	rs, err := h.Reviews.ListByEmployee(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, reviewsPage{Items: h.Reviews.Views(rs)})
}
