package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mhcho/manualhub/internal/core/domain"
	"github.com/mhcho/manualhub/internal/core/ports"
	"github.com/mhcho/manualhub/internal/infrastructure/resilience"
	"github.com/mhcho/manualhub/internal/observability/metrics"
)

// maxUploadBytes bounds a manual upload; the whole file is buffered because
// the same bytes go to the processing service and then to storage.
const maxUploadBytes = 64 << 20

type Router struct {
	service string

	registrar ports.ModelRegistrar
	chat      ports.QuestionAnswerer
	models    ports.ModelManager
	catalog   ports.CatalogManager
	manuals   ports.ManualReader
	identity  identity
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(
	service string,
	registrar ports.ModelRegistrar,
	chat ports.QuestionAnswerer,
	models ports.ModelManager,
	catalog ports.CatalogManager,
	manuals ports.ManualReader,
	users ports.UserRepository,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		service:   service,
		registrar: registrar,
		chat:      chat,
		models:    models,
		catalog:   catalog,
		manuals:   manuals,
		identity:  identity{users: users},
		metrics:   m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.Handle("GET /metrics", rt.metrics.Handler())

	mux.HandleFunc("POST /v1/brands", rt.createBrand)
	mux.HandleFunc("GET /v1/brands", rt.listBrands)
	mux.HandleFunc("GET /v1/brands/{id}", rt.getBrand)
	mux.HandleFunc("PUT /v1/brands/{id}", rt.updateBrand)
	mux.HandleFunc("DELETE /v1/brands/{id}", rt.deleteBrand)
	mux.HandleFunc("POST /v1/brands/{id}/categories", rt.createCategory)
	mux.HandleFunc("GET /v1/brands/{id}/categories", rt.listCategories)
	mux.HandleFunc("PUT /v1/categories/{id}", rt.updateCategory)
	mux.HandleFunc("DELETE /v1/categories/{id}", rt.deleteCategory)

	mux.HandleFunc("GET /v1/models", rt.listModels)
	mux.HandleFunc("GET /v1/models/all", rt.listAllModels)
	mux.HandleFunc("POST /v1/models", rt.registerPublicModel)
	mux.HandleFunc("GET /v1/models/{id}", rt.getModel)
	mux.HandleFunc("PUT /v1/models/{id}", rt.updatePublicModel)
	mux.HandleFunc("DELETE /v1/models/{id}", rt.deleteModelByAdmin)
	mux.HandleFunc("POST /v1/models/{id}/question", rt.askQuestion)
	mux.HandleFunc("DELETE /v1/models/{id}/manual", rt.deleteManualByModel)

	mux.HandleFunc("POST /v1/personal/models", rt.registerPersonalModel)
	mux.HandleFunc("GET /v1/personal/models", rt.listPersonalModels)
	mux.HandleFunc("PUT /v1/personal/models/{id}", rt.updatePersonalModel)
	mux.HandleFunc("DELETE /v1/personal/models/{id}", rt.deletePersonalModel)
	mux.HandleFunc("GET /v1/personal/manuals", rt.listPersonalManuals)

	mux.HandleFunc("GET /v1/manuals/{id}/file", rt.downloadManual)

	handler := rt.metrics.Middleware(rt.service, mux)
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- brands and categories ---

func (rt *Router) createBrand(w http.ResponseWriter, r *http.Request) {
	if _, ok := rt.requireAdmin(w, r); !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "brand name is required")
		return
	}
	brand, err := rt.catalog.CreateBrand(r.Context(), req.Name)
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, brand)
}

func (rt *Router) listBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := rt.catalog.ListBrands(r.Context())
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(brands))
}

func (rt *Router) getBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	brand, err := rt.catalog.GetBrand(r.Context(), id)
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, brand)
}

func (rt *Router) updateBrand(w http.ResponseWriter, r *http.Request) {
	if _, ok := rt.requireAdmin(w, r); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	brand, err := rt.catalog.UpdateBrand(r.Context(), id, req.Name)
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, brand)
}

func (rt *Router) deleteBrand(w http.ResponseWriter, r *http.Request) {
	if _, ok := rt.requireAdmin(w, r); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := rt.catalog.DeleteBrand(r.Context(), id); err != nil {
		rt.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) createCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := rt.requireAdmin(w, r); !ok {
		return
	}
	brandID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "category name is required")
		return
	}
	category, err := rt.catalog.CreateCategory(r.Context(), brandID, req.Name)
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (rt *Router) listCategories(w http.ResponseWriter, r *http.Request) {
	brandID, ok := pathID(w, r)
	if !ok {
		return
	}
	categories, err := rt.catalog.ListCategories(r.Context(), brandID)
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(categories))
}

func (rt *Router) updateCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := rt.requireAdmin(w, r); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	category, err := rt.catalog.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (rt *Router) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := rt.requireAdmin(w, r); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := rt.catalog.DeleteCategory(r.Context(), id); err != nil {
		rt.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- models ---

func (rt *Router) listModels(w http.ResponseWriter, r *http.Request) {
	var (
		models []domain.Model
		err    error
	)
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		categoryID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "category_id must be an integer")
			return
		}
		models, err = rt.models.ListPublicByCategory(r.Context(), categoryID)
	} else {
		models, err = rt.models.ListPublic(r.Context())
	}
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(models))
}

func (rt *Router) listAllModels(w http.ResponseWriter, r *http.Request) {
	if _, ok := rt.requireAdmin(w, r); !ok {
		return
	}
	models, err := rt.models.ListAll(r.Context())
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(models))
}

func (rt *Router) getModel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	model, err := rt.models.GetByID(r.Context(), id)
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

func (rt *Router) registerPublicModel(w http.ResponseWriter, r *http.Request) {
	if _, ok := rt.requireAdmin(w, r); !ok {
		return
	}
	name, upload, ok := rt.parseManualUpload(w, r)
	if !ok {
		return
	}
	categoryID, err := strconv.ParseInt(r.FormValue("category_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "category_id must be an integer")
		return
	}

	start := time.Now()
	model, err := rt.registrar.RegisterPublic(r.Context(), name, categoryID, upload)
	rt.metrics.RecordIngest(rt.service, "public", errorOutcome(err), time.Since(start))
	if err != nil {
		rt.recordProcessorFailure("ml_submit", err)
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, model)
}

func (rt *Router) updatePublicModel(w http.ResponseWriter, r *http.Request) {
	if _, ok := rt.requireAdmin(w, r); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name       string `json:"name"`
		CategoryID int64  `json:"category_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	model, err := rt.models.UpdatePublic(r.Context(), id, req.Name, req.CategoryID)
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

func (rt *Router) deleteModelByAdmin(w http.ResponseWriter, r *http.Request) {
	if _, ok := rt.requireAdmin(w, r); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := rt.models.DeleteByAdmin(r.Context(), id); err != nil {
		rt.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) askQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Question string `json:"question"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := rt.chat.Answer(r.Context(), id, req.Question)
	if err != nil {
		rt.metrics.RecordQuestion(rt.service, errorOutcome(err), 0)
		rt.recordProcessorFailure("ml_ask", err)
		rt.writeDomainError(w, err)
		return
	}
	rt.metrics.RecordQuestion(rt.service, "ok", len(answer.Images))
	writeJSON(w, http.StatusOK, answer)
}

func (rt *Router) deleteManualByModel(w http.ResponseWriter, r *http.Request) {
	user, ok := rt.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := rt.manuals.DeleteByModel(r.Context(), id, user); err != nil {
		rt.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- personal models ---

func (rt *Router) registerPersonalModel(w http.ResponseWriter, r *http.Request) {
	user, ok := rt.requireUser(w, r)
	if !ok {
		return
	}
	name, upload, parsed := rt.parseManualUpload(w, r)
	if !parsed {
		return
	}

	start := time.Now()
	model, err := rt.registrar.RegisterPersonal(r.Context(), name, user.ID, upload)
	rt.metrics.RecordIngest(rt.service, "personal", errorOutcome(err), time.Since(start))
	if err != nil {
		rt.recordProcessorFailure("ml_submit", err)
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, model)
}

func (rt *Router) listPersonalModels(w http.ResponseWriter, r *http.Request) {
	user, ok := rt.requireUser(w, r)
	if !ok {
		return
	}
	models, err := rt.models.ListByOwner(r.Context(), user.ID)
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(models))
}

func (rt *Router) updatePersonalModel(w http.ResponseWriter, r *http.Request) {
	user, ok := rt.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	model, err := rt.models.UpdatePersonal(r.Context(), id, req.Name, user.ID)
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

func (rt *Router) deletePersonalModel(w http.ResponseWriter, r *http.Request) {
	user, ok := rt.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := rt.models.DeletePersonal(r.Context(), id, user.ID); err != nil {
		rt.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) listPersonalManuals(w http.ResponseWriter, r *http.Request) {
	user, ok := rt.requireUser(w, r)
	if !ok {
		return
	}
	manuals, err := rt.manuals.ListByUploader(r.Context(), user.ID)
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(manuals))
}

// --- manual download ---

func (rt *Router) downloadManual(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	manual, file, err := rt.manuals.Open(r.Context(), id)
	if err != nil {
		rt.writeDomainError(w, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", manual.FileName))
	_, _ = io.Copy(w, file)
}

// --- helpers ---

// parseManualUpload reads the multipart form and buffers the manual file.
func (rt *Router) parseManualUpload(w http.ResponseWriter, r *http.Request) (string, ports.ManualUpload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return "", ports.ManualUpload{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return "", ports.ManualUpload{}, false
	}
	name := r.FormValue("name")
	return name, ports.ManualUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, true
}

func (rt *Router) requireUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, err := rt.identity.resolve(r)
	if err != nil {
		var idErr *identityError
		if errors.As(err, &idErr) {
			writeError(w, http.StatusUnauthorized, idErr.message)
			return nil, false
		}
		rt.writeDomainError(w, err)
		return nil, false
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, userIDHeader+" header is required")
		return nil, false
	}
	return user, true
}

func (rt *Router) requireAdmin(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := rt.requireUser(w, r)
	if !ok {
		return nil, false
	}
	if !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "admin role required")
		return nil, false
	}
	return user, true
}

func (rt *Router) writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, mapErrorToHTTPStatus(err), err.Error())
}

func (rt *Router) recordProcessorFailure(operation string, err error) {
	switch {
	case domain.IsKind(err, domain.ErrProcessingFailed):
		rt.metrics.RecordProcessorError(rt.service, operation, "processing_failed")
	case domain.IsKind(err, domain.ErrNoResponse):
		rt.metrics.RecordProcessorError(rt.service, operation, "no_response")
	case domain.IsKind(err, domain.ErrUnreachable):
		rt.metrics.RecordProcessorError(rt.service, operation, "unreachable")
	case resilience.IsCircuitOpen(err):
		rt.metrics.RecordProcessorError(rt.service, operation, "circuit_open")
	}
}

func errorOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsValidation(err):
		return "rejected"
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsKind(err, domain.ErrProcessingFailed),
		domain.IsKind(err, domain.ErrNoResponse),
		domain.IsKind(err, domain.ErrUnreachable):
		return "processor_error"
	case domain.IsKind(err, domain.ErrStorage):
		return "storage_error"
	default:
		return "error"
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// emptyIfNil keeps list responses as JSON arrays even when nothing matched.
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
