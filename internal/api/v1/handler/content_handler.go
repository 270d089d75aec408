package handler

import (
	"net/http"
	"strconv"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"
)

// ContentHandler serves the student-facing catalog
type ContentHandler struct {
	catalogService service.CatalogService
	storageService service.StorageService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(catalogService service.CatalogService, storageService service.StorageService) *ContentHandler {
	return &ContentHandler{catalogService: catalogService, storageService: storageService}
}

// RegisterRoutes mounts catalog routes behind the student guard
func (h *ContentHandler) RegisterRoutes(mux *http.ServeMux, studentMw func(http.Handler) http.Handler) {
	mux.Handle("/content", studentMw(http.HandlerFunc(h.browse)))
	mux.Handle("/content/", studentMw(http.HandlerFunc(h.getItem)))
}

// browse godoc
// @Summary Browse approved content
// @Description Lists approved items. Defaults to the caller's own grade; pass grade=0 for all levels. Free-plan students see a capped prefix of the listing.
// @Tags content
// @Produce json
// @Param grade query int false "Grade level (1-6, 0 for all levels; defaults to the caller's grade)"
// @Param section query string false "Section filter (lessons, exercises, summaries)"
// @Success 200 {array} dto.ContentResponseDTO
// @Failure 400 {string} string "Invalid grade or section"
// @Failure 403 {string} string "Forbidden"
// @Router /content [get]
// @Security BearerAuth
func (h *ContentHandler) browse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	p, _ := middleware.PrincipalFromContext(r.Context())

	grade := 0
	if raw := r.URL.Query().Get("grade"); raw != "" {
		g, err := strconv.Atoi(raw)
		if err != nil || (g != 0 && !model.ValidGrade(g)) {
			http.Error(w, "Invalid grade", http.StatusBadRequest)
			return
		}
		grade = g
	} else if p != nil && p.Grade != nil {
		grade = *p.Grade
	}

	var section model.Section
	if raw := r.URL.Query().Get("section"); raw != "" {
		parsed, err := model.ParseSection(raw)
		if err != nil {
			http.Error(w, "Invalid section", http.StatusBadRequest)
			return
		}
		section = parsed
	}

	items, err := h.catalogService.Browse(r.Context(), p, grade, section)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContentDTOs(items))
}

// getItem godoc
// @Summary Get one approved content item
// @Tags content
// @Produce json
// @Param contentId path string true "Content item ID"
// @Success 200 {object} dto.ContentResponseDTO
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /content/{contentId} [get]
// @Security BearerAuth
func (h *ContentHandler) getItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	p, _ := middleware.PrincipalFromContext(r.Context())
	rest := strings.TrimPrefix(r.URL.Path, "/content/")

	if id, ok := strings.CutSuffix(rest, "/download"); ok {
		h.download(w, r, p, id)
		return
	}

	item, err := h.catalogService.Get(r.Context(), p, rest)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContentDTO(item))
}

// download godoc
// @Summary Get a short-lived download URL for a content item
// @Description Resolves the item under the caller's entitlement and signs a temporary GET URL for its PDF.
// @Tags content
// @Produce json
// @Param contentId path string true "Content item ID"
// @Success 200 {object} dto.DownloadResponseDTO
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /content/{contentId}/download [get]
// @Security BearerAuth
func (h *ContentHandler) download(w http.ResponseWriter, r *http.Request, p *model.Principal, id string) {
	item, err := h.catalogService.Get(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	url, err := h.storageService.PresignDownloadForURL(r.Context(), item.DownloadURL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DownloadResponseDTO{DownloadURL: url})
}
