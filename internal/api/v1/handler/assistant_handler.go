package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// AssistantHandler serves the assistant workspace: submitting content and
// reacting to moderation feedback
type AssistantHandler struct {
	moderationService service.ModerationService
	storageService    service.StorageService
	validate          *validator.Validate
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(moderationService service.ModerationService, storageService service.StorageService, validate *validator.Validate) *AssistantHandler {
	return &AssistantHandler{moderationService: moderationService, storageService: storageService, validate: validate}
}

// RegisterRoutes mounts assistant routes behind the assistant guard
func (h *AssistantHandler) RegisterRoutes(mux *http.ServeMux, assistantMw func(http.Handler) http.Handler) {
	mux.Handle("/assistant/content", assistantMw(http.HandlerFunc(h.handleContent)))
	mux.Handle("/assistant/content/", assistantMw(http.HandlerFunc(h.handleContentItem)))
	mux.Handle("/assistant/uploads", assistantMw(http.HandlerFunc(h.initiateUpload)))
}

func (h *AssistantHandler) handleContent(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submit(w, r)
	case http.MethodGet:
		h.listMine(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *AssistantHandler) handleContentItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/assistant/content/")
	if id, ok := strings.CutSuffix(rest, "/resubmit"); ok {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		h.resubmit(w, r, id)
		return
	}
	switch r.Method {
	case http.MethodPut:
		h.update(w, r, rest)
	case http.MethodDelete:
		h.delete(w, r, rest)
	default:
		http.NotFound(w, r)
	}
}

func contentDraftFromDTO(req dto.ContentCreateDTO) service.ContentDraft {
	return service.ContentDraft{
		Title:       req.Title,
		Section:     model.Section(req.Section),
		Grade:       req.Grade,
		DownloadURL: req.DownloadURL,
	}
}

// submit godoc
// @Summary Submit content for review
// @Description Creates a content item in the pending state. An admin decides its fate.
// @Tags assistant
// @Accept json
// @Produce json
// @Param request body dto.ContentCreateDTO true "Content submission"
// @Success 201 {object} dto.ContentResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "Forbidden"
// @Router /assistant/content [post]
// @Security BearerAuth
func (h *AssistantHandler) submit(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	var req dto.ContentCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	item, err := h.moderationService.Submit(r.Context(), p, contentDraftFromDTO(req))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toContentDTO(item))
}

// listMine godoc
// @Summary List the caller's submissions
// @Description Returns every item the caller submitted, including declined ones with their feedback.
// @Tags assistant
// @Produce json
// @Success 200 {array} dto.ContentResponseDTO
// @Failure 403 {string} string "Forbidden"
// @Router /assistant/content [get]
// @Security BearerAuth
func (h *AssistantHandler) listMine(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	items, err := h.moderationService.ListMine(r.Context(), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContentDTOs(items))
}

// resubmit godoc
// @Summary Resubmit a refine-flagged item
// @Description Replaces the item's fields and returns it to the review queue, clearing the feedback.
// @Tags assistant
// @Accept json
// @Produce json
// @Param contentId path string true "Content item ID"
// @Param request body dto.ContentCreateDTO true "Revised content"
// @Success 200 {object} dto.ContentResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "Forbidden"
// @Failure 409 {string} string "Item is not awaiting resubmission"
// @Router /assistant/content/{contentId}/resubmit [post]
// @Security BearerAuth
func (h *AssistantHandler) resubmit(w http.ResponseWriter, r *http.Request, id string) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	var req dto.ContentCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	item, err := h.moderationService.Resubmit(r.Context(), p, id, contentDraftFromDTO(req))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContentDTO(item))
}

// update godoc
// @Summary Edit an unreviewed submission
// @Tags assistant
// @Accept json
// @Produce json
// @Param contentId path string true "Content item ID"
// @Param request body dto.ContentCreateDTO true "Updated content"
// @Success 200 {object} dto.ContentResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "Forbidden"
// @Router /assistant/content/{contentId} [put]
// @Security BearerAuth
func (h *AssistantHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	var req dto.ContentCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	item, err := h.moderationService.Update(r.Context(), p, id, contentDraftFromDTO(req))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContentDTO(item))
}

// delete godoc
// @Summary Delete one of the caller's submissions
// @Tags assistant
// @Param contentId path string true "Content item ID"
// @Success 204 {string} string "No Content"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /assistant/content/{contentId} [delete]
// @Security BearerAuth
func (h *AssistantHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	if err := h.moderationService.Delete(r.Context(), p, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// initiateUpload godoc
// @Summary Initiate a PDF upload
// @Description Returns a presigned PUT URL for a new content PDF and the public URL it will have.
// @Tags assistant
// @Produce json
// @Success 200 {object} dto.UploadResponseDTO
// @Failure 403 {string} string "Forbidden"
// @Failure 500 {string} string "Failed to presign upload"
// @Router /assistant/uploads [post]
// @Security BearerAuth
func (h *AssistantHandler) initiateUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	uploadURL, publicURL, err := h.storageService.InitiateContentUpload(r.Context())
	if err != nil {
		http.Error(w, "Failed to presign upload", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.UploadResponseDTO{UploadURL: uploadURL, PublicURL: publicURL})
}
