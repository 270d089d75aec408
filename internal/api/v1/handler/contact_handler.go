package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// ContactHandler serves the public contact form
type ContactHandler struct {
	contactService service.ContactService
	validate       *validator.Validate
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService service.ContactService, validate *validator.Validate) *ContactHandler {
	return &ContactHandler{contactService: contactService, validate: validate}
}

// RegisterRoutes mounts the public contact route
func (h *ContactHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/contact", h.submit)
}

// submit godoc
// @Summary Send a contact message
// @Description Stores a message from the public contact form for the admin inbox.
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactCreateDTO true "Contact message"
// @Success 201 {object} dto.ContactResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 500 {string} string "Failed to store message"
// @Router /contact [post]
func (h *ContactHandler) submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.ContactCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	m, err := h.contactService.Submit(r.Context(), req.Name, req.Email, req.Phone, req.Subject, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toContactDTO(m))
}
