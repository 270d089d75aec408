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

// AdminHandler serves the admin dashboard: moderation, user management,
// payment review and the contact inbox
type AdminHandler struct {
	moderationService service.ModerationService
	billingService    service.BillingService
	userService       service.UserService
	contactService    service.ContactService
	storageService    service.StorageService
	validate          *validator.Validate
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	moderationService service.ModerationService,
	billingService service.BillingService,
	userService service.UserService,
	contactService service.ContactService,
	storageService service.StorageService,
	validate *validator.Validate,
) *AdminHandler {
	return &AdminHandler{
		moderationService: moderationService,
		billingService:    billingService,
		userService:       userService,
		contactService:    contactService,
		storageService:    storageService,
		validate:          validate,
	}
}

// RegisterRoutes mounts admin routes behind the admin guard
func (h *AdminHandler) RegisterRoutes(mux *http.ServeMux, adminMw func(http.Handler) http.Handler) {
	mux.Handle("/admin/content", adminMw(http.HandlerFunc(h.handleContent)))
	mux.Handle("/admin/content/", adminMw(http.HandlerFunc(h.handleContentItem)))
	mux.Handle("/admin/users", adminMw(http.HandlerFunc(h.listUsers)))
	mux.Handle("/admin/users/", adminMw(http.HandlerFunc(h.handleUser)))
	mux.Handle("/admin/payments", adminMw(http.HandlerFunc(h.listPayments)))
	mux.Handle("/admin/payments/", adminMw(http.HandlerFunc(h.decidePayment)))
	mux.Handle("/admin/subscriptions", adminMw(http.HandlerFunc(h.listSubscriptions)))
	mux.Handle("/admin/messages", adminMw(http.HandlerFunc(h.listMessages)))
	mux.Handle("/admin/messages/", adminMw(http.HandlerFunc(h.deleteMessage)))
	mux.Handle("/admin/uploads", adminMw(http.HandlerFunc(h.initiateUpload)))
}

func (h *AdminHandler) handleContent(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listContent(w, r)
	case http.MethodPost:
		h.createContent(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *AdminHandler) handleContentItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/admin/content/")
	if rest == "review" {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		h.reviewQueue(w, r)
		return
	}
	if id, ok := strings.CutSuffix(rest, "/decision"); ok {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		h.decideContent(w, r, id)
		return
	}
	switch r.Method {
	case http.MethodPut:
		h.updateContent(w, r, rest)
	case http.MethodDelete:
		h.deleteContent(w, r, rest)
	default:
		http.NotFound(w, r)
	}
}

// listContent godoc
// @Summary List all content items
// @Tags admin
// @Produce json
// @Success 200 {array} dto.ContentResponseDTO
// @Failure 403 {string} string "Forbidden"
// @Router /admin/content [get]
// @Security BearerAuth
func (h *AdminHandler) listContent(w http.ResponseWriter, r *http.Request) {
	items, err := h.moderationService.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContentDTOs(items))
}

// reviewQueue godoc
// @Summary List items awaiting a decision
// @Tags admin
// @Produce json
// @Success 200 {array} dto.ContentResponseDTO
// @Failure 403 {string} string "Forbidden"
// @Router /admin/content/review [get]
// @Security BearerAuth
func (h *AdminHandler) reviewQueue(w http.ResponseWriter, r *http.Request) {
	items, err := h.moderationService.ReviewQueue(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContentDTOs(items))
}

// createContent godoc
// @Summary Upload content directly
// @Description Creates a content item that skips review and is immediately visible to students.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.ContentCreateDTO true "Content"
// @Success 201 {object} dto.ContentResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "Forbidden"
// @Router /admin/content [post]
// @Security BearerAuth
func (h *AdminHandler) createContent(w http.ResponseWriter, r *http.Request) {
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
	item, err := h.moderationService.CreateApproved(r.Context(), p, contentDraftFromDTO(req))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toContentDTO(item))
}

// decideContent godoc
// @Summary Decide on a submitted item
// @Description Approves, declines, or sends the item back for refinement. Refine requires feedback.
// @Tags admin
// @Accept json
// @Produce json
// @Param contentId path string true "Content item ID"
// @Param request body dto.ContentDecisionDTO true "Decision"
// @Success 200 {object} dto.ContentResponseDTO
// @Failure 400 {string} string "Invalid decision or missing feedback"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Item already reached a final decision"
// @Router /admin/content/{contentId}/decision [post]
// @Security BearerAuth
func (h *AdminHandler) decideContent(w http.ResponseWriter, r *http.Request, id string) {
	var req dto.ContentDecisionDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	item, err := h.moderationService.Decide(r.Context(), id, model.ContentStatus(req.Decision), req.Feedback)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContentDTO(item))
}

// updateContent godoc
// @Summary Edit any content item
// @Tags admin
// @Accept json
// @Produce json
// @Param contentId path string true "Content item ID"
// @Param request body dto.ContentCreateDTO true "Updated content"
// @Success 200 {object} dto.ContentResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 404 {string} string "Not found"
// @Router /admin/content/{contentId} [put]
// @Security BearerAuth
func (h *AdminHandler) updateContent(w http.ResponseWriter, r *http.Request, id string) {
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

// deleteContent godoc
// @Summary Delete any content item
// @Tags admin
// @Param contentId path string true "Content item ID"
// @Success 204 {string} string "No Content"
// @Failure 404 {string} string "Not found"
// @Router /admin/content/{contentId} [delete]
// @Security BearerAuth
func (h *AdminHandler) deleteContent(w http.ResponseWriter, r *http.Request, id string) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	if err := h.moderationService.Delete(r.Context(), p, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listUsers godoc
// @Summary List all user accounts
// @Tags admin
// @Produce json
// @Success 200 {array} dto.ProfileDTO
// @Failure 403 {string} string "Forbidden"
// @Router /admin/users [get]
// @Security BearerAuth
func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]dto.ProfileDTO, 0, len(users))
	for i := range users {
		out = append(out, toProfileDTO(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) handleUser(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/admin/users/")
	switch r.Method {
	case http.MethodGet:
		h.getUser(w, r, id)
	case http.MethodPut:
		h.updateUser(w, r, id)
	case http.MethodDelete:
		h.deleteUser(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// getUser godoc
// @Summary Get one user account
// @Tags admin
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} dto.ProfileDTO
// @Failure 404 {string} string "Not found"
// @Router /admin/users/{userId} [get]
// @Security BearerAuth
func (h *AdminHandler) getUser(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.userService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(p))
}

// updateUser godoc
// @Summary Update a user account
// @Description Changes any combination of name, grade, role, plan and the active flag.
// @Tags admin
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body dto.UserUpdateDTO true "Account changes"
// @Success 200 {object} dto.ProfileDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 404 {string} string "Not found"
// @Router /admin/users/{userId} [put]
// @Security BearerAuth
func (h *AdminHandler) updateUser(w http.ResponseWriter, r *http.Request, id string) {
	var req dto.UserUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	current, err := h.userService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if req.Name != nil || req.Grade != nil {
		name := current.Name
		if req.Name != nil {
			name = *req.Name
		}
		grade := current.Grade
		if req.Grade != nil {
			grade = req.Grade
		}
		if _, err := h.userService.UpdateProfile(r.Context(), id, name, grade); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if req.Role != nil {
		if err := h.userService.SetRole(r.Context(), id, model.Role(*req.Role)); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if req.Plan != nil {
		if err := h.userService.SetPlan(r.Context(), id, model.Plan(*req.Plan)); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if req.IsActive != nil {
		if err := h.userService.SetActive(r.Context(), id, *req.IsActive); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	updated, err := h.userService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(updated))
}

// deleteUser godoc
// @Summary Delete a user account
// @Tags admin
// @Param userId path string true "User ID"
// @Success 204 {string} string "No Content"
// @Failure 404 {string} string "Not found"
// @Router /admin/users/{userId} [delete]
// @Security BearerAuth
func (h *AdminHandler) deleteUser(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.userService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listSubscriptions godoc
// @Summary List all subscriptions
// @Tags admin
// @Produce json
// @Success 200 {array} dto.SubscriptionResponseDTO
// @Failure 403 {string} string "Forbidden"
// @Router /admin/subscriptions [get]
// @Security BearerAuth
func (h *AdminHandler) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	subs, err := h.billingService.ListSubscriptions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]dto.SubscriptionResponseDTO, 0, len(subs))
	for i := range subs {
		dtos = append(dtos, toSubscriptionDTO(&subs[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// listPayments godoc
// @Summary List all payment submissions
// @Tags admin
// @Produce json
// @Success 200 {array} dto.PaymentResponseDTO
// @Failure 403 {string} string "Forbidden"
// @Router /admin/payments [get]
// @Security BearerAuth
func (h *AdminHandler) listPayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	payments, err := h.billingService.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTOs(payments))
}

// decidePayment godoc
// @Summary Decide on a payment submission
// @Description Approves, rejects, or sends the payment back for revision. Approval opens a 30-day paid window for the payer.
// @Tags admin
// @Accept json
// @Produce json
// @Param paymentId path string true "Payment submission ID"
// @Param request body dto.PaymentDecisionDTO true "Decision"
// @Success 200 {object} dto.PaymentResponseDTO
// @Failure 400 {string} string "Invalid decision or missing feedback"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Payment already reviewed"
// @Router /admin/payments/{paymentId}/decision [post]
// @Security BearerAuth
func (h *AdminHandler) decidePayment(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/admin/payments/")
	id, ok := strings.CutSuffix(rest, "/decision")
	if !ok || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.PaymentDecisionDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.billingService.Review(r.Context(), id, model.PaymentStatus(req.Decision), req.Feedback)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTO(p))
}

// listMessages godoc
// @Summary List contact messages
// @Tags admin
// @Produce json
// @Success 200 {array} dto.ContactResponseDTO
// @Failure 403 {string} string "Forbidden"
// @Router /admin/messages [get]
// @Security BearerAuth
func (h *AdminHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	messages, err := h.contactService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]dto.ContactResponseDTO, 0, len(messages))
	for i := range messages {
		out = append(out, toContactDTO(&messages[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// deleteMessage godoc
// @Summary Delete a contact message
// @Tags admin
// @Param messageId path string true "Message ID"
// @Success 204 {string} string "No Content"
// @Failure 404 {string} string "Not found"
// @Router /admin/messages/{messageId} [delete]
// @Security BearerAuth
func (h *AdminHandler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/admin/messages/")
	if err := h.contactService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// initiateUpload godoc
// @Summary Initiate a PDF upload
// @Tags admin
// @Produce json
// @Success 200 {object} dto.UploadResponseDTO
// @Failure 500 {string} string "Failed to presign upload"
// @Router /admin/uploads [post]
// @Security BearerAuth
func (h *AdminHandler) initiateUpload(w http.ResponseWriter, r *http.Request) {
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
