package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// PaymentHandler serves the student side of the payment flow
type PaymentHandler struct {
	billingService service.BillingService
	storageService service.StorageService
	validate       *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(billingService service.BillingService, storageService service.StorageService, validate *validator.Validate) *PaymentHandler {
	return &PaymentHandler{billingService: billingService, storageService: storageService, validate: validate}
}

// RegisterRoutes mounts payment routes behind the student guard
func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux, studentMw func(http.Handler) http.Handler) {
	mux.Handle("/payments", studentMw(http.HandlerFunc(h.handlePayments)))
	mux.Handle("/payments/", studentMw(http.HandlerFunc(h.resubmit)))
	mux.Handle("/payments-receipt-upload", studentMw(http.HandlerFunc(h.receiptUpload)))
	mux.Handle("/subscription", studentMw(http.HandlerFunc(h.getSubscription)))
}

func (h *PaymentHandler) handlePayments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submit(w, r)
	case http.MethodGet:
		h.listMine(w, r)
	default:
		http.NotFound(w, r)
	}
}

func paymentDraftFromDTO(req dto.PaymentCreateDTO) service.PaymentDraft {
	return service.PaymentDraft{
		PayerName:     req.PayerName,
		PayerPhone:    req.PayerPhone,
		Amount:        req.Amount,
		Method:        model.PaymentMethod(req.Method),
		TransactionID: req.TransactionID,
		ReceiptURL:    req.ReceiptURL,
		Notes:         req.Notes,
	}
}

// submit godoc
// @Summary Declare an offline payment
// @Description Records a bank transfer or STC Pay payment for admin review.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body dto.PaymentCreateDTO true "Payment declaration"
// @Success 201 {object} dto.PaymentResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "Forbidden"
// @Router /payments [post]
// @Security BearerAuth
func (h *PaymentHandler) submit(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	var req dto.PaymentCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.billingService.SubmitPayment(r.Context(), p, paymentDraftFromDTO(req))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentDTO(created))
}

// listMine godoc
// @Summary List the caller's payment submissions
// @Tags payments
// @Produce json
// @Success 200 {array} dto.PaymentResponseDTO
// @Failure 403 {string} string "Forbidden"
// @Router /payments [get]
// @Security BearerAuth
func (h *PaymentHandler) listMine(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	payments, err := h.billingService.ListMine(r.Context(), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTOs(payments))
}

// resubmit godoc
// @Summary Resubmit a payment sent back for revision
// @Tags payments
// @Accept json
// @Produce json
// @Param paymentId path string true "Payment submission ID"
// @Param request body dto.PaymentCreateDTO true "Corrected payment declaration"
// @Success 200 {object} dto.PaymentResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "Forbidden"
// @Failure 409 {string} string "Submission is not awaiting resubmission"
// @Router /payments/{paymentId} [put]
// @Security BearerAuth
func (h *PaymentHandler) resubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	p, _ := middleware.PrincipalFromContext(r.Context())
	id := strings.TrimPrefix(r.URL.Path, "/payments/")

	var req dto.PaymentCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := h.billingService.Resubmit(r.Context(), p, id, paymentDraftFromDTO(req))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTO(updated))
}

// receiptUpload godoc
// @Summary Initiate a receipt upload
// @Description Returns a presigned PUT URL so the receipt image is uploaded directly to object storage.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body dto.ReceiptUploadDTO true "Receipt filename"
// @Success 200 {object} dto.UploadResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or unsupported file type"
// @Router /payments-receipt-upload [post]
// @Security BearerAuth
func (h *PaymentHandler) receiptUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	p, _ := middleware.PrincipalFromContext(r.Context())
	var req dto.ReceiptUploadDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	uploadURL, publicURL, err := h.storageService.InitiateReceiptUpload(r.Context(), p.ID, req.Filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, dto.UploadResponseDTO{UploadURL: uploadURL, PublicURL: publicURL})
}

// getSubscription godoc
// @Summary Get the caller's subscription
// @Tags payments
// @Produce json
// @Success 200 {object} dto.SubscriptionResponseDTO
// @Failure 404 {string} string "No subscription"
// @Router /subscription [get]
// @Security BearerAuth
func (h *PaymentHandler) getSubscription(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	p, _ := middleware.PrincipalFromContext(r.Context())
	sub, err := h.billingService.GetSubscription(r.Context(), p.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// No row yet simply means a free account.
			writeJSON(w, http.StatusOK, dto.SubscriptionResponseDTO{
				UserID: p.ID,
				Plan:   string(model.PlanFree),
			})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionDTO(sub))
}
