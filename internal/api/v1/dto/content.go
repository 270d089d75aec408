package dto

import "time"

// ContentCreateDTO is used for incoming content submissions
type ContentCreateDTO struct {
	Title       string `json:"title" validate:"required"`
	Section     string `json:"section" validate:"required,oneof=lessons exercises summaries"`
	Grade       int    `json:"grade" validate:"required,min=1,max=6"`
	DownloadURL string `json:"download_url" validate:"required,url"`
}

// ContentResponseDTO is returned in API responses for content items
type ContentResponseDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Section       string    `json:"section"`
	Grade         int       `json:"grade"`
	DownloadURL   string    `json:"download_url"`
	Status        string    `json:"status"`
	AdminFeedback string    `json:"admin_feedback,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ContentDecisionDTO carries a moderation decision
type ContentDecisionDTO struct {
	Decision string `json:"decision" validate:"required,oneof=approved declined refine"`
	Feedback string `json:"feedback,omitempty"`
}

// UploadResponseDTO is returned when an upload slot is initiated
type UploadResponseDTO struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

// DownloadResponseDTO carries a short-lived signed download URL
type DownloadResponseDTO struct {
	DownloadURL string `json:"download_url"`
}

// ReceiptUploadDTO requests an upload slot for a payment receipt
type ReceiptUploadDTO struct {
	Filename string `json:"filename" validate:"required"`
}
