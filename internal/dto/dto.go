// Package dto holds the marketplace backend's wire shapes as they arrive,
// before transform flattens them into view models.
package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/psds-microservice/admin-console/internal/model"
)

// PersonDTO is a seller or vendor reference. The backend sends either a bare id or a populated object.
type PersonDTO struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	StoreName string `json:"storeName"`
}

func (p *PersonDTO) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = PersonDTO{}
		return nil
	}
	if b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*p = PersonDTO{ID: id}
		return nil
	}
	type plain PersonDTO
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = PersonDTO(v)
	return nil
}

type AddressDTO struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

type BusinessDTO struct {
	BusinessName       string     `json:"businessName"`
	BusinessType       string     `json:"businessType"`
	RegistrationNumber string     `json:"registrationNumber"`
	TaxID              string     `json:"taxId"`
	Address            AddressDTO `json:"businessAddress"`
}

type DocumentDTO struct {
	ID              string     `json:"_id"`
	DocumentType    string     `json:"documentType"`
	FileName        string     `json:"fileName"`
	FileURL         string     `json:"fileUrl"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejectionReason"`
	UploadedAt      *time.Time `json:"uploadedAt"`
}

type VerificationStepDTO struct {
	Step        string     `json:"step"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completedAt"`
}

// ApplicationDTO is a KYC application as returned by /admin/kyc.
type ApplicationDTO struct {
	ID                string                `json:"_id"`
	Seller            PersonDTO             `json:"seller"`
	BusinessInfo      BusinessDTO           `json:"businessInfo"`
	Status            string                `json:"status"`
	Documents         []DocumentDTO         `json:"documents"`
	VerificationSteps []VerificationStepDTO `json:"verificationSteps"`
	TotalDocuments    int                   `json:"totalDocuments"`
	ApprovedDocuments int                   `json:"approvedDocuments"`
	RejectionReason   string                `json:"rejectionReason"`
	ReviewNotes       string                `json:"reviewNotes"`
	ReviewedBy        model.Assignee        `json:"reviewedBy"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
	SubmittedAt       *time.Time            `json:"submittedAt"`
	ReviewedAt        *time.Time            `json:"reviewedAt"`
	ApprovedAt        *time.Time            `json:"approvedAt"`
	RejectedAt        *time.Time            `json:"rejectedAt"`
}

// InquiryDTO is a contact inquiry (support ticket).
type InquiryDTO struct {
	ID            string         `json:"_id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Subject       string         `json:"subject"`
	Message       string         `json:"message"`
	Category      string         `json:"category"`
	Priority      string         `json:"priority"`
	Status        string         `json:"status"`
	AssignedAdmin model.Assignee `json:"assignedAdmin"`
	AdminNotes    string         `json:"adminNotes"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	AssignedAt    *time.Time     `json:"assignedAt"`
	ResolvedAt    *time.Time     `json:"resolvedAt"`
}

type ProductDTO struct {
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	SKU             string    `json:"sku"`
	Price           float64   `json:"price"`
	Stock           int       `json:"stock"`
	Status          string    `json:"status"`
	Category        string    `json:"category"`
	Vendor          PersonDTO `json:"vendor"`
	Images          []string  `json:"images"`
	RejectionReason string    `json:"rejectionReason"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// PaginationDTO accepts both pagination spellings the backend uses.
type PaginationDTO struct {
	Page         int `json:"page"`
	CurrentPage  int `json:"currentPage"`
	Limit        int `json:"limit"`
	ItemsPerPage int `json:"itemsPerPage"`
	Total        int `json:"total"`
	TotalItems   int `json:"totalItems"`
	Pages        int `json:"pages"`
	TotalPages   int `json:"totalPages"`
}

type KYCPage struct {
	Applications []ApplicationDTO `json:"applications"`
	Pagination   PaginationDTO    `json:"pagination"`
}

type InquiryPage struct {
	Inquiries  []InquiryDTO  `json:"inquiries"`
	Pagination PaginationDTO `json:"pagination"`
}

type ProductPage struct {
	Products   []ProductDTO  `json:"products"`
	Pagination PaginationDTO `json:"pagination"`
}

type ReviewRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason,omitempty"`
	ReviewNotes     string `json:"reviewNotes,omitempty"`
}

type BulkActionRequest struct {
	ApplicationIDs []string `json:"applicationIds"`
	Action         string   `json:"action"`
	Reason         string   `json:"reason,omitempty"`
}

type BulkActionResult struct {
	ModifiedCount int              `json:"modifiedCount"`
	Applications  []ApplicationDTO `json:"applications"`
}

type StatusUpdateRequest struct {
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes,omitempty"`
}

type AssignRequest struct {
	AdminID *string `json:"adminId"`
}

type ProductReviewRequest struct {
	Status string `json:"status,omitempty"`
	Reason string `json:"reason,omitempty"`
}
