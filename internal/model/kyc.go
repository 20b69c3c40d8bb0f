package model

import "time"

type KYCStatus string

const (
	KYCStatusNotStarted  KYCStatus = "not_started"
	KYCStatusPending     KYCStatus = "pending"
	KYCStatusSubmitted   KYCStatus = "submitted"
	KYCStatusUnderReview KYCStatus = "under_review"
	KYCStatusApproved    KYCStatus = "approved"
	KYCStatusRejected    KYCStatus = "rejected"
)

func (s KYCStatus) Valid() bool {
	switch s {
	case KYCStatusNotStarted, KYCStatusPending, KYCStatusSubmitted,
		KYCStatusUnderReview, KYCStatusApproved, KYCStatusRejected:
		return true
	}
	return false
}

// Reviewable reports whether approve/reject are legal in this status.
func (s KYCStatus) Reviewable() bool {
	return s == KYCStatusSubmitted || s == KYCStatusUnderReview
}

const DocumentStatusApproved = "approved"

type Document struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	Name            string     `json:"name,omitempty"`
	URL             string     `json:"url,omitempty"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	UploadedAt      *time.Time `json:"uploadedAt,omitempty"`
}

type VerificationStep struct {
	Step        string     `json:"step"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// KYCApplication is the flattened view model of a seller verification.
type KYCApplication struct {
	ID                 string             `json:"id"`
	SellerID           string             `json:"sellerId"`
	SellerName         string             `json:"sellerName"`
	SellerEmail        string             `json:"sellerEmail"`
	SellerPhone        string             `json:"sellerPhone,omitempty"`
	BusinessName       string             `json:"businessName"`
	BusinessType       string             `json:"businessType,omitempty"`
	RegistrationNumber string             `json:"registrationNumber,omitempty"`
	TaxID              string             `json:"taxId,omitempty"`
	BusinessAddress    string             `json:"businessAddress,omitempty"`
	Status             KYCStatus          `json:"status"`
	RejectionReason    string             `json:"rejectionReason,omitempty"`
	ReviewNotes        string             `json:"reviewNotes,omitempty"`
	ReviewedBy         string             `json:"reviewedBy,omitempty"`
	Documents          []Document         `json:"documents"`
	VerificationSteps  []VerificationStep `json:"verificationSteps"`
	TotalDocuments     int                `json:"totalDocuments"`
	ApprovedDocuments  int                `json:"approvedDocuments"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
	SubmittedAt        *time.Time         `json:"submittedAt,omitempty"`
	ReviewedAt         *time.Time         `json:"reviewedAt,omitempty"`
	ApprovedAt         *time.Time         `json:"approvedAt,omitempty"`
	RejectedAt         *time.Time         `json:"rejectedAt,omitempty"`
}

func (a KYCApplication) RecordID() string { return a.ID }
