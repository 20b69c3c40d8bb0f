// Package transform maps backend DTOs into the flat view models the console serves.
// Every function here is pure.
package transform

import (
	"strings"

	"github.com/psds-microservice/admin-console/internal/dto"
	"github.com/psds-microservice/admin-console/internal/model"
)

func personName(p dto.PersonDTO) string {
	if p.Name != "" {
		return p.Name
	}
	if n := strings.TrimSpace(p.FirstName + " " + p.LastName); n != "" {
		return n
	}
	return p.StoreName
}

func formatAddress(a dto.AddressDTO) string {
	parts := make([]string, 0, 5)
	for _, s := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// TransformBackendApplication flattens a KYC application.
// Document counts are recomputed from the documents when the backend sent them.
func TransformBackendApplication(in dto.ApplicationDTO) model.KYCApplication {
	out := model.KYCApplication{
		ID:                 in.ID,
		SellerID:           in.Seller.ID,
		SellerName:         personName(in.Seller),
		SellerEmail:        in.Seller.Email,
		SellerPhone:        in.Seller.Phone,
		BusinessName:       in.BusinessInfo.BusinessName,
		BusinessType:       in.BusinessInfo.BusinessType,
		RegistrationNumber: in.BusinessInfo.RegistrationNumber,
		TaxID:              in.BusinessInfo.TaxID,
		BusinessAddress:    formatAddress(in.BusinessInfo.Address),
		Status:             model.KYCStatus(in.Status),
		RejectionReason:    in.RejectionReason,
		ReviewNotes:        in.ReviewNotes,
		ReviewedBy:         in.ReviewedBy.DisplayName(),
		Documents:          make([]model.Document, 0, len(in.Documents)),
		VerificationSteps:  make([]model.VerificationStep, 0, len(in.VerificationSteps)),
		TotalDocuments:     in.TotalDocuments,
		ApprovedDocuments:  in.ApprovedDocuments,
		CreatedAt:          in.CreatedAt,
		UpdatedAt:          in.UpdatedAt,
		SubmittedAt:        in.SubmittedAt,
		ReviewedAt:         in.ReviewedAt,
		ApprovedAt:         in.ApprovedAt,
		RejectedAt:         in.RejectedAt,
	}
	if out.BusinessName == "" {
		out.BusinessName = in.Seller.StoreName
	}
	for _, d := range in.Documents {
		out.Documents = append(out.Documents, model.Document{
			ID:              d.ID,
			Type:            d.DocumentType,
			Name:            d.FileName,
			URL:             d.FileURL,
			Status:          d.Status,
			RejectionReason: d.RejectionReason,
			UploadedAt:      d.UploadedAt,
		})
	}
	for _, s := range in.VerificationSteps {
		out.VerificationSteps = append(out.VerificationSteps, model.VerificationStep{
			Step:        s.Step,
			Status:      s.Status,
			CompletedAt: s.CompletedAt,
		})
	}
	if in.Documents != nil {
		out.TotalDocuments, out.ApprovedDocuments = CountDocuments(out.Documents)
	}
	return out
}

// CountDocuments derives the aggregate counts from the document collection.
func CountDocuments(docs []model.Document) (total, approved int) {
	for _, d := range docs {
		if d.Status == model.DocumentStatusApproved {
			approved++
		}
	}
	return len(docs), approved
}

func TransformBackendApplications(in []dto.ApplicationDTO) []model.KYCApplication {
	out := make([]model.KYCApplication, 0, len(in))
	for _, a := range in {
		out = append(out, TransformBackendApplication(a))
	}
	return out
}

func TransformBackendInquiry(in dto.InquiryDTO) model.ContactInquiry {
	return model.ContactInquiry{
		ID:            in.ID,
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Subject:       in.Subject,
		Message:       in.Message,
		Category:      in.Category,
		Priority:      in.Priority,
		Status:        model.TicketStatus(in.Status),
		AssignedAdmin: in.AssignedAdmin,
		AdminNotes:    in.AdminNotes,
		CreatedAt:     in.CreatedAt,
		UpdatedAt:     in.UpdatedAt,
		AssignedAt:    in.AssignedAt,
		ResolvedAt:    in.ResolvedAt,
	}
}

func TransformBackendInquiries(in []dto.InquiryDTO) []model.ContactInquiry {
	out := make([]model.ContactInquiry, 0, len(in))
	for _, i := range in {
		out = append(out, TransformBackendInquiry(i))
	}
	return out
}

func TransformBackendProduct(in dto.ProductDTO) model.Product {
	p := model.Product{
		ID:              in.ID,
		Name:            in.Name,
		SKU:             in.SKU,
		Price:           in.Price,
		Stock:           in.Stock,
		Status:          model.ProductStatus(in.Status),
		Category:        in.Category,
		VendorID:        in.Vendor.ID,
		VendorName:      personName(in.Vendor),
		RejectionReason: in.RejectionReason,
		CreatedAt:       in.CreatedAt,
		UpdatedAt:       in.UpdatedAt,
	}
	if len(in.Images) > 0 {
		p.Image = in.Images[0]
	}
	return p
}

func TransformBackendProducts(in []dto.ProductDTO) []model.Product {
	out := make([]model.Product, 0, len(in))
	for _, p := range in {
		out = append(out, TransformBackendProduct(p))
	}
	return out
}

// TransformPagination picks whichever pagination spelling was populated.
func TransformPagination(in dto.PaginationDTO, fallbackLimit int) model.Pagination {
	p := model.Pagination{
		Page:       first(in.Page, in.CurrentPage, 1),
		Limit:      first(in.Limit, in.ItemsPerPage, fallbackLimit),
		Total:      first(in.Total, in.TotalItems, 0),
		TotalPages: first(in.TotalPages, in.Pages, 0),
	}
	if p.TotalPages == 0 && p.Limit > 0 && p.Total > 0 {
		p.TotalPages = (p.Total + p.Limit - 1) / p.Limit
	}
	return p
}

func first(vals ...int) int {
	for _, v := range vals[:len(vals)-1] {
		if v > 0 {
			return v
		}
	}
	return vals[len(vals)-1]
}
