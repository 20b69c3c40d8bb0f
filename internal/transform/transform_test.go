package transform

import (
	"testing"
	"time"

	"github.com/psds-microservice/admin-console/internal/dto"
	"github.com/psds-microservice/admin-console/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestTransformBackendApplication(t *testing.T) {
	submitted := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	in := dto.ApplicationDTO{
		ID:     "k1",
		Seller: dto.PersonDTO{ID: "s1", FirstName: "Ada", LastName: "Obi", Email: "ada@example.com", StoreName: "Ada Goods"},
		BusinessInfo: dto.BusinessDTO{
			BusinessType: "llc",
			Address:      dto.AddressDTO{Street: "1 Main St", City: "Lagos", Country: "NG"},
		},
		Status: "submitted",
		Documents: []dto.DocumentDTO{
			{ID: "d1", DocumentType: "id_card", Status: "approved"},
			{ID: "d2", DocumentType: "utility_bill", Status: "pending"},
		},
		TotalDocuments:    7,
		ApprovedDocuments: 7,
		ReviewedBy:        model.ExpandedAssignee(model.Admin{ID: "a1", Name: "Ann"}),
		SubmittedAt:       &submitted,
	}

	got := TransformBackendApplication(in)

	assert.Equal(t, "k1", got.ID)
	assert.Equal(t, "Ada Obi", got.SellerName)
	assert.Equal(t, "Ada Goods", got.BusinessName)
	assert.Equal(t, "1 Main St, Lagos, NG", got.BusinessAddress)
	assert.Equal(t, model.KYCStatusSubmitted, got.Status)
	assert.Equal(t, "Ann", got.ReviewedBy)
	assert.Equal(t, 2, got.TotalDocuments)
	assert.Equal(t, 1, got.ApprovedDocuments)
	assert.Len(t, got.Documents, 2)
	assert.Equal(t, "id_card", got.Documents[0].Type)
	assert.Equal(t, &submitted, got.SubmittedAt)
}

func TestTransformBackendApplicationKeepsServerCountsWithoutDocuments(t *testing.T) {
	got := TransformBackendApplication(dto.ApplicationDTO{ID: "k2", TotalDocuments: 3, ApprovedDocuments: 2})
	assert.Equal(t, 3, got.TotalDocuments)
	assert.Equal(t, 2, got.ApprovedDocuments)
	assert.NotNil(t, got.Documents)
}

func TestTransformBackendInquiry(t *testing.T) {
	in := dto.InquiryDTO{
		ID:            "t1",
		Subject:       "Refund",
		Status:        "in_progress",
		AssignedAdmin: model.AssigneeRefTo("a1"),
	}
	got := TransformBackendInquiry(in)
	assert.Equal(t, model.TicketStatusInProgress, got.Status)
	assert.Equal(t, model.AssigneeRef, got.AssignedAdmin.Kind)
	assert.Equal(t, "a1", got.AssignedAdmin.ID)
}

func TestTransformBackendProduct(t *testing.T) {
	got := TransformBackendProduct(dto.ProductDTO{
		ID:     "p1",
		Name:   "Lamp",
		Status: "pending",
		Vendor: dto.PersonDTO{ID: "v1", StoreName: "Lights Co"},
		Images: []string{"https://cdn/a.png", "https://cdn/b.png"},
	})
	assert.Equal(t, "Lights Co", got.VendorName)
	assert.Equal(t, "https://cdn/a.png", got.Image)
	assert.Equal(t, model.ProductStatusPending, got.Status)
}

func TestTransformPagination(t *testing.T) {
	assert.Equal(t,
		model.Pagination{Page: 2, Limit: 10, Total: 45, TotalPages: 5},
		TransformPagination(dto.PaginationDTO{CurrentPage: 2, ItemsPerPage: 10, TotalItems: 45}, 20))
	assert.Equal(t,
		model.Pagination{Page: 1, Limit: 20, Total: 0, TotalPages: 0},
		TransformPagination(dto.PaginationDTO{}, 20))
	assert.Equal(t,
		model.Pagination{Page: 3, Limit: 5, Total: 11, TotalPages: 3},
		TransformPagination(dto.PaginationDTO{Page: 3, Limit: 5, Total: 11, Pages: 3}, 20))
}
