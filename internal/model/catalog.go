package model

import "time"

const RoleSuperAdmin = "Super Admin"

// User is the authenticated console operator.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type ProductStatus string

const (
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusApproved ProductStatus = "approved"
	ProductStatusRejected ProductStatus = "rejected"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusPending, ProductStatusActive, ProductStatusInactive, ProductStatusApproved, ProductStatusRejected:
		return true
	}
	return false
}

// Product is the flattened listing row for a vendor product.
type Product struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	SKU             string        `json:"sku,omitempty"`
	Price           float64       `json:"price"`
	Stock           int           `json:"stock"`
	Status          ProductStatus `json:"status"`
	Category        string        `json:"category,omitempty"`
	VendorID        string        `json:"vendorId"`
	VendorName      string        `json:"vendorName"`
	Image           string        `json:"image,omitempty"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}
