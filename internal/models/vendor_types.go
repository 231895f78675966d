package models

import "time"

// Vendor is the model for the 'vendors' table.
// Nullable columns use pointers for clean JSON serialization.
type Vendor struct {
	ID                 int64      `json:"id" db:"id"`
	UserID             int64      `json:"userId" db:"user_id"`
	CompanyName        string     `json:"companyName" db:"company_name"`
	LegalName          string     `json:"legalName" db:"legal_name"`
	RegistrationNumber string     `json:"registrationNumber" db:"registration_number"`
	TaxID              string     `json:"taxId" db:"tax_id"`
	Website            *string    `json:"website,omitempty" db:"website"`
	Status             Status     `json:"status" db:"status"`
	RejectionReason    *string    `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
	StatusChangedAt    *time.Time `json:"statusChangedAt,omitempty" db:"status_changed_at"`

	// Joins (populated by the detail assembler, not stored on this table)
	OwnerName   string           `json:"ownerName,omitempty" db:"-"`
	OwnerEmail  string           `json:"ownerEmail,omitempty" db:"-"`
	Addresses   []VendorAddress  `json:"addresses,omitempty" db:"-"`
	BankDetails *VendorBank      `json:"bankDetails,omitempty" db:"-"`
	Contacts    *VendorContact   `json:"contacts,omitempty" db:"-"`
	Documents   []VendorDocument `json:"documents,omitempty" db:"-"`
}

// Address types accepted on onboarding.
const (
	AddressBusiness = "business"
	AddressBilling  = "billing"
	AddressShipping = "shipping"
)

// VendorAddress is the model for the 'vendor_addresses' table.
type VendorAddress struct {
	ID          int64   `json:"id" db:"id"`
	VendorID    int64   `json:"vendorId" db:"vendor_id"`
	AddressType string  `json:"addressType" db:"address_type"`
	Line1       string  `json:"line1" db:"line1"`
	Line2       *string `json:"line2,omitempty" db:"line2"`
	City        string  `json:"city" db:"city"`
	State       string  `json:"state" db:"state"`
	Postcode    string  `json:"postcode" db:"postcode"`
	Country     string  `json:"country" db:"country"`
}

// VendorBank is the model for the 'vendor_bank_details' table (one row per vendor).
type VendorBank struct {
	ID            int64  `json:"id" db:"id"`
	VendorID      int64  `json:"vendorId" db:"vendor_id"`
	BankName      string `json:"bankName" db:"bank_name"`
	AccountName   string `json:"accountName" db:"account_name"`
	AccountNumber string `json:"accountNumber" db:"account_number"`
	IFSCCode      string `json:"ifscCode" db:"ifsc_code"`
}

// VendorContact is the model for the 'vendor_contacts' table (one row per vendor).
type VendorContact struct {
	ID           int64  `json:"id" db:"id"`
	VendorID     int64  `json:"vendorId" db:"vendor_id"`
	ContactName  string `json:"contactName" db:"contact_name"`
	ContactEmail string `json:"contactEmail" db:"contact_email"`
	ContactPhone string `json:"contactPhone" db:"contact_phone"`
}

// VendorDocument is the model for the 'vendor_documents' table.
// DocumentKey is the free-text field name the vendor uploaded under.
type VendorDocument struct {
	ID           int64     `json:"id" db:"id"`
	VendorID     int64     `json:"vendorId" db:"vendor_id"`
	DocumentKey  string    `json:"documentKey" db:"document_key"`
	FilePath     string    `json:"filePath" db:"file_path"`
	OriginalName string    `json:"originalName" db:"original_name"`
	UploadedAt   time.Time `json:"uploadedAt" db:"uploaded_at"`
}
