package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vendormart/vendormart-api/internal/middleware"
	"github.com/vendormart/vendormart-api/internal/models"
	"github.com/vendormart/vendormart-api/internal/upload"
)

//
// --- Vendor Onboarding ---
//

type OnboardAddressInput struct {
	AddressType string  `json:"addressType" binding:"required,oneof=business billing shipping"`
	Line1       string  `json:"line1" binding:"required"`
	Line2       *string `json:"line2"`
	City        string  `json:"city" binding:"required"`
	State       string  `json:"state" binding:"required"`
	Postcode    string  `json:"postcode" binding:"required"`
	Country     string  `json:"country" binding:"required"`
}

type OnboardBankInput struct {
	BankName      string `json:"bankName" binding:"required"`
	AccountName   string `json:"accountName" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`
	IFSCCode      string `json:"ifscCode" binding:"required"`
}

type OnboardContactInput struct {
	ContactName  string `json:"contactName" binding:"required"`
	ContactEmail string `json:"contactEmail" binding:"required,email"`
	ContactPhone string `json:"contactPhone" binding:"required"`
}

// OnboardVendor is the handler for POST /api/vendor/onboard (role: vendor).
// Multipart form: scalar company fields, JSON-encoded "addresses",
// "bankDetails" and "contacts" fields, plus one file per document where
// the form field name becomes the document_key.
//
// All rows are written in one transaction with the final file paths;
// staged files move into place only after the commit succeeds.
func (h *Handlers) OnboardVendor(c *gin.Context) {
	userID := c.GetInt64(middleware.CtxUserID)

	companyName := c.PostForm("companyName")
	legalName := c.PostForm("legalName")
	registrationNumber := c.PostForm("registrationNumber")
	taxID := c.PostForm("taxId")
	website := c.PostForm("website")

	if companyName == "" || legalName == "" || registrationNumber == "" || taxID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "companyName, legalName, registrationNumber and taxId are required"})
		return
	}

	var addresses []OnboardAddressInput
	if raw := c.PostForm("addresses"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &addresses); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "addresses must be a JSON array"})
			return
		}
	}

	var bank *OnboardBankInput
	if raw := c.PostForm("bankDetails"); raw != "" {
		bank = &OnboardBankInput{}
		if err := json.Unmarshal([]byte(raw), bank); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bankDetails must be a JSON object"})
			return
		}
	}

	var contact *OnboardContactInput
	if raw := c.PostForm("contacts"); raw != "" {
		contact = &OnboardContactInput{}
		if err := json.Unmarshal([]byte(raw), contact); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "contacts must be a JSON object"})
			return
		}
	}

	// One vendor profile per user account.
	var existingID int64
	err := h.DB.QueryRow("SELECT id FROM vendors WHERE user_id = ?", userID).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Vendor profile already exists for this account"})
		return
	}
	if err != sql.ErrNoRows {
		h.serverError(c, "Database error checking vendor", err)
		return
	}

	// Stage uploaded documents before touching the DB.
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	type stagedDoc struct {
		key  string
		file upload.StagedFile
	}
	var staged []stagedDoc
	discardStaged := func() {
		for _, d := range staged {
			h.Uploads.Discard(d.file)
		}
	}

	for key, files := range form.File {
		for _, fh := range files {
			sf, err := h.Uploads.Stage(c, fh)
			if err != nil {
				discardStaged()
				h.serverError(c, "Failed to store uploaded document", err)
				return
			}
			staged = append(staged, stagedDoc{key: key, file: sf})
		}
	}

	tx, err := h.DB.Begin()
	if err != nil {
		discardStaged()
		h.serverError(c, "Failed to start transaction", err)
		return
	}
	defer tx.Rollback()

	var websitePtr *string
	if website != "" {
		websitePtr = &website
	}

	res, err := tx.Exec(`
		INSERT INTO vendors
		(user_id, company_name, legal_name, registration_number, tax_id, website, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, companyName, legalName, registrationNumber, taxID, websitePtr,
		models.StatusPending, time.Now(),
	)
	if err != nil {
		discardStaged()
		h.serverError(c, "Failed to create vendor", err)
		return
	}
	vendorID, err := res.LastInsertId()
	if err != nil {
		discardStaged()
		h.serverError(c, "Failed to get vendor ID", err)
		return
	}

	addressQuery := `
		INSERT INTO vendor_addresses
		(vendor_id, address_type, line1, line2, city, state, postcode, country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for _, a := range addresses {
		if _, err := tx.Exec(addressQuery, vendorID, a.AddressType, a.Line1, a.Line2,
			a.City, a.State, a.Postcode, a.Country); err != nil {
			discardStaged()
			h.serverError(c, "Failed to save address", err)
			return
		}
	}

	if bank != nil {
		_, err := tx.Exec(`
			INSERT INTO vendor_bank_details (vendor_id, bank_name, account_name, account_number, ifsc_code)
			VALUES (?, ?, ?, ?, ?)`,
			vendorID, bank.BankName, bank.AccountName, bank.AccountNumber, bank.IFSCCode)
		if err != nil {
			discardStaged()
			h.serverError(c, "Failed to save bank details", err)
			return
		}
	}

	if contact != nil {
		_, err := tx.Exec(`
			INSERT INTO vendor_contacts (vendor_id, contact_name, contact_email, contact_phone)
			VALUES (?, ?, ?, ?)`,
			vendorID, contact.ContactName, contact.ContactEmail, contact.ContactPhone)
		if err != nil {
			discardStaged()
			h.serverError(c, "Failed to save contacts", err)
			return
		}
	}

	docDir := h.Uploads.VendorDir(vendorID)
	docQuery := `
		INSERT INTO vendor_documents (vendor_id, document_key, file_path, original_name, uploaded_at)
		VALUES (?, ?, ?, ?, ?)`
	for _, d := range staged {
		finalPath := h.Uploads.FinalPath(d.file, docDir)
		if _, err := tx.Exec(docQuery, vendorID, d.key, finalPath, d.file.OriginalName, time.Now()); err != nil {
			discardStaged()
			h.serverError(c, "Failed to save document record", err)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		discardStaged()
		h.serverError(c, "Failed to commit transaction", err)
		return
	}

	// DB state is durable; move files into place. A failure here leaves
	// the file in the stage dir for the sweep, and is logged.
	for _, d := range staged {
		if _, err := h.Uploads.Finalize(d.file, docDir); err != nil {
			middleware.Logger(c).Warn("failed to finalize vendor document",
				zap.Int64("vendor_id", vendorID),
				zap.String("document_key", d.key),
				zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Vendor onboarding submitted, pending review",
		"vendorId": vendorID,
	})
}

//
// --- Vendor Detail Assembler ---
//

// GetVendor is the handler for GET /api/vendor/:vendorId.
// Assembles the vendor row with its addresses, bank details, contacts
// and documents. A vendor may only read its own profile.
func (h *Handlers) GetVendor(c *gin.Context) {
	vendorIDStr := c.Param("vendorId")
	role := c.GetString(middleware.CtxUserRole)
	callerVendorID := c.GetInt64(middleware.CtxVendorID)

	var v models.Vendor
	var website, reason sql.NullString
	var statusChangedAt sql.NullTime

	err := h.DB.QueryRow(`
		SELECT v.id, v.user_id, v.company_name, v.legal_name, v.registration_number,
		       v.tax_id, v.website, v.status, v.rejection_reason, v.created_at,
		       v.status_changed_at, u.full_name, u.email
		FROM vendors v
		JOIN users u ON u.id = v.user_id
		WHERE v.id = ?`, vendorIDStr).Scan(
		&v.ID, &v.UserID, &v.CompanyName, &v.LegalName, &v.RegistrationNumber,
		&v.TaxID, &website, &v.Status, &reason, &v.CreatedAt,
		&statusChangedAt, &v.OwnerName, &v.OwnerEmail,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
			return
		}
		h.serverError(c, "Database error fetching vendor", err)
		return
	}

	if role == models.RoleVendor && v.ID != callerVendorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to view this vendor"})
		return
	}

	v.Website = scanNullString(website)
	v.RejectionReason = scanNullString(reason)
	v.StatusChangedAt = scanNullTime(statusChangedAt)

	v.Addresses = []models.VendorAddress{}
	addrRows, err := h.DB.Query(`
		SELECT id, vendor_id, address_type, line1, line2, city, state, postcode, country
		FROM vendor_addresses WHERE vendor_id = ?`, v.ID)
	if err != nil {
		h.serverError(c, "Database error fetching addresses", err)
		return
	}
	defer addrRows.Close()
	for addrRows.Next() {
		var a models.VendorAddress
		var line2 sql.NullString
		if err := addrRows.Scan(&a.ID, &a.VendorID, &a.AddressType, &a.Line1, &line2,
			&a.City, &a.State, &a.Postcode, &a.Country); err != nil {
			h.serverError(c, "Failed to scan address row", err)
			return
		}
		a.Line2 = scanNullString(line2)
		v.Addresses = append(v.Addresses, a)
	}

	var bank models.VendorBank
	err = h.DB.QueryRow(`
		SELECT id, vendor_id, bank_name, account_name, account_number, ifsc_code
		FROM vendor_bank_details WHERE vendor_id = ?`, v.ID).Scan(
		&bank.ID, &bank.VendorID, &bank.BankName, &bank.AccountName,
		&bank.AccountNumber, &bank.IFSCCode)
	if err == nil {
		v.BankDetails = &bank
	} else if err != sql.ErrNoRows {
		h.serverError(c, "Database error fetching bank details", err)
		return
	}

	var contact models.VendorContact
	err = h.DB.QueryRow(`
		SELECT id, vendor_id, contact_name, contact_email, contact_phone
		FROM vendor_contacts WHERE vendor_id = ?`, v.ID).Scan(
		&contact.ID, &contact.VendorID, &contact.ContactName,
		&contact.ContactEmail, &contact.ContactPhone)
	if err == nil {
		v.Contacts = &contact
	} else if err != sql.ErrNoRows {
		h.serverError(c, "Database error fetching contacts", err)
		return
	}

	v.Documents = []models.VendorDocument{}
	docRows, err := h.DB.Query(`
		SELECT id, vendor_id, document_key, file_path, original_name, uploaded_at
		FROM vendor_documents WHERE vendor_id = ?`, v.ID)
	if err != nil {
		h.serverError(c, "Database error fetching documents", err)
		return
	}
	defer docRows.Close()
	for docRows.Next() {
		var d models.VendorDocument
		if err := docRows.Scan(&d.ID, &d.VendorID, &d.DocumentKey, &d.FilePath,
			&d.OriginalName, &d.UploadedAt); err != nil {
			h.serverError(c, "Failed to scan document row", err)
			return
		}
		v.Documents = append(v.Documents, d)
	}

	c.JSON(http.StatusOK, gin.H{"vendor": v})
}

//
// --- Vendor Listing ---
//

// ListVendors is the handler for GET /api/vendor/.
// Managers and admins see every vendor; a vendor sees only its own row.
// Optional ?status= filter, validated against the vendor state set.
func (h *Handlers) ListVendors(c *gin.Context) {
	role := c.GetString(middleware.CtxUserRole)
	callerVendorID := c.GetInt64(middleware.CtxVendorID)

	query := `
		SELECT v.id, v.user_id, v.company_name, v.legal_name, v.registration_number,
		       v.tax_id, v.status, v.rejection_reason, v.created_at, v.status_changed_at,
		       u.full_name, u.email
		FROM vendors v
		JOIN users u ON u.id = v.user_id
		WHERE 1=1`
	var args []interface{}

	if role == models.RoleVendor {
		query += " AND v.id = ?"
		args = append(args, callerVendorID)
	}

	if statusFilter := c.Query("status"); statusFilter != "" {
		if !models.IsVendorState(statusFilter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
		query += " AND v.status = ?"
		args = append(args, statusFilter)
	}

	query += " ORDER BY v.created_at DESC"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		h.serverError(c, "Database query failed", err)
		return
	}
	defer rows.Close()

	vendors := []models.Vendor{}
	for rows.Next() {
		var v models.Vendor
		var reason sql.NullString
		var statusChangedAt sql.NullTime
		if err := rows.Scan(&v.ID, &v.UserID, &v.CompanyName, &v.LegalName,
			&v.RegistrationNumber, &v.TaxID, &v.Status, &reason, &v.CreatedAt,
			&statusChangedAt, &v.OwnerName, &v.OwnerEmail); err != nil {
			h.serverError(c, "Failed to scan vendor row", err)
			return
		}
		v.RejectionReason = scanNullString(reason)
		v.StatusChangedAt = scanNullTime(statusChangedAt)
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		h.serverError(c, "Error iterating vendor rows", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}
