package api

import (
	"net/http"                   // HTTP status codes
	"storefront/internal/domain" // Importing domain models
	"storefront/internal/store"  // Store facade

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for address creation
type AddressRequest struct {
	Recipient  string  `json:"recipient" binding:"required"` // Who receives the parcel
	Phone      string  `json:"phone"`                        // Contact phone
	Line1      string  `json:"line1" binding:"required"`     // Street line
	Line2      *string `json:"line2"`                        // Optional second line
	City       string  `json:"city" binding:"required"`      // City
	PostalCode string  `json:"postal_code"`                  // Postal code
	Country    string  `json:"country"`                      // Country
	IsDefault  bool    `json:"is_default"`                   // Make this the default address
}

// ListAddressesHandler returns the session user's addresses, default first
func ListAddressesHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		addresses, err := s.Addresses().ListByUser(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err, "List addresses")
			return
		}
		c.JSON(http.StatusOK, addresses)
	}
}

// CreateAddressHandler stores a new address for the session user
func CreateAddressHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		address := &domain.Address{
			UserID:     userID,
			Recipient:  req.Recipient,
			Phone:      req.Phone,
			Line1:      req.Line1,
			Line2:      req.Line2,
			City:       req.City,
			PostalCode: req.PostalCode,
			Country:    req.Country,
			IsDefault:  req.IsDefault,
		}
		if _, err := s.Addresses().Create(c.Request.Context(), address); err != nil {
			writeError(c, err, "Create address")
			return
		}
		c.JSON(http.StatusCreated, address)
	}
}

// SetDefaultAddressHandler makes one of the user's addresses the default
func SetDefaultAddressHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		addressID, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := s.SetDefaultAddress(c.Request.Context(), userID, addressID); err != nil {
			writeError(c, err, "Set default address")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Default address updated"})
	}
}

// DeleteAddressHandler removes one of the user's addresses
func DeleteAddressHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		addressID, ok := idParam(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		address, err := s.Addresses().GetByID(ctx, addressID)
		if err != nil {
			writeError(c, err, "Delete address")
			return
		}
		// Other users' addresses look absent
		if address == nil || address.UserID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}
		if err := s.Addresses().Delete(ctx, addressID); err != nil {
			writeError(c, err, "Delete address")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
