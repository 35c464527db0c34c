package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidQuantity      = NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	ErrOutOfStock           = NewDomainError("OUT_OF_STOCK", "Requested quantity cannot be satisfied by available stock")
	ErrLineNotFound         = NewDomainError("LINE_NOT_FOUND", "Cart line not found")
	ErrBelowMinimumQuantity = NewDomainError("BELOW_MINIMUM_QUANTITY", "Quantity is below the minimum order quantity")
	ErrExceedsStock         = NewDomainError("EXCEEDS_STOCK", "Quantity exceeds available stock")
	ErrProductUnavailable   = NewDomainError("PRODUCT_UNAVAILABLE", "Product is no longer available for purchase")
	ErrEmptyCart            = NewDomainError("EMPTY_CART", "Cart contains no lines")
	ErrMissingAddress       = NewDomainError("MISSING_ADDRESS", "Shipping address is required")
	ErrCurrencyMismatch     = NewDomainError("CURRENCY_MISMATCH", "Monetary amounts use different currencies")
	ErrInvalidTierTable     = NewDomainError("INVALID_TIER_TABLE", "Wholesale tier table is malformed")
	ErrGuestCheckout        = NewDomainError("GUEST_CHECKOUT", "Guest buyers must sign in before checkout")
)
