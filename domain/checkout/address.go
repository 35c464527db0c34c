package checkout

import (
	"strings"

	"github.com/marketplace/storefront/domain/shared"
)

// Address is a value object representing a shipping address
// It is immutable - all operations return new Address instances
type Address struct {
	line1      string
	line2      string
	city       string
	region     string
	postalCode string
	country    string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithLine2 sets the secondary address line (apartment, suite, unit)
func WithLine2(line2 string) AddressOption {
	return func(a *Address) {
		a.line2 = strings.TrimSpace(line2)
	}
}

// WithPostalCode sets the postal code for the address
func WithPostalCode(postalCode string) AddressOption {
	return func(a *Address) {
		a.postalCode = strings.TrimSpace(postalCode)
	}
}

// WithCountry sets the country for the address
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.country = strings.TrimSpace(country)
	}
}

// NewAddress creates a new Address with the required fields.
// Street line, city and region are required; the rest is optional.
func NewAddress(line1, city, region string, opts ...AddressOption) (Address, error) {
	line1 = strings.TrimSpace(line1)
	city = strings.TrimSpace(city)
	region = strings.TrimSpace(region)

	if line1 == "" {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "Street line cannot be empty")
	}
	if city == "" {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "City cannot be empty")
	}
	if region == "" {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "Region cannot be empty")
	}

	addr := Address{
		line1:   line1,
		city:    city,
		region:  region,
		country: "US",
	}
	for _, opt := range opts {
		opt(&addr)
	}

	if len(addr.line1) > 200 || len(addr.line2) > 200 {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "Address line cannot exceed 200 characters")
	}
	if len(addr.postalCode) > 20 {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "Postal code cannot exceed 20 characters")
	}
	if len(addr.country) > 100 {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "Country cannot exceed 100 characters")
	}

	return addr, nil
}

// Line1 returns the primary street line
func (a Address) Line1() string { return a.line1 }

// Line2 returns the secondary street line
func (a Address) Line2() string { return a.line2 }

// City returns the city
func (a Address) City() string { return a.city }

// Region returns the state or province
func (a Address) Region() string { return a.region }

// PostalCode returns the postal code
func (a Address) PostalCode() string { return a.postalCode }

// Country returns the country
func (a Address) Country() string { return a.country }

// String returns a single-line rendering of the address
func (a Address) String() string {
	parts := []string{a.line1}
	if a.line2 != "" {
		parts = append(parts, a.line2)
	}
	parts = append(parts, a.city, a.region)
	if a.postalCode != "" {
		parts = append(parts, a.postalCode)
	}
	parts = append(parts, a.country)
	return strings.Join(parts, ", ")
}
