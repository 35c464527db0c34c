package catalog

// BuyerSegment represents the pricing segment of the current buyer
type BuyerSegment string

const (
	SegmentRetail    BuyerSegment = "RETAIL"
	SegmentWholesale BuyerSegment = "WHOLESALE"
	SegmentGuest     BuyerSegment = "GUEST"
)

// IsValid checks if the segment is a valid BuyerSegment
func (s BuyerSegment) IsValid() bool {
	switch s {
	case SegmentRetail, SegmentWholesale, SegmentGuest:
		return true
	}
	return false
}

// String returns the string representation of BuyerSegment
func (s BuyerSegment) String() string {
	return string(s)
}

// IsWholesale returns true for the wholesale segment
func (s BuyerSegment) IsWholesale() bool {
	return s == SegmentWholesale
}

// RequiresAccountForCheckout returns true when the segment may browse and
// build a cart but must sign in before an order can be assembled
func (s BuyerSegment) RequiresAccountForCheckout() bool {
	return s == SegmentGuest
}
