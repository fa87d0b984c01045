package discounts

// Discount type values as the admin understands them.
const (
	TypeShipping    = "shipping"
	TypeFixedAmount = "fixed_amount"
	TypePercentage  = "percentage"
)

// Applies-to classifications. The casing is what the discount form expects.
const (
	AppliesToCountry            = "Country"
	AppliesToProduct            = "Product"
	AppliesToCollection         = "Collection"
	AppliesToMinimumOrderAmount = "minimum_order_amount"
)

// Country ids behind the shipping destinations the listing renders by name.
// Destinations outside this set are left unclassified.
const (
	CountryIdRestOfWorld  = "2848952"
	CountryIdUnitedStates = "2848942"
)

// Discount is a read-only snapshot of one promo code. Numeric fields stay
// strings because that is how both the listing and the discount form carry
// them; nothing in the pipeline does arithmetic on them except the usage
// limit derivation in the parser.
type Discount struct {
	Id                 string
	Code               string
	Type               string
	Value              string
	AppliesToType      string
	MinimumOrderAmount string
	AppliesToId        string
	StartsAt           string
	EndsAt             string
	UsageCount         string
	UsageLimit         string
	Enabled            bool
}
