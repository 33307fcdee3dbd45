package validator

const (
	Email            = "email"
	URL              = "url"
	Min              = "min"
	Max              = "max"
	Required         = "required"
	Role             = "role"
	SignupRole       = "signup_role"
	Carrier          = "carrier"
	BasePrice        = "base_price"
	HigherTierOption = "higher_tier_option"
	HexColor         = "hex_color"
	DateYMD          = "date_ymd"
	NotEmpty         = "not_empty"
)
