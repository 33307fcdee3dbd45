package validator

import (
	"regexp"
	"strings"

	"campaign-platform/domain"
	"campaign-platform/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

const HexColorRegexString = `^#[0-9A-Fa-f]{6}$`

var hexColorRegex = regexp.MustCompile(HexColorRegexString)

type Registration struct {
	Tag  string
	Func validator.Func
}

var defaultRegistrations = [...]Registration{
	{Tag: Role, Func: IsValidRole},
	{Tag: SignupRole, Func: IsValidSignupRole},
	{Tag: Carrier, Func: IsValidCarrier},
	{Tag: BasePrice, Func: IsValidBasePrice},
	{Tag: HigherTierOption, Func: IsValidHigherTierOption},
	{Tag: HexColor, Func: IsValidHexColor},
	{Tag: DateYMD, Func: IsValidDateYMD},
	{Tag: NotEmpty, Func: IsNotEmpty},
}

func IsValidRole(fl validator.FieldLevel) bool {
	return domain.Role(fl.Field().String()).IsValid()
}

// IsValidSignupRole rejects super_admin, which is only ever seeded.
func IsValidSignupRole(fl validator.FieldLevel) bool {
	return domain.Role(fl.Field().String()).SelfAssignable()
}

func IsValidCarrier(fl validator.FieldLevel) bool {
	return domain.Carrier(fl.Field().String()).IsValid()
}

func IsValidBasePrice(fl validator.FieldLevel) bool {
	return lo.Contains(domain.PriceOptions, fl.Field().Int())
}

func IsValidHigherTierOption(fl validator.FieldLevel) bool {
	_, ok := domain.HigherTierOption(fl.Field().String()).Price()
	return ok
}

func IsValidHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

// IsValidDateYMD accepts an empty string so partially filled timelines can
// be saved. Pair it with required when the date is mandatory.
func IsValidDateYMD(fl validator.FieldLevel) bool {
	input := fl.Field().String()
	return input == "" || utils.IsDate(input)
}

func IsNotEmpty(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
