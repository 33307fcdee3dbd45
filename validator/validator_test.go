package validator

import (
	"testing"

	"campaign-platform/domain"

	"github.com/stretchr/testify/require"
)

type signUpForm struct {
	Role string `json:"role" binding:"required,signup_role"`
}

type draftForm struct {
	Carrier   string `json:"carrier" binding:"carrier"`
	BasePrice int64  `json:"basePrice" binding:"base_price"`
	Tier      string `json:"tier" binding:"higher_tier_option"`
	Color     string `json:"color" binding:"hex_color"`
	Date      string `json:"date" binding:"date_ymd"`
}

func TestCustomTags_Accept(t *testing.T) {
	v := New()

	require.NoError(t, v.ValidateStruct(&signUpForm{Role: string(domain.RoleBrandAdmin)}))
	require.NoError(t, v.ValidateStruct(&draftForm{
		Carrier:   "hanjin",
		BasePrice: 300000,
		Tier:      "none",
		Color:     "#A1b2C3",
		Date:      "",
	}))
}

func TestCustomTags_RejectWithTranslatedMessages(t *testing.T) {
	v := New()

	err := v.ValidateStruct(&signUpForm{Role: string(domain.RoleSuperAdmin)})
	require.Error(t, err)
	require.Equal(t, "role must be brand_admin or creator_admin", v.Translate(err)["signUpForm.role"])

	err = v.ValidateStruct(&draftForm{
		Carrier:   "dhl",
		BasePrice: 250000,
		Tier:      "300000",
		Color:     "red",
		Date:      "2024-13-01",
	})
	require.Error(t, err)
	msgs := v.Translate(err)
	require.Len(t, msgs, 5)
	require.Contains(t, msgs["draftForm.basePrice"], "200000")
}

func TestTranslate_NonValidationError(t *testing.T) {
	v := New()
	msgs := v.Translate(domain.ErrBadRequest.WithReason("bad json"))
	require.Contains(t, msgs, "body")
}

func TestValidateStruct_SliceOfForms(t *testing.T) {
	v := New()

	require.NoError(t, v.ValidateStruct([]signUpForm{{Role: "brand_admin"}, {Role: "creator_admin"}}))

	err := v.ValidateStruct(&[]signUpForm{{Role: "brand_admin"}, {Role: "super_admin"}})
	require.Error(t, err)
	msgs := v.Translate(err)
	require.Equal(t, map[string]string{"[1].signUpForm.role": "role must be brand_admin or creator_admin"}, msgs)

	require.NoError(t, v.ValidateStruct(signUpForm{Role: "creator_admin"}))
	require.NoError(t, v.ValidateStruct((*signUpForm)(nil)))
	require.NoError(t, v.ValidateStruct("not a struct"))
}
