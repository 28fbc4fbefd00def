package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stepFixture struct {
	EntityName   string `json:"entityName" validate:"required"`
	MonthlyVol   string `json:"monthlyVol" validate:"volume_tier"`
	Role         string `json:"role" validate:"partner_role"`
	AMLCheck     bool   `json:"amlCheck" validate:"required"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
}

func TestValidateStructured_UsesJSONNames(t *testing.T) {
	v := New()

	errs := v.ValidateStructured(&stepFixture{ContactEmail: "nope"})

	assert.Equal(t, "This field is required", errs["entityName"])
	assert.Equal(t, "Select one of the listed volume tiers", errs["monthlyVol"])
	assert.Equal(t, "Role must be OPERATOR or CREATOR", errs["role"])
	assert.Equal(t, "This attestation must be accepted", errs["amlCheck"])
	assert.Equal(t, "Invalid email address", errs["contactEmail"])
}

func TestValidateStructured_Valid(t *testing.T) {
	v := New()

	errs := v.ValidateStructured(&stepFixture{
		EntityName: "CryptoKing TV",
		MonthlyVol: "$10k - $50k",
		Role:       "creator",
		AMLCheck:   true,
	})

	assert.Nil(t, errs)
	assert.NoError(t, v.Validate(&stepFixture{
		EntityName: "ZapWay Corp LTD",
		MonthlyVol: "$250k+",
		Role:       "OPERATOR",
		AMLCheck:   true,
	}))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;alpha&lt;/b&gt;", Sanitize("  <b>alpha</b> "))
}

func TestValidateVar(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateVar("light", "oneof=dark light"))
	assert.Error(t, v.ValidateVar("sepia", "oneof=dark light"))
}
