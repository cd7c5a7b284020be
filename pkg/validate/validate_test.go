package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerInput struct {
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8,max=128,confirmed"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
	Role                 string `json:"role" validate:"nullable,in=customer,admin"`
}

type cartInput struct {
	ProductID uint   `json:"product_id" validate:"required,integer"`
	Quantity  int    `json:"quantity" validate:"required,between=1,999"`
	Code      string `json:"code" validate:"nullable,digits=6"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(&registerInput{
		Email:                "jane@example.com",
		Password:             "supersecret",
		PasswordConfirmation: "supersecret",
		Role:                 "customer",
	})
	assert.False(t, HasErrors(errs))
}

func TestRequired(t *testing.T) {
	errs := Struct(&registerInput{})
	assert.Equal(t, "The email field is required.", errs["email"])
	assert.Equal(t, "The password field is required.", errs["password"])
}

func TestEmailFormat(t *testing.T) {
	errs := Struct(&registerInput{
		Email:                "not-an-email",
		Password:             "supersecret",
		PasswordConfirmation: "supersecret",
	})
	assert.Equal(t, "The email must be a valid email address.", errs["email"])
}

func TestMinLength(t *testing.T) {
	errs := Struct(&registerInput{
		Email:                "jane@example.com",
		Password:             "short",
		PasswordConfirmation: "short",
	})
	assert.Equal(t, "The password must be at least 8 characters.", errs["password"])
}

func TestConfirmedMismatch(t *testing.T) {
	errs := Struct(&registerInput{
		Email:                "jane@example.com",
		Password:             "supersecret",
		PasswordConfirmation: "different11",
	})
	assert.Equal(t, "The password confirmation does not match.", errs["password"])
}

func TestInRule(t *testing.T) {
	errs := Struct(&registerInput{
		Email:                "jane@example.com",
		Password:             "supersecret",
		PasswordConfirmation: "supersecret",
		Role:                 "superuser",
	})
	assert.Equal(t, "The selected role is invalid.", errs["role"])
}

func TestNullableSkips(t *testing.T) {
	errs := Struct(&cartInput{ProductID: 1, Quantity: 5})
	assert.False(t, HasErrors(errs))
}

func TestBetweenNumeric(t *testing.T) {
	errs := Struct(&cartInput{ProductID: 1, Quantity: 1000})
	assert.Equal(t, "The quantity must be between 1 and 999.", errs["quantity"])

	errs = Struct(&cartInput{ProductID: 1, Quantity: 999})
	assert.False(t, HasErrors(errs))
}

func TestDigits(t *testing.T) {
	errs := Struct(&cartInput{ProductID: 1, Quantity: 1, Code: "12345"})
	assert.Equal(t, "The code must be 6 digits.", errs["code"])

	errs = Struct(&cartInput{ProductID: 1, Quantity: 1, Code: "123456"})
	assert.False(t, HasErrors(errs))

	errs = Struct(&cartInput{ProductID: 1, Quantity: 1, Code: "12a456"})
	assert.Equal(t, "The code must be 6 digits.", errs["code"])
}

func TestSplitRulesKeepsMultiValueParams(t *testing.T) {
	rules := splitRules("required,in=customer,admin,max=10")
	assert.Equal(t, []string{"required", "in=customer,admin", "max=10"}, rules)
}
