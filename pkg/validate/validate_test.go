package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/partsdesk/pkg/validate"
)

type draftInput struct {
	Name     string  `json:"name"     validate:"required,min=2,max=255"`
	Brand    string  `json:"brand"    validate:"required"`
	Price    float64 `json:"price"    validate:"numeric,gte=0"`
	Stock    int     `json:"stock"    validate:"integer,gte=0"`
	Category string  `json:"category" validate:"required"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(draftInput{
		Name:     "Brake Pad",
		Brand:    "Bosch",
		Price:    19.99,
		Stock:    4,
		Category: "Brakes",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestZeroPriceAndStockAreValid(t *testing.T) {
	errs := validate.Struct(draftInput{Name: "Fuse", Brand: "Hella", Category: "Electrical"})
	if validate.HasErrors(errs) {
		t.Errorf("expected zero price/stock to pass, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(draftInput{})
	for _, field := range []string{"name", "brand", "category"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestMinLength(t *testing.T) {
	errs := validate.Struct(draftInput{Name: "x", Brand: "Bosch", Category: "Brakes"})
	if _, ok := errs["name"]; !ok {
		t.Error("expected 1-char name to fail min=2")
	}
}

func TestNegativeNumbersFailGte(t *testing.T) {
	errs := validate.Struct(draftInput{Name: "Pad", Brand: "B", Category: "C", Price: -1})
	if _, ok := errs["price"]; !ok {
		t.Error("expected negative price to fail")
	}
	errs = validate.Struct(draftInput{Name: "Pad", Brand: "B", Category: "C", Stock: -3})
	if _, ok := errs["stock"]; !ok {
		t.Error("expected negative stock to fail")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs := validate.Struct(in{Email: "not-an-email"}); !validate.HasErrors(errs) {
		t.Error("expected invalid email to fail")
	}
	if errs := validate.Struct(in{Email: "jane@example.com"}); validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestConfirmed(t *testing.T) {
	type in struct {
		Password             string `json:"password"              validate:"required,min=6"`
		PasswordConfirmation string `json:"password_confirmation" validate:"required,confirmed"`
	}

	errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "secret123"})
	if validate.HasErrors(errs) {
		t.Errorf("expected matching confirmation to pass, got: %v", errs)
	}

	errs = validate.Struct(in{Password: "secret123", PasswordConfirmation: "different"})
	if _, ok := errs["password_confirmation"]; !ok {
		t.Error("expected mismatched confirmation to fail")
	}
}

func TestFirstFailingRulePerField(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required,min=2"`
	}
	errs := validate.Struct(in{})
	if errs["name"] != "The name field is required." {
		t.Errorf("expected the required message, got %q", errs["name"])
	}
}
