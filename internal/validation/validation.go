// Package validation checks product payloads before they reach the store.
package validation

import (
	"encoding/json"
	"errors"

	apperrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/go-playground/validator/v10"
)

const (
	MsgRequiredFields = "Name, price, and category are required"
	MsgPositivePrice  = "Price must be a positive number"
	MsgInvalidBody    = "Invalid request body"
)

// ProductCreate is the payload of a create request.
type ProductCreate struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	InStock     *bool   `json:"inStock"`
}

// ProductUpdate is the payload of an update request. Every field is optional.
// A zero price, name or category counts as not supplied.
type ProductUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Category    *string  `json:"category"`
	InStock     *bool    `json:"inStock"`
}

// Validator wraps go-playground/validator and translates its rule failures into validation errors.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Create checks a create payload. Missing required fields win over a bad price.
func (v *Validator) Create(p ProductCreate) error {
	return v.check(p)
}

// Update checks an update payload. A zero price is left out of the check since it keeps the stored price.
func (v *Validator) Update(p ProductUpdate) error {
	if p.Price != nil && *p.Price == 0 {
		p.Price = nil
	}
	return v.check(p)
}

func (v *Validator) check(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.ValidationWrap(MsgInvalidBody, err)
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return apperrors.ValidationWrap(MsgRequiredFields, err)
		}
	}
	return apperrors.ValidationWrap(MsgPositivePrice, err)
}

// DecodeError turns a body decoding failure into a validation error.
// A price of the wrong JSON type is reported as a bad price.
func DecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "price" {
		return apperrors.ValidationWrap(MsgPositivePrice, err)
	}
	return apperrors.ValidationWrap(MsgInvalidBody, err)
}

// DecodeCreateError is DecodeError for a create body. encoding/json keeps filling the payload after a
// type mismatch, so a missing name or category still wins over a badly typed price.
func DecodeCreateError(err error, partial ProductCreate) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "price" && (partial.Name == "" || partial.Category == "") {
		return apperrors.ValidationWrap(MsgRequiredFields, err)
	}
	return DecodeError(err)
}
