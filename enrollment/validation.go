package enrollment

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomerDetails is the billing data collected on the payment step.
type CustomerDetails struct {
	Name  string `json:"name" validate:"required,min=2,max=50"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,number"`
}

func (d CustomerDetails) normalized() CustomerDetails {
	return CustomerDetails{
		Name:  strings.TrimSpace(d.Name),
		Email: strings.TrimSpace(d.Email),
		Phone: strings.TrimSpace(d.Phone),
	}
}

// ValidationError lists field-level violations keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return "invalid customer details: " + strings.Join(names, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateCustomer checks d after trimming surrounding whitespace.
func ValidateCustomer(d CustomerDetails) error {
	err := validate.Struct(d.normalized())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		if fe.Tag() == "required" {
			return "Name is required!"
		}
		return "Name must be between 2 and 50 characters!"
	case "email":
		if fe.Tag() == "required" {
			return "Email is required!"
		}
		return "Invalid email address!"
	case "phone":
		if fe.Tag() == "required" {
			return "Phone is required!"
		}
		return "Phone must contain digits only!"
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
