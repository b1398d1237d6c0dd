package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
)

const futureDateMessage = "Date of Death cannot be in the future"

var fieldLabels = map[string]string{
	"permitNumber":        "Permit number",
	"firstName":           "First name",
	"lastName":            "Last name",
	"gender":              "Gender",
	"age":                 "Age",
	"dateOfDeath":         "Date of Death",
	"nextOfKinName":       "Next of kin name",
	"nextOfKinContact":    "Next of kin contact",
	"burialLocation":      "Burial location",
	"primaryService":      "Primary service",
	"secondaryService":    "Secondary service",
	"tertiaryService":     "Tertiary service",
	"amountPaidBurial":    "Amount paid (burial)",
	"amountPaidSecondary": "Amount paid (secondary)",
	"amountPaidTertiary":  "Amount paid (tertiary)",
	"status":              "Status",
	"username":            "Username",
	"email":               "Email",
}

// NewValidator builds the form validator. notfuture judges calendar dates
// against the end of today in loc, as read from now.
func NewValidator(now func() time.Time, loc *time.Location) *validator.Validate {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		if raw == "" {
			return true
		}
		day, err := time.ParseInLocation(models.DateLayout, raw, loc)
		if err != nil {
			return false
		}
		return !day.After(endOfDay(now().In(loc)))
	})
	_ = v.RegisterValidation("burial_location", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, loc := range models.BurialLocations {
			if value == loc {
				return true
			}
		}
		return false
	})
	return v
}

// validationMessage turns the first validator failure into a user message.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Please check the form and try again"
	}
	fe := errs[0]
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "notfuture":
		return futureDateMessage
	case "required":
		return label + " is required"
	case "gte":
		return label + " cannot be negative"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "email":
		return "Please enter a valid email address"
	case "datetime":
		return label + " must be a valid date"
	default:
		return label + " is invalid"
	}
}
