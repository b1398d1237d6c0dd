package models

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Gender of the deceased as captured on the permit.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// PermitStatus is the workflow status of a permit.
type PermitStatus string

const (
	StatusPending   PermitStatus = "Pending"
	StatusCompleted PermitStatus = "Completed"
	StatusVerified  PermitStatus = "Verified"
	StatusRejected  PermitStatus = "Rejected"
)

// Burial locations (cemetery sections).
const (
	LocationBlockA  = "Block A"
	LocationMain    = "Main"
	LocationBlockB  = "Block B"
	LocationLangata = "Lan'gata"
)

// BurialLocations lists the closed set of sections in display order.
var BurialLocations = []string{LocationBlockA, LocationMain, LocationBlockB, LocationLangata}

// Service tiers.
const (
	PrimaryServiceBurial = "Burial"
	ServiceNone          = "None"
)

var (
	SecondaryServices = []string{ServiceNone, "Head stone", "Permanent grave", "Maintenance"}
	TertiaryServices  = []string{ServiceNone, "Burial Permit application", "Donation", "Others"}
)

// Attachment is an uploaded scan stored by the backend.
type Attachment struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// IsPDF reports whether the attachment should be previewed as a document.
func (a Attachment) IsPDF() bool {
	return strings.EqualFold(path.Ext(a.Filename), ".pdf")
}

// Permit is a burial permit record as returned by the backend.
type Permit struct {
	ID                  string       `json:"_id"`
	PermitNumber        string       `json:"permitNumber"`
	FirstName           string       `json:"firstName"`
	MiddleName          string       `json:"middleName,omitempty"`
	LastName            string       `json:"lastName"`
	IDPassportNo        string       `json:"idPassportNo,omitempty"`
	Gender              Gender       `json:"gender"`
	Age                 int          `json:"age"`
	DateOfDeath         *time.Time   `json:"dateOfDeath,omitempty"`
	NextOfKinName       string       `json:"nextOfKinName"`
	NextOfKinContact    string       `json:"nextOfKinContact"`
	NextOfKinIDPassport string       `json:"nextOfKinIdPassport,omitempty"`
	BurialLocation      string       `json:"burialLocation"`
	PrimaryService      string       `json:"primaryService,omitempty"`
	AmountPaidBurial    float64      `json:"amountPaidBurial,omitempty"`
	SecondaryService    string       `json:"secondaryService,omitempty"`
	AmountPaidSecondary float64      `json:"amountPaidSecondary,omitempty"`
	TertiaryService     string       `json:"tertiaryService,omitempty"`
	AmountPaidTertiary  float64      `json:"amountPaidTertiary,omitempty"`
	MpesaRefNo          string       `json:"mpesaRefNo,omitempty"`
	ReceiptNo           string       `json:"receiptNo,omitempty"`
	Status              PermitStatus `json:"status"`
	Attachments         []Attachment `json:"attachments,omitempty"`
	IssuanceDate        *time.Time   `json:"issuanceDate,omitempty"`
	CreatedAt           *time.Time   `json:"createdAt,omitempty"`
}

// FullName joins the name parts, collapsing the gap left by a missing middle name.
func (p Permit) FullName() string {
	return strings.Join(strings.Fields(p.FirstName+" "+p.MiddleName+" "+p.LastName), " ")
}

// PermitPage is one page of GET /api/permits.
type PermitPage struct {
	Permits     []Permit `json:"permits"`
	CurrentPage int      `json:"currentPage"`
	TotalPages  int      `json:"totalPages"`
	Total       int      `json:"total"`
}

// Pagination returns the page window with backend gaps filled in.
func (p PermitPage) Pagination() Pagination {
	return Pagination{CurrentPage: p.CurrentPage, TotalPages: p.TotalPages, Total: p.Total}.Normalize()
}

// RecentPermit is the compact row served for the dashboard table.
type RecentPermit struct {
	ID             string       `json:"_id"`
	PermitNumber   string       `json:"permitNumber"`
	FullName       string       `json:"fullName"`
	DateOfDeath    *time.Time   `json:"dateOfDeath,omitempty"`
	BurialLocation string       `json:"burialLocation"`
	Status         PermitStatus `json:"status"`
}

// PermitForm is the editable field set of the data-capture form. Numbers are
// pointers so that "not entered" is distinguishable from zero.
type PermitForm struct {
	PermitNumber        string       `json:"permitNumber" validate:"required"`
	FirstName           string       `json:"firstName" validate:"required"`
	MiddleName          string       `json:"middleName"`
	LastName            string       `json:"lastName" validate:"required"`
	IDPassportNo        string       `json:"idPassportNo"`
	Gender              Gender       `json:"gender" validate:"required,oneof=Male Female Other"`
	Age                 *int         `json:"age" validate:"required,gte=0"`
	DateOfDeath         string       `json:"dateOfDeath" validate:"required,datetime=2006-01-02,notfuture"`
	NextOfKinName       string       `json:"nextOfKinName" validate:"required"`
	NextOfKinContact    string       `json:"nextOfKinContact" validate:"required"`
	NextOfKinIDPassport string       `json:"nextOfKinIdPassport"`
	BurialLocation      string       `json:"burialLocation" validate:"required,burial_location"`
	PrimaryService      string       `json:"primaryService" validate:"required,eq=Burial"`
	AmountPaidBurial    *float64     `json:"amountPaidBurial" validate:"omitempty,gte=0"`
	SecondaryService    string       `json:"secondaryService" validate:"omitempty,oneof='None' 'Head stone' 'Permanent grave' 'Maintenance'"`
	AmountPaidSecondary *float64     `json:"amountPaidSecondary" validate:"omitempty,gte=0"`
	TertiaryService     string       `json:"tertiaryService" validate:"omitempty,oneof='None' 'Burial Permit application' 'Donation' 'Others'"`
	AmountPaidTertiary  *float64     `json:"amountPaidTertiary" validate:"omitempty,gte=0"`
	MpesaRefNo          string       `json:"mpesaRefNo"`
	ReceiptNo           string       `json:"receiptNo"`
	Status              PermitStatus `json:"status" validate:"required,oneof=Pending Completed Verified Rejected"`
}

// NewPermitForm returns the blank form with the capture defaults applied.
func NewPermitForm() PermitForm {
	return PermitForm{
		Gender:           GenderMale,
		BurialLocation:   LocationBlockA,
		PrimaryService:   PrimaryServiceBurial,
		SecondaryService: ServiceNone,
		TertiaryService:  ServiceNone,
		Status:           StatusPending,
	}
}

// FormFromPermit loads an existing record into the form for edit mode,
// falling back to the capture defaults for blank fields.
func FormFromPermit(p Permit) PermitForm {
	form := NewPermitForm()
	form.PermitNumber = p.PermitNumber
	form.FirstName = p.FirstName
	form.MiddleName = p.MiddleName
	form.LastName = p.LastName
	form.IDPassportNo = p.IDPassportNo
	if p.Gender != "" {
		form.Gender = p.Gender
	}
	age := p.Age
	form.Age = &age
	if p.DateOfDeath != nil {
		form.DateOfDeath = p.DateOfDeath.UTC().Format(DateLayout)
	}
	form.NextOfKinName = p.NextOfKinName
	form.NextOfKinContact = p.NextOfKinContact
	form.NextOfKinIDPassport = p.NextOfKinIDPassport
	if p.BurialLocation != "" {
		form.BurialLocation = p.BurialLocation
	}
	if p.PrimaryService != "" {
		form.PrimaryService = p.PrimaryService
	}
	if p.SecondaryService != "" {
		form.SecondaryService = p.SecondaryService
	}
	if p.TertiaryService != "" {
		form.TertiaryService = p.TertiaryService
	}
	form.AmountPaidBurial = nonZero(p.AmountPaidBurial)
	form.AmountPaidSecondary = nonZero(p.AmountPaidSecondary)
	form.AmountPaidTertiary = nonZero(p.AmountPaidTertiary)
	form.MpesaRefNo = p.MpesaRefNo
	form.ReceiptNo = p.ReceiptNo
	if p.Status != "" {
		form.Status = p.Status
	}
	return form
}

// HasName reports whether enough has been typed to be worth auto-saving.
func (f PermitForm) HasName() bool {
	return strings.TrimSpace(f.FirstName) != "" || strings.TrimSpace(f.LastName) != ""
}

// Fields flattens the form into multipart field values, mirroring the
// browser's FormData encoding (blank numbers are sent as empty strings).
func (f PermitForm) Fields() [][2]string {
	return [][2]string{
		{"permitNumber", f.PermitNumber},
		{"firstName", f.FirstName},
		{"middleName", f.MiddleName},
		{"lastName", f.LastName},
		{"idPassportNo", f.IDPassportNo},
		{"gender", string(f.Gender)},
		{"age", formatInt(f.Age)},
		{"dateOfDeath", f.DateOfDeath},
		{"nextOfKinName", f.NextOfKinName},
		{"nextOfKinContact", f.NextOfKinContact},
		{"nextOfKinIdPassport", f.NextOfKinIDPassport},
		{"burialLocation", f.BurialLocation},
		{"primaryService", f.PrimaryService},
		{"amountPaidBurial", formatFloat(f.AmountPaidBurial)},
		{"secondaryService", f.SecondaryService},
		{"amountPaidSecondary", formatFloat(f.AmountPaidSecondary)},
		{"tertiaryService", f.TertiaryService},
		{"amountPaidTertiary", formatFloat(f.AmountPaidTertiary)},
		{"mpesaRefNo", f.MpesaRefNo},
		{"receiptNo", f.ReceiptNo},
		{"status", string(f.Status)},
	}
}

// Set assigns one form field from its text value. Blank numbers clear the
// field; malformed numbers are rejected.
func (f *PermitForm) Set(field, value string) error {
	trimmed := strings.TrimSpace(value)
	switch field {
	case "permitNumber":
		f.PermitNumber = trimmed
	case "firstName":
		f.FirstName = value
	case "middleName":
		f.MiddleName = value
	case "lastName":
		f.LastName = value
	case "idPassportNo":
		f.IDPassportNo = value
	case "gender":
		f.Gender = Gender(trimmed)
	case "age":
		if trimmed == "" {
			f.Age = nil
			return nil
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return fmt.Errorf("age must be a whole number")
		}
		f.Age = &n
	case "dateOfDeath":
		f.DateOfDeath = trimmed
	case "nextOfKinName":
		f.NextOfKinName = value
	case "nextOfKinContact":
		f.NextOfKinContact = value
	case "nextOfKinIdPassport":
		f.NextOfKinIDPassport = value
	case "burialLocation":
		f.BurialLocation = trimmed
	case "primaryService":
		f.PrimaryService = trimmed
	case "secondaryService":
		f.SecondaryService = trimmed
	case "tertiaryService":
		f.TertiaryService = trimmed
	case "amountPaidBurial":
		return setAmount(&f.AmountPaidBurial, field, trimmed)
	case "amountPaidSecondary":
		return setAmount(&f.AmountPaidSecondary, field, trimmed)
	case "amountPaidTertiary":
		return setAmount(&f.AmountPaidTertiary, field, trimmed)
	case "mpesaRefNo":
		f.MpesaRefNo = value
	case "receiptNo":
		f.ReceiptNo = value
	case "status":
		f.Status = PermitStatus(trimmed)
	default:
		return fmt.Errorf("unknown form field %q", field)
	}
	return nil
}

func setAmount(dst **float64, field, value string) error {
	if value == "" {
		*dst = nil
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%s must be a number", field)
	}
	*dst = &v
	return nil
}

var permitNumberPattern = regexp.MustCompile(`^BP-\d{4}-(\d{5})$`)

// PermitSequence extracts the 5-digit sequence from a permit number, or 0
// when the number does not follow the BP-<year>-<seq> format.
func PermitSequence(number string) int {
	m := permitNumberPattern.FindStringSubmatch(number)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// FormatPermitNumber renders BP-<year>-<seq> with a zero-padded sequence.
func FormatPermitNumber(year, seq int) string {
	return fmt.Sprintf("BP-%d-%05d", year, seq)
}

func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
