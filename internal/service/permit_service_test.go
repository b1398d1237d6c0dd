package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
)

type fakeGetter struct {
	permit *models.Permit
	err    error
	ids    []string
}

func (f *fakeGetter) Get(_ context.Context, id string) (*models.Permit, error) {
	f.ids = append(f.ids, id)
	return f.permit, f.err
}

func samplePermit() *models.Permit {
	death := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	return &models.Permit{
		ID:             "p1",
		PermitNumber:   "BP-2024-00001",
		FirstName:      "Jane",
		LastName:       "Doe",
		DateOfDeath:    &death,
		NextOfKinName:  "Mary Doe",
		BurialLocation: "Main",
		Status:         models.StatusVerified,
		Attachments: []models.Attachment{
			{Filename: "certificate.PDF", Path: `uploads\certificate.PDF`},
			{Filename: "id.jpg", Path: "/uploads/id.jpg"},
		},
	}
}

func TestPermitDetailClassifiesAttachments(t *testing.T) {
	getter := &fakeGetter{permit: samplePermit()}
	svc := NewPermitService(getter, "http://backend:5000/", "", nil)

	detail, err := svc.Detail(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", detail.FullName)
	require.Len(t, detail.Attachments, 2)
	assert.Equal(t, dto.AttachmentView{
		Filename: "certificate.PDF",
		Path:     `uploads\certificate.PDF`,
		URL:      "http://backend:5000/uploads/certificate.PDF",
		Kind:     dto.AttachmentKindPDF,
	}, detail.Attachments[0])
	assert.Equal(t, dto.AttachmentKindImage, detail.Attachments[1].Kind)
	assert.Equal(t, "http://backend:5000/uploads/id.jpg", detail.Attachments[1].URL)
	assert.Equal(t, []string{"p1"}, getter.ids)
}

func TestPermitDetailPassesErrors(t *testing.T) {
	svc := NewPermitService(&fakeGetter{err: appErrors.ErrNotFound}, "", "", nil)
	_, err := svc.Detail(context.Background(), "missing")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestPermitSlip(t *testing.T) {
	svc := NewPermitService(&fakeGetter{permit: samplePermit()}, "", "", nil)

	file, err := svc.Slip(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "BP-2024-00001.txt", file.Filename)
	assert.Equal(t, "Burial Permit: BP-2024-00001\n"+
		"Name: Jane Doe\n"+
		"Date of Death: 05/01/2024\n"+
		"Next of Kin: Mary Doe\n"+
		"Burial Location: Main\n"+
		"Status: Verified\n", string(file.Data))

	p := samplePermit()
	p.NextOfKinName = ""
	p.DateOfDeath = nil
	slip := PermitSlip(*p, "2006-01-02")
	assert.NotContains(t, string(slip.Data), "Next of Kin")
	assert.Contains(t, string(slip.Data), "Date of Death: \n")
}
