package repository

import (
	"context"
	"net/url"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/httpclient"
)

const permitsPath = "/api/permits"

// PermitRepository reads and writes permits through the backend REST API.
type PermitRepository struct {
	client *httpclient.Client
}

// NewPermitRepository creates a PermitRepository.
func NewPermitRepository(client *httpclient.Client) *PermitRepository {
	return &PermitRepository{client: client}
}

// List returns one page of permits matching params.
func (r *PermitRepository) List(ctx context.Context, params url.Values) (*models.PermitPage, error) {
	var page models.PermitPage
	if err := r.client.Get(ctx, permitsPath, params, &page); err != nil {
		return nil, err
	}
	if page.Permits == nil {
		page.Permits = []models.Permit{}
	}
	return &page, nil
}

// Get returns a single permit including its attachments.
func (r *PermitRepository) Get(ctx context.Context, id string) (*models.Permit, error) {
	var permit models.Permit
	if err := r.client.Get(ctx, permitsPath+"/"+url.PathEscape(id), nil, &permit); err != nil {
		return nil, err
	}
	return &permit, nil
}

// Create submits a new permit with its scanned attachments as multipart form data.
func (r *PermitRepository) Create(ctx context.Context, form models.PermitForm, files []httpclient.FilePart) (*models.Permit, error) {
	var created models.Permit
	if err := r.client.PostMultipart(ctx, permitsPath, form.Fields(), files, &created); err != nil {
		return nil, err
	}
	if created.PermitNumber == "" {
		created.PermitNumber = form.PermitNumber
	}
	return &created, nil
}

// Update replaces the editable fields of an existing permit.
func (r *PermitRepository) Update(ctx context.Context, id string, form models.PermitForm) (*models.Permit, error) {
	var updated models.Permit
	if err := r.client.Put(ctx, permitsPath+"/"+url.PathEscape(id), form, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// BulkDelete removes the given permits and returns the backend's message.
func (r *PermitRepository) BulkDelete(ctx context.Context, ids []string) (string, error) {
	var out struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	body := map[string][]string{"permitIds": ids}
	if err := r.client.Delete(ctx, permitsPath, body, &out); err != nil {
		return "", err
	}
	if out.Msg != "" {
		return out.Msg, nil
	}
	return out.Message, nil
}
