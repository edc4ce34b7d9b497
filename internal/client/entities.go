package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bigmirror-io/usergrid-client/internal/constants"
	internalhttp "github.com/bigmirror-io/usergrid-client/internal/http"
	"github.com/bigmirror-io/usergrid-client/pkg/usergrid"
)

// ErrEmptyResponse indicates the service accepted a write but returned no
// entity to confirm it.
var ErrEmptyResponse = errors.New("service returned no entities")

// GetEntities fetches one page of entities from endpoint.
//
// A missing resource yields an empty page rather than an error; this is the
// one operation with built-in not-found tolerance, so collection walks over
// absent or emptied collections terminate cleanly.
func (c *Client) GetEntities(ctx context.Context, endpoint string, query *usergrid.Query) (*usergrid.Page, error) {
	decoded, err := c.http.Get(ctx, endpoint, query.ToValues())
	if err != nil {
		if usergrid.IsNotFound(err) {
			return &usergrid.Page{}, nil
		}

		return nil, err
	}

	return parsePage(decoded), nil
}

// GetEntity fetches the first entity matching ql, or nil if none matches.
func (c *Client) GetEntity(ctx context.Context, endpoint string, ql string) (usergrid.Entity, error) {
	query := usergrid.NewQuery().WithLimit(1)
	if ql != "" {
		query = query.WithQL(ql)
	}

	page, err := c.GetEntities(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	if len(page.Entities) == 0 {
		return nil, nil
	}

	return page.Entities[0], nil
}

// GetEntityByID fetches collection/entityID directly. Unlike GetEntities, a
// missing resource is an error; pair with usergrid.CatchNotFound when a nil
// result is preferable.
func (c *Client) GetEntityByID(ctx context.Context, collection, entityID string) (usergrid.Entity, error) {
	decoded, err := c.http.Get(ctx, collection+"/"+entityID, nil)
	if err != nil {
		return nil, err
	}

	return firstEntity(decoded)
}

// PostEntity creates an entity in the collection at endpoint and returns
// the created entity as stored by the service.
func (c *Client) PostEntity(ctx context.Context, endpoint string, data usergrid.Entity) (usergrid.Entity, error) {
	decoded, err := c.http.Post(ctx, endpoint, data)
	if err != nil {
		return nil, err
	}

	return firstEntity(decoded)
}

// UpdateEntity updates the entity at endpoint and returns the stored result.
func (c *Client) UpdateEntity(ctx context.Context, endpoint string, data usergrid.Entity) (usergrid.Entity, error) {
	decoded, err := c.http.Put(ctx, endpoint, data)
	if err != nil {
		return nil, err
	}

	return firstEntity(decoded)
}

// UpdateEntityByID updates collection/entityID.
func (c *Client) UpdateEntityByID(ctx context.Context, collection, entityID string, data usergrid.Entity) (usergrid.Entity, error) {
	return c.UpdateEntity(ctx, collection+"/"+entityID, data)
}

// DeleteEntity deletes the entity at endpoint and returns the raw decoded
// response.
func (c *Client) DeleteEntity(ctx context.Context, endpoint string) (map[string]interface{}, error) {
	return c.http.Delete(ctx, endpoint)
}

// DeleteEntityByID deletes collection/entityID.
func (c *Client) DeleteEntityByID(ctx context.Context, collection, entityID string) (map[string]interface{}, error) {
	return c.http.Delete(ctx, collection+"/"+entityID)
}

// PostActivity posts an activity-stream entry for actor at endpoint. Extra
// fields are merged in last, so they win over the actor, verb, and content
// keys on collision.
func (c *Client) PostActivity(ctx context.Context, endpoint string, actor usergrid.Actor, verb, content string, extra map[string]interface{}) (map[string]interface{}, error) {
	payload := map[string]interface{}{
		"actor":   actor,
		"verb":    verb,
		"content": content,
	}

	for key, value := range extra {
		payload[key] = value
	}

	return c.http.Post(ctx, endpoint, payload)
}

// PostRelationship creates the relationship edge described by endpoint
// (e.g. "things/{id}/parts/{id}").
func (c *Client) PostRelationship(ctx context.Context, endpoint string) (map[string]interface{}, error) {
	return c.http.Post(ctx, endpoint, nil)
}

// DeleteRelationship removes the relationship edge described by endpoint.
func (c *Client) DeleteRelationship(ctx context.Context, endpoint string) (map[string]interface{}, error) {
	return c.http.Delete(ctx, endpoint)
}

// PostFile uploads the file at path to endpoint as a multipart request. The
// file's base name becomes both the part filename and the entity name, and
// the upload runs under an extended timeout.
func (c *Client) PostFile(ctx context.Context, endpoint, path string) (map[string]interface{}, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %q: %w", path, err)
	}

	defer func() {
		_ = file.Close()
	}()

	name := filepath.Base(path)

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	err = writer.WriteField("name", name)
	if err != nil {
		return nil, fmt.Errorf("writing multipart field: %w", err)
	}

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("creating multipart part: %w", err)
	}

	_, err = io.Copy(part, file)
	if err != nil {
		return nil, fmt.Errorf("reading file %q: %w", path, err)
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("finalizing multipart body: %w", err)
	}

	return c.http.Do(ctx, &internalhttp.Request{
		Method:      http.MethodPost,
		Path:        endpoint,
		RawBody:     buf.Bytes(),
		ContentType: writer.FormDataContentType(),
		Timeout:     constants.FileUploadTimeout,
	})
}

// UpdatePassword changes a user's password. Classified failures are
// re-categorized as password-update failures so callers can branch on the
// outcome without inspecting the endpoint.
func (c *Client) UpdatePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	body := map[string]interface{}{
		"oldpassword": oldPassword,
		"newpassword": newPassword,
	}

	_, err := c.http.Post(ctx, "users/"+username+"/password", body)
	if err != nil {
		var apiErr *usergrid.APIError
		if errors.As(err, &apiErr) {
			return &usergrid.APIError{
				Category:   usergrid.ErrorCategoryPasswordUpdateFailed,
				Detail:     apiErr.Detail,
				StatusCode: apiErr.StatusCode,
			}
		}

		return err
	}

	return nil
}

// parsePage extracts entities and the continuation cursor from a decoded
// listing. Some endpoints return results under "list" instead of
// "entities"; both shapes are handled.
func parsePage(decoded map[string]interface{}) *usergrid.Page {
	page := &usergrid.Page{}

	raw, ok := decoded["entities"].([]interface{})
	if !ok {
		raw, _ = decoded["list"].([]interface{})
	}

	for _, item := range raw {
		fields, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		page.Entities = append(page.Entities, usergrid.Entity(fields))
	}

	if cursor, ok := decoded["cursor"].(string); ok {
		page.Cursor = cursor
	}

	return page
}

func firstEntity(decoded map[string]interface{}) (usergrid.Entity, error) {
	page := parsePage(decoded)
	if len(page.Entities) == 0 {
		return nil, ErrEmptyResponse
	}

	return page.Entities[0], nil
}
