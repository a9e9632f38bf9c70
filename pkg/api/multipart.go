package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// FileField is a file to attach to a multipart request: discipline and
// payment attachments, farmer photos.
type FileField struct {
	// Field is the form field name, e.g. "attachment" or "image"
	Field string
	// Name is the filename reported to the server
	Name string
	// Content is the file body
	Content io.Reader
}

// PostMultipart issues an authenticated POST with form fields and file
// attachments. Callers declare which values are files; the transport
// encoding is this method's concern.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []FileField, out interface{}) error {
	body, contentType, err := encodeMultipart(fields, files)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, nil, body, contentType, out, true)
}

// PatchMultipart issues an authenticated PATCH with form fields and file
// attachments.
func (c *Client) PatchMultipart(ctx context.Context, path string, fields map[string]string, files []FileField, out interface{}) error {
	body, contentType, err := encodeMultipart(fields, files)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, nil, body, contentType, out, true)
}

func encodeMultipart(fields map[string]string, files []FileField) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for field, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(field, value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", field, err)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", file.Field, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", fmt.Errorf("copy file %s: %w", file.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}
