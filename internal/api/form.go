package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// fieldPart is a single text entry in a multipart form.
type fieldPart struct {
	name  string
	value string
}

// filePart is a single file entry in a multipart form.
type filePart struct {
	name     string
	filename string
	data     []byte
}

// Form accumulates fields and files for a multipart/form-data request.
// Entry order is preserved.
type Form struct {
	fields []fieldPart
	files  []filePart
}

// NewForm creates an empty multipart form.
func NewForm() *Form {
	return &Form{}
}

// AddField appends a text field to the form.
func (f *Form) AddField(name, value string) *Form {
	f.fields = append(f.fields, fieldPart{name: name, value: value})
	return f
}

// AddFile appends a file to the form, keeping its original filename.
func (f *Form) AddFile(name, filename string, data []byte) *Form {
	f.files = append(f.files, filePart{
		name:     name,
		filename: filename,
		data:     data,
	})
	return f
}

// Encode writes the form as a multipart body and returns it together
// with the Content-Type header value carrying the boundary.
func (f *Form) Encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("writing form field %q: %w", field.name, err)
		}
	}

	for _, file := range f.files {
		part, err := w.CreateFormFile(file.name, file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("creating form file %q: %w", file.name, err)
		}
		if _, err := part.Write(file.data); err != nil {
			return nil, "", fmt.Errorf("writing form file %q: %w", file.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing form body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
