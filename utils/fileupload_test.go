package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUploadFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantCode string
	}{
		{name: "pdf allowed", filename: "brief.pdf", size: 1024},
		{name: "docx allowed", filename: "thesis.docx", size: 1024},
		{name: "uppercase extension allowed", filename: "IMAGE.PNG", size: 1024},
		{name: "archive allowed", filename: "sources.zip", size: 1024},
		{name: "executable rejected", filename: "malware.exe", size: 1024, wantCode: "INVALID_FILE_FORMAT"},
		{name: "no extension rejected", filename: "README", size: 1024, wantCode: "INVALID_FILE_FORMAT"},
		{name: "oversized file rejected", filename: "huge.pdf", size: MaxFileSize + 1, wantCode: "FILE_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := &multipart.FileHeader{Filename: tt.filename, Size: tt.size}
			err := ValidateUploadFile(header)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var uploadErr *FileUploadError
			if assert.ErrorAs(t, err, &uploadErr) {
				assert.Equal(t, tt.wantCode, uploadErr.Code)
			}
		})
	}
}

func TestContentTypeForFile(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeForFile("brief.pdf"))
	assert.Equal(t, "image/jpeg", ContentTypeForFile("photo.JPG"))
	assert.Equal(t, "application/octet-stream", ContentTypeForFile("unknown.xyz"))
}
