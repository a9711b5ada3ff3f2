package infrastructure

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"

	"jobboard/domain"
)

func TestObjectName_ExtensionFollowsContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{domain.MIMEPDF, ".pdf"},
		{domain.MIMEDocx, ".docx"},
		{domain.MIMEMSWord, ".doc"},
		{domain.MIMEPlainText, ".txt"},
		{"application/x-unknown", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			name := objectName(tt.contentType)
			assert.Equal(t, tt.want, path.Ext(name))
			assert.Len(t, name, 36+len(tt.want))
		})
	}

	assert.NotEqual(t, objectName(domain.MIMEPDF), objectName(domain.MIMEPDF))
}
