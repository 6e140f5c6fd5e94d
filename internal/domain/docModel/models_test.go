package docModel

import "testing"

func TestGetDocType(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		expected DocType
	}{
		{"test.pdf", "", PDF},
		{"REPORT.PDF", "", PDF},
		{"notes.txt", "", TXT},
		{"notes", "text/plain", TXT},
		{"scan", "application/pdf", PDF},
		{"odd.pdf", "text/plain", TXT},
		{"image.png", "image/png", ERR},
		{"doc.docx", "", ERR},
	}

	for _, tt := range tests {
		if got := GetDocType(tt.name, tt.mime); got != tt.expected {
			t.Errorf("GetDocType(%s, %s) = %v; want %v", tt.name, tt.mime, got, tt.expected)
		}
	}
}

func TestIsSupported(t *testing.T) {
	if IsSupported("photo.jpg", "image/jpeg") {
		t.Error("jpg should not be supported")
	}
	if !IsSupported("a.txt", "") {
		t.Error("txt should be supported")
	}
}
