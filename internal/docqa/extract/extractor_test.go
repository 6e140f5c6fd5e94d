package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akolanti/DocChat/internal/domain/docModel"
)

type mockPageReader struct {
	OnReadPages func(ctx context.Context, data []byte) ([][]string, error)
}

func (m *mockPageReader) ReadPages(ctx context.Context, data []byte) ([][]string, error) {
	return m.OnReadPages(ctx, data)
}

func TestExtract_PlainTextIsIdentity(t *testing.T) {
	e := New(nil)
	inputs := []string{
		"",
		"plain words",
		"  keeps\r\nleading and trailing whitespace  \n",
		"BT (not a pdf) ET",
		"unicode: café ☕",
	}
	for _, in := range inputs {
		got, strategy := e.Extract(context.Background(), []byte(in), docModel.TXT)
		if got != in {
			t.Errorf("Extract(%q) = %q, want identity", in, got)
		}
		if strategy != StrategyPlainText {
			t.Errorf("strategy = %s, want %s", strategy, StrategyPlainText)
		}
	}
}

func TestMarkerScan(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"hello world", "BT (Hello) (World) ET", "Hello World"},
		{"several regions", "junk BT /F1 12 Tf (First) Tj ET more BT (Second) Tj ET", "First Second"},
		{"drops short and numeric", "BT (A) (12 34) (  ) (Real text) ET", "Real text"},
		{"region must not span lines", "BT\n(Hello World) Tj\nET", ""},
		{"no regions", "%PDF-1.4 nothing here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarkerScan(tt.input); got != tt.expected {
				t.Errorf("MarkerScan(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtractPDF_MarkerScanWins(t *testing.T) {
	e := New(nil)
	got, strategy := e.Extract(context.Background(), []byte("%PDF-1.4\nBT (Hello) (World) ET\n%%EOF"), docModel.PDF)
	if got != "Hello World" {
		t.Errorf("got %q, want %q", got, "Hello World")
	}
	if strategy != StrategyMarkerScan {
		t.Errorf("strategy = %s, want %s", strategy, StrategyMarkerScan)
	}
}

func TestExtractPDF_CleanupFallback(t *testing.T) {
	raw := "1 0 obj\nThe quarterly report shows strong growth in every region. Short one. Another sentence with plenty of words inside\nendobj"
	want := "The quarterly report shows strong growth in every region.  Another sentence with plenty of words inside"

	got, strategy := New(nil).ExtractPDF(context.Background(), []byte(raw))
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
	if strategy != StrategyCleanup {
		t.Errorf("strategy = %s, want %s", strategy, StrategyCleanup)
	}
}

func TestReadableText_StripsStructure(t *testing.T) {
	raw := "/Font 5 0 R stream\nx\x9c\xff\xfe binary\nendstream 0 0 612 792 0 0 cm 1.0 2.0 3.0 4.0 Quarterly revenue grew across all four regions this year."
	got := ReadableText(raw)
	want := "cm Quarterly revenue grew across all four regions this year"
	if got != want {
		t.Errorf("ReadableText = %q, want %q", got, want)
	}
}

func TestExtractPDF_Placeholder(t *testing.T) {
	inputs := [][]byte{
		[]byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF"),
		{0x00, 0x01, 0x02, 0xff},
		[]byte("not a pdf"),
	}
	extractors := map[string]*Extractor{
		"no library":   New(nil),
		"real library": New(NewPDFLibrary(time.Second)),
	}
	for name, e := range extractors {
		for _, in := range inputs {
			got, strategy := e.ExtractPDF(context.Background(), in)
			if got != Placeholder {
				t.Errorf("%s: ExtractPDF(%q) = %q, want placeholder", name, in, got)
			}
			if strategy != StrategyPlaceholder {
				t.Errorf("%s: strategy = %s", name, strategy)
			}
		}
	}
}

func TestExtractPDF_LibraryStrategy(t *testing.T) {
	tests := []struct {
		name             string
		onReadPages      func(ctx context.Context, data []byte) ([][]string, error)
		expectedText     string
		expectedStrategy string
	}{
		{
			name: "Library_Success",
			onReadPages: func(ctx context.Context, data []byte) ([][]string, error) {
				return [][]string{{"Hello", "world "}, {}, {"Page", "two"}}, nil
			},
			expectedText:     "Hello world\nPage two",
			expectedStrategy: StrategyLibrary,
		},
		{
			name: "Library_Error_FallsThrough",
			onReadPages: func(ctx context.Context, data []byte) ([][]string, error) {
				return nil, errors.New("broken xref")
			},
			expectedText:     "Hello World",
			expectedStrategy: StrategyMarkerScan,
		},
		{
			name: "Library_Panic_FallsThrough",
			onReadPages: func(ctx context.Context, data []byte) ([][]string, error) {
				panic("index out of range")
			},
			expectedText:     "Hello World",
			expectedStrategy: StrategyMarkerScan,
		},
		{
			name: "Library_Empty_FallsThrough",
			onReadPages: func(ctx context.Context, data []byte) ([][]string, error) {
				return [][]string{{" "}, {}}, nil
			},
			expectedText:     "Hello World",
			expectedStrategy: StrategyMarkerScan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(&mockPageReader{OnReadPages: tt.onReadPages})
			got, strategy := e.ExtractPDF(context.Background(), []byte("BT (Hello) (World) ET"))
			if got != tt.expectedText {
				t.Errorf("text = %q, want %q", got, tt.expectedText)
			}
			if strategy != tt.expectedStrategy {
				t.Errorf("strategy = %s, want %s", strategy, tt.expectedStrategy)
			}
		})
	}
}

func TestTextRuns(t *testing.T) {
	runs := textRuns("  first line \n\n second\n")
	if len(runs) != 2 || runs[0] != "first line" || runs[1] != "second" {
		t.Errorf("textRuns = %q", runs)
	}
}
