package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestExtractPlain(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("حدثنا وكيع عن سفيان"), ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "حدثنا وكيع عن سفيان" {
		t.Errorf("got %q", got)
	}
}

func TestExtractPlain_InvalidUTF8(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte{'o', 'k', 0xff, 0xfe}, ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if got == "" || got[:2] != "ok" {
		t.Errorf("got %q", got)
	}
}

func TestExtractUnknownExtensionFallsBackToPlain(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("some text"), ".log")
	if err != nil {
		t.Fatal(err)
	}
	if got != "some text" {
		t.Errorf("got %q", got)
	}
}

func makeDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractDOCX(t *testing.T) {
	docXML := `<?xml version="1.0"?><w:document><w:body>` +
		`<w:p w:rsidR="00A1"><w:r><w:t>حدثنا وكيع</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">عن سفيان</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	e := NewExtractor()
	got, err := e.ExtractBytes(makeDocx(t, docXML), ".docx")
	if err != nil {
		t.Fatal(err)
	}
	if got != "حدثنا وكيع عن سفيان" {
		t.Errorf("got %q", got)
	}
}

func TestExtractDOCX_NotAZip(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("not a zip"), ".docx"); err == nil {
		t.Error("expected error for invalid docx")
	}
}

func TestExtractFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hadith.txt")
	if err := os.WriteFile(path, []byte("نص للاختبار"), 0o644); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	got, err := e.Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "نص للاختبار" {
		t.Errorf("got %q", got)
	}
}

func TestSplitTexts(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  \n\n  \n", nil},
		{"single block", "حدثنا وكيع", []string{"حدثنا وكيع"}},
		{
			"blank line separated",
			"النص الاول\n\nالنص الثاني\n\n\nالنص الثالث",
			[]string{"النص الاول", "النص الثاني", "النص الثالث"},
		},
		{
			"internal newlines kept",
			"سطر اول\nسطر ثان\n\nنص اخر",
			[]string{"سطر اول\nسطر ثان", "نص اخر"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTexts(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
