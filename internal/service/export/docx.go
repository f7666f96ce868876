package export

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	dialog "github.com/Batoli19/cavista/internal/model/dialog"
)

// DocxWriter emits a minimal WordprocessingML package: content types,
// package relationships, and a single document part.
type DocxWriter struct{}

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

func (DocxWriter) Write(path string, research *dialog.Research) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)
	parts := map[string]string{
		"[Content_Types].xml": docxContentTypes,
		"_rels/.rels":         docxRels,
		"word/document.xml":   buildDocumentXML(research),
	}
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		entry, err := w.Create(name)
		if err != nil {
			return err
		}
		if _, err := entry.Write([]byte(parts[name])); err != nil {
			return err
		}
	}
	return w.Close()
}

func buildDocumentXML(research *dialog.Research) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	writeParagraph(&b, firstNonEmptyString(research.Topic, "Research Report"), true)
	if research.Summary != "" {
		writeParagraph(&b, research.Summary, false)
	}

	if len(research.KeyPoints) > 0 {
		writeParagraph(&b, "Key Points", true)
		for _, point := range research.KeyPoints {
			writeParagraph(&b, "- "+point, false)
		}
	}

	if len(research.Sources) > 0 {
		writeParagraph(&b, "Sources", true)
		for _, src := range research.Sources {
			line := src.Title
			if src.URL != "" {
				line += " (" + src.URL + ")"
			}
			writeParagraph(&b, line, false)
		}
	}

	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeParagraph(b *strings.Builder, text string, bold bool) {
	b.WriteString("<w:p><w:r>")
	if bold {
		b.WriteString("<w:rPr><w:b/></w:rPr>")
	}
	fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, escapeXML(text))
	b.WriteString("</w:r></w:p>")
}

func escapeXML(s string) string {
	var buf strings.Builder
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func firstNonEmptyString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
