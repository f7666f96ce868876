package export

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"

	dialog "github.com/Batoli19/cavista/internal/model/dialog"
)

// PptxWriter emits a minimal PresentationML package with a title slide and
// one content slide per group of key points.
type PptxWriter struct{}

const pptxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>
</Relationships>`

func (PptxWriter) Write(path string, research *dialog.Research) error {
	slides := buildSlides(research)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)
	write := func(name, content string) error {
		entry, err := w.Create(name)
		if err != nil {
			return err
		}
		_, err = entry.Write([]byte(content))
		return err
	}

	if err := write("[Content_Types].xml", pptxContentTypes(len(slides))); err != nil {
		return err
	}
	if err := write("_rels/.rels", pptxRels); err != nil {
		return err
	}
	if err := write("ppt/presentation.xml", presentationXML(len(slides))); err != nil {
		return err
	}
	if err := write("ppt/_rels/presentation.xml.rels", presentationRels(len(slides))); err != nil {
		return err
	}
	for i, slide := range slides {
		if err := write(fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slide); err != nil {
			return err
		}
	}
	return w.Close()
}

type slideContent struct {
	title   string
	bullets []string
}

func buildSlides(research *dialog.Research) []string {
	contents := []slideContent{{
		title:   firstNonEmptyString(research.Topic, "Research"),
		bullets: splitLines(research.Summary, 3),
	}}

	// Three key points per content slide.
	for i := 0; i < len(research.KeyPoints); i += 3 {
		end := i + 3
		if end > len(research.KeyPoints) {
			end = len(research.KeyPoints)
		}
		contents = append(contents, slideContent{
			title:   "Key Findings",
			bullets: research.KeyPoints[i:end],
		})
	}

	if len(research.Sources) > 0 {
		var lines []string
		for _, src := range research.Sources {
			lines = append(lines, src.Title+" - "+src.Domain)
		}
		contents = append(contents, slideContent{title: "Sources", bullets: lines})
	}

	slides := make([]string, 0, len(contents))
	for _, c := range contents {
		slides = append(slides, slideXML(c))
	}
	return slides
}

func slideXML(c slideContent) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)

	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/>`)
	fmt.Fprintf(&b, `<a:p><a:r><a:rPr lang="en-US" b="1"/><a:t>%s</a:t></a:r></a:p>`, escapeXML(c.title))
	b.WriteString(`</p:txBody></p:sp>`)

	if len(c.bullets) > 0 {
		b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Content"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/>`)
		for _, line := range c.bullets {
			fmt.Fprintf(&b, `<a:p><a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r></a:p>`, escapeXML(line))
		}
		b.WriteString(`</p:txBody></p:sp>`)
	}

	b.WriteString(`</p:spTree></p:cSld></p:sld>`)
	return b.String()
}

func pptxContentTypes(slideCount int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func presentationXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<p:presentation xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:sldIdLst>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i)
	}
	b.WriteString(`</p:sldIdLst><p:sldSz cx="12192000" cy="6858000"/></p:presentation>`)
	return b.String()
}

func presentationRels(slideCount int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i, i)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func splitLines(text string, max int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			line := strings.TrimSpace(text[start : i+1])
			if line != "" {
				lines = append(lines, line)
			}
			start = i + 1
			if len(lines) == max {
				return lines
			}
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" && len(lines) < max {
		lines = append(lines, rest)
	}
	return lines
}
