package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
)

// DOCXExporter renders datasets into a minimal WordprocessingML document: a
// heading paragraph followed by one table. A .docx file is a zip archive of
// XML parts, which is written out directly here.
type DOCXExporter struct{}

// NewDOCXExporter builds a DOCX exporter.
func NewDOCXExporter() *DOCXExporter {
	return &DOCXExporter{}
}

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

// Render produces DOCX bytes for the dataset.
func (e *DOCXExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("docx requires at least one header")
	}

	body := &bytes.Buffer{}
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	if title != "" {
		body.WriteString(`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">`)
		writeEscaped(body, title)
		body.WriteString(`</w:t></w:r></w:p>`)
	}

	body.WriteString(`<w:tbl><w:tblPr><w:tblBorders>` +
		`<w:top w:val="single" w:sz="4"/><w:left w:val="single" w:sz="4"/>` +
		`<w:bottom w:val="single" w:sz="4"/><w:right w:val="single" w:sz="4"/>` +
		`<w:insideH w:val="single" w:sz="4"/><w:insideV w:val="single" w:sz="4"/>` +
		`</w:tblBorders></w:tblPr>`)

	body.WriteString(`<w:tr>`)
	for _, header := range data.Headers {
		writeCell(body, header, true)
	}
	body.WriteString(`</w:tr>`)

	for _, row := range data.Rows {
		body.WriteString(`<w:tr>`)
		for _, header := range data.Headers {
			writeCell(body, row[header], false)
		}
		body.WriteString(`</w:tr>`)
	}

	body.WriteString(`</w:tbl><w:sectPr/></w:body></w:document>`)

	buf := &bytes.Buffer{}
	archive := zip.NewWriter(buf)
	parts := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxRels)},
		{"word/document.xml", body.Bytes()},
	}
	for _, part := range parts {
		w, err := archive.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("create docx part %s: %w", part.name, err)
		}
		if _, err := w.Write(part.content); err != nil {
			return nil, fmt.Errorf("write docx part %s: %w", part.name, err)
		}
	}
	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("finalize docx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeCell(buf *bytes.Buffer, text string, bold bool) {
	buf.WriteString(`<w:tc><w:p><w:r>`)
	if bold {
		buf.WriteString(`<w:rPr><w:b/></w:rPr>`)
	}
	buf.WriteString(`<w:t xml:space="preserve">`)
	writeEscaped(buf, text)
	buf.WriteString(`</w:t></w:r></w:p></w:tc>`)
}

func writeEscaped(buf *bytes.Buffer, text string) {
	_ = xml.EscapeText(buf, []byte(text))
}
