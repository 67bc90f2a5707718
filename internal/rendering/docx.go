package rendering

import (
	"archive/zip"
	"bytes"
	"strings"
	"text/template"

	"github.com/jonathan/course-planner/internal/types"
)

// The minimal fixed parts of an OOXML package. Only word/document.xml is
// generated per plan.
const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

var docxFuncs = template.FuncMap{
	"join":  strings.Join,
	"hours": formatHours,
	"xml":   EscapeXML,
}

// RenderDOCX produces a binary word-processor document for the plan.
func RenderDOCX(plan *types.TrainingPlan) ([]byte, error) {
	if plan == nil {
		return nil, &RenderError{Message: "plan is nil"}
	}

	tmpl, err := template.New("document.xml.tmpl").Funcs(docxFuncs).ParseFS(templateFiles, "templates/document.xml.tmpl")
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse document template", Cause: err}
	}

	var document bytes.Buffer
	if err := tmpl.Execute(&document, plan); err != nil {
		return nil, &TemplateError{Message: "failed to execute document template", Cause: err}
	}

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)
	parts := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(relsXML)},
		{"word/document.xml", document.Bytes()},
	}
	for _, part := range parts {
		w, err := archive.Create(part.name)
		if err != nil {
			return nil, &RenderError{Message: "failed to create archive entry " + part.name, Cause: err}
		}
		if _, err := w.Write(part.content); err != nil {
			return nil, &RenderError{Message: "failed to write archive entry " + part.name, Cause: err}
		}
	}
	if err := archive.Close(); err != nil {
		return nil, &RenderError{Message: "failed to finalize archive", Cause: err}
	}
	return buf.Bytes(), nil
}
