package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	apperrors "inspection-system/pkg/errors"
)

//go:embed templates/report.html
var templatesFS embed.FS

// Printer turns a standalone HTML page into PDF bytes.
type Printer interface {
	PrintPDF(ctx context.Context, html []byte) ([]byte, error)
}

type Renderer struct {
	tmpl    *template.Template
	printer Printer
}

func NewRenderer(printer Printer) (*Renderer, error) {
	tmpl, err := template.New("report.html").Funcs(template.FuncMap{
		"last": func(i int, pages []Page) bool { return i == len(pages)-1 },
	}).ParseFS(templatesFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar o template do relatório: %w", err)
	}
	return &Renderer{tmpl: tmpl, printer: printer}, nil
}

// HTML executes the report template for doc.
func (r *Renderer) HTML(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

// Render produces the PDF for doc. Every failure wraps ErrRenderFailed.
func (r *Renderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	html, err := r.HTML(doc)
	if err != nil {
		return nil, err
	}
	pdf, err := r.printer.PrintPDF(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRenderFailed, err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: documento vazio", apperrors.ErrRenderFailed)
	}
	return pdf, nil
}
