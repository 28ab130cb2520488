package view

import (
	"bytes"
	"embed"
	"errors"
	"io"

	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"github.com/nguyentranbao-ct/price-compare/pkg/tmplx"
)

//go:embed templates/*.html.tmpl
var templates embed.FS

// Renderer turns snapshots into full HTML documents.
type Renderer interface {
	Render(w io.Writer, page Page) error
	RenderError(w io.Writer, code int, message string) error
}

type renderer struct {
	page  *tmplx.Template
	error *tmplx.Template
}

func NewRenderer() (Renderer, error) {
	page, err := parse("page.html.tmpl", NewPage(models.Snapshot{}, ""))
	if err != nil {
		return nil, err
	}
	errPage, err := parse("error.html.tmpl", errorPage{Code: 500, Message: "x"})
	if err != nil {
		return nil, err
	}
	return &renderer{page: page, error: errPage}, nil
}

func parse(name string, sample any) (*tmplx.Template, error) {
	return tmplx.ParseFS(templates, "templates/"+name, tmplx.WithCheck(sample, notEmpty))
}

func notEmpty(out []byte) error {
	if len(bytes.TrimSpace(out)) == 0 {
		return errors.New("rendered nothing")
	}
	return nil
}

func (r *renderer) Render(w io.Writer, page Page) error {
	return r.page.Execute(w, page)
}

type errorPage struct {
	Code    int
	Message string
}

func (r *renderer) RenderError(w io.Writer, code int, message string) error {
	return r.error.Execute(w, errorPage{Code: code, Message: message})
}
