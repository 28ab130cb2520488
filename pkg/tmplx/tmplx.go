// Package tmplx wraps html/template with the helpers the pages use and an
// optional check that runs once when a template is parsed.
package tmplx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var (
	ErrRenderTemplate = errors.New("tmplx: render error")
	ErrParseTemplate  = errors.New("tmplx: parse error")
)

type Template struct {
	tmpl *template.Template
}

type CheckFunc func(out []byte) error

type options struct {
	funcs  template.FuncMap
	sample any
	check  CheckFunc
}

type Option func(*options)

func WithFunc(name string, fn any) Option {
	return func(o *options) {
		o.funcs[name] = fn
	}
}

// WithCheck renders sample at parse time and hands the output to check, so
// a template that breaks on real data fails at startup.
func WithCheck(sample any, check CheckFunc) Option {
	return func(o *options) {
		o.sample = sample
		o.check = check
	}
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"fixed1":     Fixed1,
		"orDefault":  orDefault,
		"statusText": http.StatusText,
	}
}

// ParseFS parses the file name found in fsys.
func ParseFS(fsys fs.FS, name string, opts ...Option) (*Template, error) {
	text, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrParseTemplate, name, err)
	}
	return Parse(name, string(text), opts...)
}

func Parse(name, text string, opts ...Option) (*Template, error) {
	o := &options{funcs: funcs()}
	for _, opt := range opts {
		opt(o)
	}

	tmpl, err := template.New(name).
		Option("missingkey=zero").
		Funcs(o.funcs).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseTemplate, err)
	}

	t := &Template{tmpl: tmpl}
	if o.check != nil {
		buf := new(bytes.Buffer)
		if err := t.Execute(buf, o.sample); err != nil {
			return nil, err
		}
		if err := o.check(buf.Bytes()); err != nil {
			return nil, fmt.Errorf("%w: check %s: %w", ErrParseTemplate, name, err)
		}
	}
	return t, nil
}

func MustParse(name, text string, opts ...Option) *Template {
	t, err := Parse(name, text, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Execute renders into a buffer first so w never sees a half written page.
func (t *Template) Execute(w io.Writer, data any) error {
	buf := new(bytes.Buffer)
	if err := t.tmpl.Execute(buf, data); err != nil {
		return fmt.Errorf("%w: %w", ErrRenderTemplate, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Fixed1 formats a number with exactly one decimal, rounding halves away
// from zero (4.25 gives "4.3"). Non-numbers give "0.0".
func Fixed1(value any) string {
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return "0.0"
	}
	return decimal.NewFromFloat(f).StringFixed(1)
}

func orDefault(def, value any) any {
	if value == nil || value == "" {
		return def
	}
	return value
}
