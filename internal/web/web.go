// Package web renders the HTML calculator pages.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"MetalCal/internal/catalog"
	"MetalCal/internal/field"
	"MetalCal/internal/share"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Handler struct {
	Catalog *catalog.Catalog
	Signer  *share.Signer
	Log     logrus.FieldLogger
}

type indexPage struct {
	PageTitle string
	Formulas  []*catalog.Formula
}

type formField struct {
	Spec  field.Spec
	Value string
}

type toolPage struct {
	PageTitle  string
	Formula    *catalog.Formula
	Fields     []formField
	Outputs    []catalog.Value
	Example    []string
	PreviewURL template.URL
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index.html", indexPage{
		PageTitle: "Calculators",
		Formulas:  h.Catalog.All(),
	})
}

// Tool renders the form of one formula. With calc set in the query it also
// evaluates; fields that are blank or not numbers keep their default.
func (h *Handler) Tool(w http.ResponseWriter, r *http.Request) {
	f, err := h.Catalog.Lookup(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Unknown formula", http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	values := make(map[string]float64, len(f.Fields))
	page := toolPage{PageTitle: f.Title, Formula: f}
	for _, s := range f.Fields {
		v := s.Default
		if n, err := field.Parse(q.Get(s.Name)); err == nil && n.Valid {
			v = n.Value
		}
		values[s.Name] = v
		page.Fields = append(page.Fields, formField{Spec: s, Value: field.FormatInput(v)})
	}

	if q.Get("calc") != "" {
		res := f.Evaluate(values)
		page.Outputs = res.Outputs
		page.Example = res.Example
	} else {
		for _, o := range f.Outputs {
			page.Outputs = append(page.Outputs, catalog.Value{
				Name:  o.Name,
				Label: o.Label,
				Unit:  o.Unit,
				Text:  field.Placeholder,
			})
		}
	}
	if f.Preview != nil {
		page.PreviewURL = template.URL("/api/tools/" + f.ID + "/preview.png?" + Query(values).Encode())
	}
	h.render(w, "tool.html", page)
}

// Shared opens the calculation carried by a share link.
func (h *Handler) Shared(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Signer.Parse(mux.Vars(r)["token"])
	if err != nil {
		http.Error(w, "Invalid or expired link", http.StatusUnauthorized)
		return
	}
	f, err := h.Catalog.Lookup(claims.Formula)
	if err != nil {
		http.Error(w, "Unknown formula", http.StatusNotFound)
		return
	}
	q := Query(claims.Inputs)
	q.Set("calc", "1")
	http.Redirect(w, r, "/tools/"+f.ID+"?"+q.Encode(), http.StatusSeeOther)
}

// Query encodes input values the way the form submits them.
func Query(values map[string]float64) url.Values {
	q := make(url.Values, len(values))
	for k, v := range values {
		q.Set(k, field.FormatInput(v))
	}
	return q
}

func (h *Handler) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.Log.WithError(err).WithField("template", name).Error("render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
