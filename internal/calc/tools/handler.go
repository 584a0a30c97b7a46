// Package tools serves the JSON API of the calculators.
package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"MetalCal/internal/calc/report"
	"MetalCal/internal/calc/sheet"
	"MetalCal/internal/catalog"
	"MetalCal/internal/chart"
	"MetalCal/internal/field"
	"MetalCal/internal/share"
)

const maxUpload = 1 << 20

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errNoPreview = errors.New("no preview for this formula")

type Handler struct {
	Catalog *catalog.Catalog
	Signer  *share.Signer
	// BaseURL prefixes share links; the request host is used when empty.
	BaseURL string
	Log     logrus.FieldLogger
}

// Request is the body of every POST endpoint. The report fields are only
// read by Report.
type Request struct {
	report.Input
	Inputs map[string]json.RawMessage `json:"inputs"`
}

type PreviewResponse struct {
	Formula string          `json:"formula"`
	Title   string          `json:"title"`
	XLabel  string          `json:"x_label"`
	YLabel  string          `json:"y_label"`
	Points  []catalog.Point `json:"points"`
}

type ShareResponse struct {
	Token     string     `json:"token"`
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Catalog.All())
}

func (h *Handler) Formula(w http.ResponseWriter, r *http.Request) {
	f, err := h.formula(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, f)
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	f, v, err := h.decode(r, nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, f.Evaluate(v))
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	f, pts, err := h.preview(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, PreviewResponse{
		Formula: f.ID,
		Title:   f.Preview.Title,
		XLabel:  f.Preview.XLabel,
		YLabel:  f.Preview.YLabel,
		Points:  pts,
	})
}

func (h *Handler) PreviewPNG(w http.ResponseWriter, r *http.Request) {
	f, pts, err := h.preview(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := chart.WritePNG(&buf, f.Preview, pts); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	buf.WriteTo(w)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	var req Request
	f, v, err := h.decode(r, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, req.Input, f, f.Evaluate(v), time.Now()); err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, "application/pdf", f.ID+"-report.pdf")
	buf.WriteTo(w)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	f, v, err := h.decode(r, nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	pts, _ := f.PreviewCurve(v)
	var buf bytes.Buffer
	if err := sheet.Export(&buf, f, f.Evaluate(v), pts); err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, xlsxType, f.ID+".xlsx")
	buf.WriteTo(w)
}

// Import evaluates the name/value rows of an uploaded workbook.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	f, err := h.formula(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	in, err := sheet.Import(file, f)
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: %v", errBadUpload, err))
		return
	}
	v, err := f.Resolve(in, false)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, f.Evaluate(v))
}

func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	f, v, err := h.decode(r, nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	token, err := h.Signer.Sign(f.ID, v)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := ShareResponse{Token: token, URL: h.baseURL(r) + "/share/" + token}
	if claims, err := h.Signer.Parse(token); err == nil && claims.ExpiresAt != nil {
		resp.ExpiresAt = &claims.ExpiresAt.Time
	}
	writeJSON(w, resp)
}

// Shared evaluates the inputs carried by a share token.
func (h *Handler) Shared(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Signer.Parse(mux.Vars(r)["token"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	f, err := h.Catalog.Lookup(claims.Formula)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in := make(map[string]field.Number, len(claims.Inputs))
	for k, x := range claims.Inputs {
		in[k] = field.Some(x)
	}
	v, err := f.Resolve(in, false)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, f.Evaluate(v))
}

func (h *Handler) formula(r *http.Request) (*catalog.Formula, error) {
	return h.Catalog.Lookup(mux.Vars(r)["id"])
}

// decode reads a JSON body into dst, which may be nil, and resolves its
// inputs. Every field is required.
func (h *Handler) decode(r *http.Request, dst *Request) (*catalog.Formula, map[string]float64, error) {
	f, err := h.formula(r)
	if err != nil {
		return nil, nil, err
	}
	if dst == nil {
		dst = &Request{}
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errBadPayload, err)
	}
	in, err := parseInputs(f, dst.Inputs)
	if err != nil {
		return nil, nil, err
	}
	v, err := f.Resolve(in, false)
	if err != nil {
		return nil, nil, err
	}
	return f, v, nil
}

func parseInputs(f *catalog.Formula, raw map[string]json.RawMessage) (map[string]field.Number, error) {
	out := make(map[string]field.Number, len(f.Fields))
	for _, s := range f.Fields {
		b, ok := raw[s.Name]
		if !ok {
			continue
		}
		var n field.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, field.ErrNotNumber)
		}
		out[s.Name] = n
	}
	return out, nil
}

// preview resolves query values, falling back to defaults, and samples the
// preview curve.
func (h *Handler) preview(r *http.Request) (*catalog.Formula, []catalog.Point, error) {
	f, err := h.formula(r)
	if err != nil {
		return nil, nil, err
	}
	if f.Preview == nil {
		return nil, nil, errNoPreview
	}
	q := r.URL.Query()
	in, err := field.ParseValues(f.Fields, q.Get)
	if err != nil {
		return nil, nil, err
	}
	v, err := f.Resolve(in, true)
	if err != nil {
		return nil, nil, err
	}
	pts, _ := f.PreviewCurve(v)
	return f, pts, nil
}

func (h *Handler) baseURL(r *http.Request) string {
	if h.BaseURL != "" {
		return strings.TrimRight(h.BaseURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func attachment(w http.ResponseWriter, contentType, name string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
}
