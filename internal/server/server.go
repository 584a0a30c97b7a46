// Package server wires the handlers into one router.
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"MetalCal/internal/calc/tools"
	"MetalCal/internal/catalog"
	"MetalCal/internal/live"
	"MetalCal/internal/middleware"
	"MetalCal/internal/share"
	"MetalCal/internal/web"
)

type Options struct {
	Addr        string
	Rate        float64
	Burst       int
	AllowOrigin string
	BaseURL     string
}

type Deps struct {
	Catalog *catalog.Catalog
	Signer  *share.Signer
	Live    *live.Server
	Log     logrus.FieldLogger
}

func HandleList(r *mux.Router, opts Options, d Deps) {
	toolsH := &tools.Handler{Catalog: d.Catalog, Signer: d.Signer, BaseURL: opts.BaseURL, Log: d.Log}
	webH := &web.Handler{Catalog: d.Catalog, Signer: d.Signer, Log: d.Log}

	limiter := middleware.NewIPRateLimiter(rate.Limit(opts.Rate), opts.Burst)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	// A subrouter that misses on method alone would otherwise answer 404.
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	api.HandleFunc("/formulas", toolsH.List).Methods("GET")
	api.HandleFunc("/formulas/{id}", toolsH.Formula).Methods("GET")
	api.HandleFunc("/tools/{id}/calc", toolsH.Calc).Methods("POST")
	api.HandleFunc("/tools/{id}/preview", toolsH.Preview).Methods("GET")
	api.HandleFunc("/tools/{id}/preview.png", toolsH.PreviewPNG).Methods("GET")
	api.HandleFunc("/tools/{id}/report/pdf", toolsH.Report).Methods("POST")
	api.HandleFunc("/tools/{id}/export/xlsx", toolsH.Export).Methods("POST")
	api.HandleFunc("/tools/{id}/import", toolsH.Import).Methods("POST")
	api.HandleFunc("/tools/{id}/share", toolsH.Share).Methods("POST")
	api.HandleFunc("/share/{token}", toolsH.Shared).Methods("GET")

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods("GET")
	r.HandleFunc("/ws", d.Live.ServeWs).Methods("GET")
	r.HandleFunc("/share/{token}", webH.Shared).Methods("GET")
	r.HandleFunc("/tools/{id}", webH.Tool).Methods("GET")
	r.HandleFunc("/", webH.Index).Methods("GET")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

func New(opts Options, d Deps) *http.Server {
	r := mux.NewRouter()
	HandleList(r, opts, d)
	return &http.Server{
		Addr:              opts.Addr,
		Handler:           middleware.Logging(d.Log, middleware.CORS(opts.AllowOrigin, r)),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
