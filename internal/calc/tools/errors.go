package tools

import (
	"errors"
	"net/http"

	"MetalCal/internal/catalog"
	"MetalCal/internal/chart"
	"MetalCal/internal/field"
	"MetalCal/internal/share"
)

var (
	errBadPayload = errors.New("invalid request payload")
	errBadUpload  = errors.New("invalid file")
)

// fail maps an error to its status. Only server faults are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnknownFormula):
		http.Error(w, "Unknown formula", http.StatusNotFound)
	case errors.Is(err, errNoPreview):
		http.Error(w, "No preview for this formula", http.StatusNotFound)
	case errors.Is(err, share.ErrInvalidToken):
		http.Error(w, "Invalid or expired share token", http.StatusUnauthorized)
	case errors.Is(err, errBadPayload),
		errors.Is(err, errBadUpload),
		errors.Is(err, field.ErrMissing),
		errors.Is(err, field.ErrNotNumber):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, chart.ErrNoData):
		http.Error(w, "Nothing to plot for these inputs", http.StatusUnprocessableEntity)
	default:
		h.Log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
