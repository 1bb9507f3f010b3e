package handlerx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/gorilla/mux"
)

// NewRouter serves the same routes as NewFiberApp over net/http
func NewRouter(svc *Service) *mux.Router {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if err := svc.Authorize(req.Header.Get("Authorization"), req.Method); err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	r.HandleFunc("/schemas", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"schemas": svc.Schemas()})
	}).Methods(http.MethodGet)

	r.HandleFunc("/schemas/{name}", func(w http.ResponseWriter, req *http.Request) {
		info, err := svc.Describe(mux.Vars(req)["name"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}).Methods(http.MethodGet)

	r.HandleFunc("/schemas/{name}/validate", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, int64(svc.bodyLimit)))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, ErrorRegistry.New(ErrBodyTooLarge).WithDetail("limit", tooLarge.Limit))
				return
			}
			writeError(w, ErrorRegistry.NewWithCause(ErrInvalidBody, err))
			return
		}
		out, err := svc.ValidateBody(req.Context(), mux.Vars(req)["name"], req.Header.Get("Content-Type"), body)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": out})
	}).Methods(http.MethodPost)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, ErrorRegistry.New(ErrMethodNotAllowed).WithDetail("method", req.Method))
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var xerr *errx.Error
	if !errors.As(err, &xerr) {
		xerr = errx.Wrap(err, err.Error(), errx.TypeInternal)
	}
	xerr.ToHTTP(w)
}
