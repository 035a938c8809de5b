package controller

import (
	"net/http"
	"net/http/pprof"

	"github.com/go-chi/chi/v5"
)

// Pprof returns a router exposing the net/http/pprof handlers under /pprof/.
// pprof.Index resolves named profiles from the full request path, so the
// router must be mounted at /debug.
func Pprof() http.Handler {
	r := chi.NewRouter()

	r.HandleFunc("/pprof/", pprof.Index)
	r.HandleFunc("/pprof/cmdline", pprof.Cmdline)
	r.HandleFunc("/pprof/profile", pprof.Profile)
	r.HandleFunc("/pprof/symbol", pprof.Symbol)
	r.HandleFunc("/pprof/trace", pprof.Trace)
	r.HandleFunc("/pprof/{profile}", pprof.Index)

	return r
}
