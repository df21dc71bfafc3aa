package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Recover two plaintexts from two ciphertexts
	// (POST /decode)
	Decode(w http.ResponseWriter, r *http.Request)
	// List stored runs
	// (GET /runs)
	ListRuns(w http.ResponseWriter, r *http.Request, params ListRunsParams)
	// Get a stored run
	// (GET /runs/{runId})
	GetRun(w http.ResponseWriter, r *http.Request, runId uuid.UUID)
}

// serverInterfaceWrapper binds request parameters before calling the handler.
type serverInterfaceWrapper struct {
	Handler ServerInterface
}

func (siw *serverInterfaceWrapper) Decode(w http.ResponseWriter, r *http.Request) {
	siw.Handler.Decode(w, r)
}

func (siw *serverInterfaceWrapper) ListRuns(w http.ResponseWriter, r *http.Request) {
	var params ListRunsParams

	err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
		return
	}

	siw.Handler.ListRuns(w, r, params)
}

func (siw *serverInterfaceWrapper) GetRun(w http.ResponseWriter, r *http.Request) {
	var runId uuid.UUID

	err := runtime.BindStyledParameterWithOptions("simple", "runId", chi.URLParam(r, "runId"), &runId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter runId: %s", err))
		return
	}

	siw.Handler.GetRun(w, r, runId)
}

// HandlerFromMux registers the API routes on r and returns it.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	wrapper := &serverInterfaceWrapper{Handler: si}

	r.Post("/decode", wrapper.Decode)
	r.Get("/runs", wrapper.ListRuns)
	r.Get("/runs/{runId}", wrapper.GetRun)

	return r
}
