package api

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"two-time-pad/internal/decode"
	"two-time-pad/internal/logger"
	"two-time-pad/internal/store"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200

	// DefaultMaxBodyBytes bounds a /decode request body.
	DefaultMaxBodyBytes = 1 << 20
)

// Options configures a Server.
type Options struct {
	BeamWidth int           // used when a request does not set one
	Workers   int           // decoder expansion goroutines
	Timeout   time.Duration // per request decode budget, 0 for none
	CacheTTL  time.Duration // 0 disables the result cache
	MaxBody   int64         // request body limit in bytes, DefaultMaxBodyBytes when unset
}

// Server implements ServerInterface on top of a shared bigram model and dictionary.
type Server struct {
	model    *decode.BigramModel
	dict     *decode.Dictionary
	db       *sql.DB // nil disables run history
	opts     Options
	cache    *cache.Cache
	validate *validator.Validate
	log      logger.ILogger
}

var _ ServerInterface = (*Server)(nil)

// NewServer returns a server. The model and dictionary are only read.
func NewServer(model *decode.BigramModel, dict *decode.Dictionary, db *sql.DB, opts Options, log logger.ILogger) *Server {
	if opts.BeamWidth < 1 {
		opts.BeamWidth = decode.DefaultBeamWidth
	}
	if opts.MaxBody < 1 {
		opts.MaxBody = DefaultMaxBodyBytes
	}
	if log == nil {
		log = logger.NewNop()
	}

	s := &Server{
		model:    model,
		dict:     dict,
		db:       db,
		opts:     opts,
		validate: validator.New(),
		log:      log,
	}
	if opts.CacheTTL > 0 {
		s.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}

	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps decode errors to HTTP status codes.
func statusFor(err error) int {
	switch decode.Classify(err) {
	case decode.CodeLength:
		return http.StatusUnprocessableEntity
	case decode.CodeOptions:
		return http.StatusBadRequest
	case decode.CodeCancel:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func cacheKey(c1, c2 []byte, width int, truncate bool) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%t|%d|", width, truncate, len(c1))
	h.Write(c1)
	h.Write(c2)
	return hex.EncodeToString(h.Sum(nil))
}

// Decode handles POST /decode.
func (s *Server) Decode(w http.ResponseWriter, r *http.Request) {
	var req DecodeReq
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid field %s: failed %s", verrs[0].Field(), verrs[0].Tag()))
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c1, err1 := hex.DecodeString(req.Ciphertext1)
	c2, err2 := hex.DecodeString(req.Ciphertext2)
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "Ciphertexts must be even-length hex strings")
		return
	}

	width := s.opts.BeamWidth
	if req.BeamWidth != nil {
		width = *req.BeamWidth
	}

	var xor []byte
	if req.Truncate {
		xor = decode.XORStreamTruncate(c1, c2)
	} else {
		var err error
		xor, err = decode.XORStream(c1, c2)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
	}

	key := cacheKey(c1, c2, width, req.Truncate)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			run := cached.(Run)
			run.Cached = true
			writeJSON(w, http.StatusOK, run)
			return
		}
	}

	opts := decode.DefaultOptions()
	opts.BeamWidth = width
	opts.Workers = s.opts.Workers
	dec, err := decode.NewDecoder(s.model, s.dict, opts)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	ctx := r.Context()
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := dec.Decode(ctx, xor)
	if err != nil {
		s.log.Warn("api", "decode stopped", map[string]interface{}{
			"error":     err,
			"positions": res.Positions,
			"length":    len(xor),
		})
		writeError(w, statusFor(err), "Decode did not finish within the time budget")
		return
	}

	stored := store.Run{
		BeamWidth:  width,
		XOR:        xor,
		Plaintext1: res.Plaintext1,
		Plaintext2: res.Plaintext2,
		Score:      res.Score,
		Positions:  res.Positions,
		Complete:   res.Complete,
	}

	run := Run{
		BeamWidth:  width,
		Plaintext1: res.Plaintext1,
		Plaintext2: res.Plaintext2,
		Score:      res.Score,
		Positions:  res.Positions,
		Complete:   res.Complete,
	}

	if s.db != nil {
		if err := store.SaveRun(s.db, &stored); err != nil {
			s.log.Error("api", "failed to save run", map[string]interface{}{"error": err})
			writeError(w, http.StatusInternalServerError, "Failed to save run")
			return
		}
		run = runFromStore(stored)
	}

	s.log.Info("api", "decode finished", map[string]interface{}{
		"length":     len(xor),
		"beam_width": width,
		"score":      res.Score,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if s.cache != nil {
		s.cache.SetDefault(key, run)
	}

	writeJSON(w, http.StatusOK, run)
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request, params ListRunsParams) {
	if s.db == nil {
		writeError(w, http.StatusNotFound, "Run history is disabled")
		return
	}

	limit := defaultListLimit
	if params.Limit != nil {
		limit = *params.Limit
	}
	if limit < 1 || limit > maxListLimit {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxListLimit))
		return
	}

	runs, err := store.ListRuns(s.db, limit)
	if err != nil {
		s.log.Error("api", "failed to list runs", map[string]interface{}{"error": err})
		writeError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}

	out := make([]Run, 0, len(runs))
	for _, run := range runs {
		out = append(out, runFromStore(run))
	}

	writeJSON(w, http.StatusOK, out)
}

// GetRun handles GET /runs/{runId}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request, runId uuid.UUID) {
	if s.db == nil {
		writeError(w, http.StatusNotFound, "Run history is disabled")
		return
	}

	run, err := store.GetRun(s.db, runId)
	if err != nil {
		s.log.Error("api", "failed to get run", map[string]interface{}{"error": err, "run_id": runId.String()})
		writeError(w, http.StatusInternalServerError, "Failed to get run")
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "Run not found")
		return
	}

	writeJSON(w, http.StatusOK, runFromStore(*run))
}
