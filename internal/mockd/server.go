// Package mockd is the demo backend for the studio client. Every endpoint
// answers with canned or locally-generated data wrapped in a demo envelope;
// nothing here talks to real inference services.
package mockd

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lanfinitas-studio/internal/apitypes"
	"lanfinitas-studio/internal/engine/fabric"
	"lanfinitas-studio/internal/engine/layout"
	"lanfinitas-studio/internal/engine/pattern"
)

const (
	demoVersion = "1.0.0-demo"
	demoWarning = "This is demonstration data only"
)

// Server is the mock backend: HTTP surface, store, and demo engines.
type Server struct {
	cfg      Config
	store    *Store
	patterns *pattern.Generator
	fabrics  *fabric.Simulator
	layouts  *layout.Optimizer
	router   chi.Router
}

// NewServer wires the routes over the given store.
func NewServer(cfg Config, store *Store) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		patterns: pattern.NewGenerator(),
		fabrics:  fabric.NewSimulator(),
		layouts:  layout.NewOptimizer(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/identities/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/identities/me", s.handleMe)

			r.Get("/delegations", s.handleListDelegations)
			r.Post("/delegations", s.handleCreateDelegation)
			r.Post("/delegations/{id}/status", s.handleDelegationStatus)

			r.Get("/wallet", s.handleBalance)
			r.Get("/wallet/transactions", s.handleListTransactions)
			r.Post("/wallet/transactions", s.handleAddTransaction)

			r.Get("/templates", s.handleListTemplates)
			r.Get("/templates/{id}", s.handleGetTemplate)

			r.Post("/inference/patterns/generate", s.handleGeneratePattern)
			r.Post("/inference/fabric/simulate", s.handleSimulateFabric)
			r.Post("/inference/layout/optimize", s.handleOptimizeLayout)
			r.Get("/inference/layout/summary", s.handleLayoutSummary)
		})
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler for the full /v1 surface.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the backend on the configured address.
func (s *Server) ListenAndServe() error {
	log.Printf("mockd: listening on %s", s.cfg.Addr)
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func writeEnvelope(w http.ResponseWriter, status int, data interface{}, message string) {
	raw, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apitypes.Response{
		Success: true,
		Data:    raw,
		Message: message,
		Meta:    &apitypes.Meta{Version: demoVersion, Warning: demoWarning},
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	raw, _ := json.Marshal(apitypes.Error{Code: code, Message: message})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apitypes.Response{
		Success: false,
		Data:    raw,
		Message: message,
		Meta:    &apitypes.Meta{Version: demoVersion},
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return false
	}
	return true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req apitypes.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	identity, err := s.store.Authenticate(req.Email, req.Password)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "bad_credentials", "unknown email or password")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	token, expires, err := issueToken(s.cfg.JWTSecret, identity.ID, time.Duration(s.cfg.TokenTTL))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	writeEnvelope(w, http.StatusOK, apitypes.LoginResponse{
		Token:     token,
		ExpiresAt: expires,
		Identity:  identity,
	}, "DEMO: signed in")
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, err := s.store.Identity(callerID(r))
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "identity not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeEnvelope(w, http.StatusOK, identity, "")
}

func (s *Server) handleListDelegations(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.Delegations(callerID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeEnvelope(w, http.StatusOK, list, "")
}

func (s *Server) handleCreateDelegation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Reward      float64 `json:"reward"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "title is required")
		return
	}

	d, err := s.store.CreateDelegation(req.Title, req.Description, callerID(r), req.Reward)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeEnvelope(w, http.StatusCreated, d, "DEMO: delegation created")
}

func (s *Server) handleDelegationStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}

	d, err := s.store.UpdateDelegationStatus(chi.URLParam(r, "id"), req.Status)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "delegation not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	writeEnvelope(w, http.StatusOK, d, "")
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.Balance(callerID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeEnvelope(w, http.StatusOK, b, "")
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.Transactions(callerID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeEnvelope(w, http.StatusOK, list, "")
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind   string  `json:"kind"`
		Amount float64 `json:"amount"`
		Memo   string  `json:"memo"`
	}
	if !decode(w, r, &req) {
		return
	}

	tx, err := s.store.AddTransaction(callerID(r), req.Kind, req.Amount, req.Memo)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	writeEnvelope(w, http.StatusCreated, tx, "")
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.Templates()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeEnvelope(w, http.StatusOK, list, "")
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Template(chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "template not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeEnvelope(w, http.StatusOK, t, "")
}

func (s *Server) handleGeneratePattern(w http.ResponseWriter, r *http.Request) {
	var req apitypes.GenerateRequest
	if !decode(w, r, &req) {
		return
	}

	pat := s.patterns.Generate(req.Design)
	writeEnvelope(w, http.StatusOK, apitypes.GenerateResult{
		Pattern: pat,
		Metrics: s.patterns.Metrics(),
	}, "DEMO: Pattern generated with placeholder algorithm")
}

func (s *Server) handleSimulateFabric(w http.ResponseWriter, r *http.Request) {
	var req apitypes.SimulateRequest
	if !decode(w, r, &req) {
		return
	}

	mesh := s.fabrics.SimulateDraping(req.Pattern, req.Fabric)
	writeEnvelope(w, http.StatusOK, apitypes.SimulateResult{
		Mesh:    mesh,
		Metrics: s.fabrics.Metrics(),
	}, "DEMO: Draping simulated with placeholder physics")
}

func (s *Server) handleOptimizeLayout(w http.ResponseWriter, r *http.Request) {
	var req apitypes.LayoutRequest
	if !decode(w, r, &req) {
		return
	}

	result := s.layouts.Optimize(req.Pattern, req.Fabric)
	writeEnvelope(w, http.StatusOK, result,
		"DEMO: Layout optimized with placeholder strategy")
}

func (s *Server) handleLayoutSummary(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusOK, s.layouts.Summarize(), "")
}
