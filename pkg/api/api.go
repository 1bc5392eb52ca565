// Package api exposes a tiny JSON-over-HTTP API for the dnsq daemon.
// It listens on a Unix domain socket (path comes from config) and bridges
// the request/response world of HTTP to the callback-based completion
// contract of pkg/resolve: each handler submits the async work, then waits
// for the completion handler to fire before writing the response. No
// third-party HTTP framework is used, just net/http + encoding/json.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lc/dnsq/internal/buildinfo"
	"github.com/lc/dnsq/internal/socket"
	"github.com/lc/dnsq/pkg/records"
	"github.com/lc/dnsq/pkg/resolve"
)

// LookupRequest represents an address-family lookup request.
type LookupRequest struct {
	Hostname string `json:"hostname"`
	Family   int    `json:"family,omitempty"` // 0, 4 or 6
	Verbatim bool   `json:"verbatim,omitempty"`
}

// LookupResponse carries the aggregated lookup result.
type LookupResponse struct {
	Code      int      `json:"code"`
	Error     string   `json:"error,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
}

// QueryRequest represents a record-type query request.
type QueryRequest struct {
	Hostname string `json:"hostname"`
	Type     string `json:"type"`
}

// QueryResponse carries the aggregated query result.
type QueryResponse struct {
	Code    int              `json:"code"`
	Error   string           `json:"error,omitempty"`
	Records []records.Record `json:"records,omitempty"`
}

// StatusResponse represents the daemon status response.
type StatusResponse struct {
	InFlight int           `json:"in_flight"`
	Served   int64         `json:"served"`
	Uptime   time.Duration `json:"uptime"`
	Version  string        `json:"version"`
	Commit   string        `json:"commit"`
}

// -------- server -----------------------------------------------------

// Server handles HTTP API requests over a Unix domain socket.
type Server struct {
	res   *resolve.Resolver
	start time.Time
	mux   *http.ServeMux
	srv   *http.Server
}

// New creates a new API server on top of the given resolver.
func New(res *resolve.Resolver) *Server {
	s := &Server{
		res:   res,
		start: time.Now(),
		mux:   http.NewServeMux(),
	}

	s.mux.HandleFunc("/v1/lookup", s.handleLookup)
	s.mux.HandleFunc("/v1/query", s.handleQuery)
	s.mux.HandleFunc("/v1/status", s.handleStatus)

	s.srv = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe starts the Unix-socket HTTP server.
func (s *Server) ListenAndServe(path string) error {
	ln, err := socket.Listen(path)
	if err != nil {
		return err
	}
	return s.srv.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }

// handleLookup resolves a hostname to addresses.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Hostname == "" {
		http.Error(w, "hostname required", http.StatusBadRequest)
		return
	}
	var family resolve.Family
	switch req.Family {
	case 0:
		family = resolve.FamilyUnspec
	case 4:
		family = resolve.FamilyV4
	case 6:
		family = resolve.FamilyV6
	default:
		http.Error(w, "family must be 0, 4 or 6", http.StatusBadRequest)
		return
	}

	done := make(chan LookupResponse, 1)
	opts := resolve.LookupOptions{Family: family, Verbatim: req.Verbatim}
	code := s.res.ResolveAddress(r.Context(), req.Hostname, opts,
		func(code resolve.Code, addrs []string) {
			resp := LookupResponse{Code: int(code), Addresses: addrs}
			if code != resolve.CodeOK {
				resp.Error = resolve.Describe(code)
			}
			done <- resp
		})
	if code != resolve.CodeOK {
		writeJSON(w, LookupResponse{Code: int(code), Error: resolve.Describe(code)})
		return
	}

	select {
	case resp := <-done:
		writeJSON(w, resp)
	case <-r.Context().Done():
		// Client went away; the sub-queries still run to completion.
	}
}

// handleQuery resolves a hostname to records of one type.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Hostname == "" {
		http.Error(w, "hostname required", http.StatusBadRequest)
		return
	}
	rtype, err := records.Parse(req.Type)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	done := make(chan QueryResponse, 1)
	code := s.res.ResolveRecords(r.Context(), req.Hostname, rtype,
		func(code resolve.Code, recs []records.Record) {
			resp := QueryResponse{Code: int(code), Records: recs}
			if code != resolve.CodeOK {
				resp.Error = resolve.Describe(code)
			}
			done <- resp
		})
	if code != resolve.CodeOK {
		// Rejected synchronously, e.g. an unsupported record type.
		writeJSON(w, QueryResponse{Code: int(code), Error: resolve.Describe(code)})
		return
	}

	select {
	case resp := <-done:
		writeJSON(w, resp)
	case <-r.Context().Done():
	}
}

// handleStatus returns the daemon status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, StatusResponse{
		InFlight: s.res.InFlight(),
		Served:   s.res.Served(),
		Uptime:   time.Since(s.start),
		Version:  buildinfo.Version,
		Commit:   buildinfo.Commit,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("Error encoding response: %v", err), http.StatusInternalServerError)
	}
}
