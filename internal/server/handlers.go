package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dbsmedya/objectgraph/internal/discovery"
	"github.com/dbsmedya/objectgraph/internal/types"
)

// networkResponse is the body of a successful discovery.
type networkResponse struct {
	Success bool                 `json:"success"`
	Output  map[int]*types.Node  `json:"output"`
	Queries []string             `json:"queries"`
	Stats   types.DiscoveryStats `json:"stats"`
}

// handleGetNetwork runs one discovery.
// Query: type, id (required); depth_limit, object_limit, strategy (optional).
func (s *Server) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseNetworkRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errTypeBadRequest, err.Error())
		return
	}

	log := s.logger.WithRequest(middleware.GetReqID(r.Context())).WithSeed(req.SeedType, req.SeedID)
	rg, err := s.builder.Run(r.Context(), req)
	if err != nil {
		status, errType := errorStatus(err)
		recordDiscoveryFailure(req.Strategy, outcomeOf(errType))
		if status >= http.StatusInternalServerError {
			log.Errorf("Discovery failed: %v", err)
		}
		writeError(w, status, errType, err.Error())
		return
	}

	recordDiscovery(req.Strategy, rg)
	writeJSON(w, http.StatusOK, networkResponse{
		Success: true,
		Output:  rg.Output(),
		Queries: rg.QueryLog,
		Stats:   rg.Stats,
	})
}

func outcomeOf(errType string) string {
	switch errType {
	case errTypeNotFound:
		return "seed_not_found"
	case errTypeBackendUnavailable:
		return "backend_unavailable"
	default:
		return "error"
	}
}

// parseNetworkRequest reads the discovery parameters, applying configured
// defaults and caps.
func (s *Server) parseNetworkRequest(r *http.Request) (discovery.Request, error) {
	q := r.URL.Query()

	req := discovery.Request{
		Strategy:    s.traversal.Strategy,
		SeedType:    q.Get("type"),
		SeedID:      q.Get("id"),
		DepthLimit:  s.traversal.DepthLimit,
		ObjectLimit: s.traversal.ObjectLimit,
	}
	if req.SeedType == "" || req.SeedID == "" {
		return req, errors.New("type and id are required")
	}
	if req.Strategy == "" {
		req.Strategy = discovery.StrategyBreadthFirst
	}

	if v := q.Get("strategy"); v != "" {
		if v != discovery.StrategyBreadthFirst && v != discovery.StrategyDepthFirst {
			return req, fmt.Errorf("strategy must be %q or %q", discovery.StrategyBreadthFirst, discovery.StrategyDepthFirst)
		}
		req.Strategy = v
	}

	var err error
	if req.DepthLimit, err = intParam(q.Get("depth_limit"), req.DepthLimit, 0, s.settings.MaxDepthLimit); err != nil {
		return req, fmt.Errorf("depth_limit: %w", err)
	}
	if req.ObjectLimit, err = intParam(q.Get("object_limit"), req.ObjectLimit, 1, s.settings.MaxObjectLimit); err != nil {
		return req, fmt.Errorf("object_limit: %w", err)
	}
	return req, nil
}

// intParam parses an optional integer within [min, max]. A max of zero
// leaves the value uncapped.
func intParam(raw string, def, min, max int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", raw)
	}
	if v < min {
		return 0, fmt.Errorf("must be at least %d", min)
	}
	if max > 0 && v > max {
		return 0, fmt.Errorf("must be at most %d", max)
	}
	return v, nil
}

// handleGetTypes lists the record types in the store.
func (s *Server) handleGetTypes(w http.ResponseWriter, r *http.Request) {
	tables, err := s.backend.ListTypes(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	if tables == nil {
		tables = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"types":   tables,
	})
}

// handleGetObjectInfo returns the stored document of one record.
func (s *Server) handleGetObjectInfo(w http.ResponseWriter, r *http.Request) {
	key := types.NodeKey{Type: r.URL.Query().Get("type"), ID: r.URL.Query().Get("id")}
	if key.Type == "" || key.ID == "" {
		writeError(w, http.StatusBadRequest, errTypeBadRequest, "type and id are required")
		return
	}

	doc, err := s.backend.Object(r.Context(), key)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"type":    key.Type,
		"id":      key.ID,
		"object":  doc,
	})
}

// handleVerify checks the store connection.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.Ping(r.Context()); err != nil {
		s.logger.Warnf("Store verification failed: %v", err)
		writeError(w, http.StatusServiceUnavailable, errTypeBackendUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
