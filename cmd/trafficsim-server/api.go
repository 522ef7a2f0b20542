package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/trafficgrid/sim/internal/command"
	"github.com/trafficgrid/sim/internal/geom"
)

func readAll(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRating(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]float64{"rating": s.core.Rating()})
}

func parsePos(r *http.Request) (geom.Position, bool) {
	x, err1 := strconv.ParseInt(r.URL.Query().Get("x"), 10, 16)
	y, err2 := strconv.ParseInt(r.URL.Query().Get("y"), 10, 16)
	if err1 != nil || err2 != nil {
		return geom.Position{}, false
	}
	z := int64(geom.ZGround)
	if zs := r.URL.Query().Get("z"); zs != "" {
		if parsed, err := strconv.ParseInt(zs, 10, 16); err == nil {
			z = parsed
		}
	}
	return geom.NewZ(int16(x), int16(y), int16(z)), true
}

func (s *Server) handleQueryTile(w http.ResponseWriter, r *http.Request) {
	pos, ok := parsePos(r)
	if !ok {
		http.Error(w, "x and y query params are required", http.StatusBadRequest)
		return
	}
	view, ok := s.core.QueryTile(pos)
	if !ok {
		http.Error(w, "position is off-grid", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	sample := s.core.Tick(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"tick":            sample.Tick,
		"rating":          sample.Rating,
		"active_vehicles": sample.ActiveVehicles,
		"arrived_total":   sample.ArrivedTotal,
	})
}

type buildRoadRequest struct {
	X, Y, Z          int16
	DirX, DirY, DirZ int8
}

func (s *Server) handleBuildRoad(w http.ResponseWriter, r *http.Request) {
	var req buildRoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	action := &command.BuildRoadAction{
		Pos: geom.NewZ(req.X, req.Y, req.Z),
		Dir: geom.Direction{X: req.DirX, Y: req.DirY, Z: req.DirZ},
	}
	if err := s.core.Build(r.Context(), action); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "built"})
}

type spawnRequest struct {
	FromBuildingID uint64 `json:"from_building_id"`
	ToBuildingID   uint64 `json:"to_building_id"`
}

func (s *Server) handleSpawn(w http.ResponseWriter, r *http.Request) {
	var req spawnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	id, err := s.core.SpawnVehicle(req.FromBuildingID, req.ToBuildingID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"vehicle_id": id})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	data, err := s.core.Save()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/x-yaml")
	_, _ = w.Write(data)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	data, err := readAll(r)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if err := s.core.Load(data); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if err := s.core.Undo(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "undone"})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	if err := s.core.Redo(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "redone"})
}
