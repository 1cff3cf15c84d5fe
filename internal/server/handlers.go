package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/claude/gymflow/internal/storage"
	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// pathParam returns a URL-decoded chi path parameter; group and exercise
// names contain spaces.
func pathParam(r *http.Request, name string) string {
	v, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil {
		return chi.URLParam(r, name)
	}
	return v
}

// groupSummary is one catalog entry on the groups listing.
type groupSummary struct {
	Group       string     `json:"group"`
	Subtitle    string     `json:"subtitle,omitempty"`
	LastWorkout *time.Time `json:"lastWorkout,omitempty"`
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.db.AllGroups(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sortGroups(groups)

	summaries := make([]groupSummary, 0, len(groups))
	for _, g := range groups {
		summary := groupSummary{Group: g, Subtitle: groupSubtitle(g)}
		last, err := s.db.LastWorkoutDate(r.Context(), g)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !last.IsZero() {
			summary.LastWorkout = &last
		}
		summaries = append(summaries, summary)
	}
	writeJSON(w, http.StatusOK, summaries)
}

// sortGroups orders the training plan: programs alphabetically, with the
// stretch and calisthenics groups pushed to the end.
func sortGroups(groups []string) {
	rank := func(g string) int {
		switch strings.ToLower(g) {
		case "stretch":
			return 1
		case "calisthenics":
			return 2
		default:
			return 0
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		ri, rj := rank(groups[i]), rank(groups[j])
		if ri != rj {
			return ri < rj
		}
		return groups[i] < groups[j]
	})
}

func groupSubtitle(group string) string {
	switch group {
	case "Falcon":
		return "Don't Get Snatched"
	case "Deep Horizon":
		return "We Take You To Crush Depth"
	case "Challenger":
		return "Failure Is Not An Option"
	case "Trident":
		return "Only Easy Day Was Yesterday"
	case "stretch":
		return "Just Let It Go"
	default:
		return ""
	}
}

func (s *Server) handleGroupExercises(w http.ResponseWriter, r *http.Request) {
	group := pathParam(r, "group")
	exercises, err := s.db.ExercisesInGroup(r.Context(), group)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

type adjustRequest struct {
	Delta int `json:"delta"`
}

func (s *Server) handleAdjustWeight(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	group, name := pathParam(r, "group"), pathParam(r, "name")

	s.mu.Lock()
	defer s.mu.Unlock()

	var weight int
	var err error
	if s.session != nil {
		weight, err = s.session.AdjustWeight(r.Context(), group, name, req.Delta)
	} else {
		weight, err = s.db.AdjustWeight(r.Context(), group, name, req.Delta)
	}
	if err != nil {
		if errors.Is(err, storage.ErrInvalidDelta) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"weight": weight})
}

func (s *Server) handleAdjustSetCount(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	group, name := pathParam(r, "group"), pathParam(r, "name")

	s.mu.Lock()
	defer s.mu.Unlock()

	// Route through the active session so a shrink prunes its tracker.
	var sets int
	var err error
	if s.session != nil {
		sets, err = s.session.AdjustSetCount(r.Context(), group, name, req.Delta)
	} else {
		sets, err = s.db.AdjustSetCount(r.Context(), group, name, req.Delta)
	}
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"numSets": sets})
}

func (s *Server) handleQueryHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.QueryHistory(r.Context(), r.URL.Query().Get("group"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.db.DeleteHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "no such record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLastGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.db.LastCompletedGroup(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"group": group})
}
