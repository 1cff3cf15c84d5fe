package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/gymflow/internal/workout"
)

// sessionState is the full session view the frontend renders.
type sessionState struct {
	Active          bool               `json:"active"`
	TargetGroup     string             `json:"targetGroup,omitempty"`
	Phase           workout.Phase      `json:"phase,omitempty"`
	ElapsedSec      int                `json:"elapsedSec"`
	PhaseElapsedSec int                `json:"phaseElapsedSec"`
	CardioOffered   bool               `json:"cardioOffered"`
	Exercises       []sessionExercise  `json:"exercises,omitempty"`
}

type sessionExercise struct {
	Name    string `json:"name"`
	NumReps int    `json:"numReps"`
	NumSets int    `json:"numSets"`
	Weight  int    `json:"weight"`
	Sets    []bool `json:"sets"`
}

func (s *Server) snapshotLocked() sessionState {
	if s.session == nil {
		return sessionState{Active: false}
	}
	sess := s.session
	state := sessionState{
		Active:          true,
		TargetGroup:     sess.TargetGroup(),
		Phase:           sess.Phase(),
		ElapsedSec:      sess.ElapsedSeconds(),
		PhaseElapsedSec: sess.PhaseElapsedSeconds(),
		CardioOffered:   sess.CardioOfferPending(),
	}
	for _, ex := range sess.Exercises() {
		se := sessionExercise{
			Name:    ex.Name,
			NumReps: ex.NumReps,
			NumSets: ex.NumSets,
			Weight:  ex.Weight,
			Sets:    make([]bool, ex.NumSets),
		}
		for i := range se.Sets {
			se.Sets[i] = sess.IsSetComplete(ex.Name, i)
		}
		state.Exercises = append(state.Exercises, se)
	}
	return state
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Group string `json:"group"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Group == "" {
		writeError(w, http.StatusBadRequest, "group is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		writeError(w, http.StatusConflict, "a session is already active")
		return
	}

	exercises, err := s.db.ExercisesInGroup(r.Context(), req.Group)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(exercises) == 0 {
		// A zero-exercise main phase could never complete; refuse up front
		// and let the catalog get fixed instead of stalling a session.
		writeError(w, http.StatusUnprocessableEntity, "group has no exercises")
		return
	}

	session, err := workout.NewSession(workout.Config{
		TargetGroup: req.Group,
		Catalog:     s.db,
		History:     s.db,
		Settings:    s.db,
		Health:      s.health,
		Log:         s.log,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := session.Begin(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.session = session
	writeJSON(w, http.StatusCreated, s.snapshotLocked())
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.snapshotLocked())
}

// handleAbandonSession tears down the active session without saving:
// no history record, no health-sink call.
func (s *Server) handleAbandonSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}
	s.session.Abandon()
	s.session = nil
	w.WriteHeader(http.StatusNoContent)
}

type toggleResponse struct {
	workout.ToggleOutcome
	State sessionState `json:"state"`
}

func (s *Server) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Exercise string `json:"exercise"`
		Set      int    `json:"set"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}

	out, err := s.session.ToggleSet(r.Context(), req.Exercise, req.Set)
	if out.Result == nil && err != nil {
		s.writeSessionError(w, err)
		return
	}
	if out.Result != nil {
		// The toggle finalized the session; free the slot even when the
		// history write failed, same as the other finalize paths.
		s.session = nil
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":  err.Error(),
				"result": out.Result,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, toggleResponse{ToggleOutcome: out, State: s.snapshotLocked()})
}

func (s *Server) handleSkipStretch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}
	if err := s.session.SkipStretch(r.Context()); err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshotLocked())
}

// handleCardioDecision answers the add-cardio offer: accept extends the
// session into the cardio phase, decline finalizes immediately.
func (s *Server) handleCardioDecision(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}

	if req.Accept {
		if err := s.session.AcceptCardio(); err != nil {
			s.writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.snapshotLocked())
		return
	}

	result, err := s.session.DeclineCardio(r.Context())
	s.finishSession(w, result, err)
}

func (s *Server) handleEndCardio(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}
	result, err := s.session.EndCardio(r.Context())
	s.finishSession(w, result, err)
}

// finishSession reports a finalize outcome. A history write failure is
// surfaced with the record still attached — the session has ended either
// way.
func (s *Server) finishSession(w http.ResponseWriter, result *workout.Result, err error) {
	if result == nil {
		s.writeSessionError(w, err)
		return
	}
	s.session = nil
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":  err.Error(),
			"result": result,
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workout.ErrUnknownExercise):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, workout.ErrWrongPhase),
		errors.Is(err, workout.ErrCardioPending),
		errors.Is(err, workout.ErrNoCardioOffer),
		errors.Is(err, workout.ErrSessionOver):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
