package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/julianstephens/habitquest/internal/badges"
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/engine"
	"github.com/julianstephens/habitquest/internal/insights"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/utils"
)

func (s *Server) routes(r *mux.Router) {
	r.HandleFunc("/state", s.getState).Methods(http.MethodGet)
	r.HandleFunc("/quests", s.getQuests).Methods(http.MethodGet)
	r.HandleFunc("/badges", s.getBadges).Methods(http.MethodGet)
	r.HandleFunc("/insights", s.getInsights).Methods(http.MethodGet)
	r.HandleFunc("/settings", s.putSettings).Methods(http.MethodPut)
	r.HandleFunc("/export", s.export).Methods(http.MethodGet)
	r.HandleFunc("/import", s.importBundle).Methods(http.MethodPost)
	r.HandleFunc("/events", s.getEvents).Methods(http.MethodGet)
	r.HandleFunc("/events", s.dismissEvents).Methods(http.MethodDelete)

	r.HandleFunc("/habits", s.addHabit).Methods(http.MethodPost)
	r.HandleFunc("/habits/reorder", s.reorder).Methods(http.MethodPost)
	r.HandleFunc("/habits/{id}", s.deleteHabit).Methods(http.MethodDelete)
	r.HandleFunc("/habits/{id}/duplicate", s.duplicateHabit).Methods(http.MethodPost)
	r.HandleFunc("/habits/{id}/archive", s.archiveHabit).Methods(http.MethodPost)
	r.HandleFunc("/habits/{id}/restore", s.restoreHabit).Methods(http.MethodPost)
	r.HandleFunc("/habits/{id}/completions/{date}", s.undo).Methods(http.MethodDelete)
	r.HandleFunc("/habits/{id}/{status:completed|failed|skipped}", s.apply).Methods(http.MethodPost)
}

// GET /api/v1/state
func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

// GET /api/v1/quests
func (s *Server) getQuests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot().Quests)
}

// GET /api/v1/badges
func (s *Server) getBadges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Badges())
}

// GET /api/v1/insights
func (s *Server) getInsights(w http.ResponseWriter, r *http.Request) {
	st := s.engine.Snapshot()
	writeJSON(w, http.StatusOK, insights.Compute(st.Habits, st.Completions, s.engine.Now()))
}

// PUT /api/v1/settings
func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.PlayerSettings
	if err := decode(r, &settings); err != nil {
		writeError(w, err)
		return
	}
	if err := s.engine.UpdatePlayerSettings(settings); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// GET /api/v1/export
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	bundle := s.engine.Export()
	name := fmt.Sprintf("%sexport-%s%s", constants.BackupFilePrefix, bundle.ExportedAt.Format(constants.DateFormat), constants.BackupFileSuffix)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	writeJSON(w, http.StatusOK, bundle)
}

// POST /api/v1/import
func (s *Server) importBundle(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if err := s.engine.Import(data); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

// GET /api/v1/events
func (s *Server) getEvents(w http.ResponseWriter, r *http.Request) {
	events := s.engine.PendingUnlocks()
	if events == nil {
		events = []badges.Unlock{}
	}
	writeJSON(w, http.StatusOK, events)
}

// DELETE /api/v1/events
func (s *Server) dismissEvents(w http.ResponseWriter, r *http.Request) {
	s.engine.DismissUnlocks()
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/habits
func (s *Server) addHabit(w http.ResponseWriter, r *http.Request) {
	var nh engine.NewHabit
	if err := decode(r, &nh); err != nil {
		writeError(w, err)
		return
	}
	habit, err := s.engine.AddHabit(nh)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

// POST /api/v1/habits/{id}/duplicate
// The body overrides any of the source habit's fields.
func (s *Server) duplicateHabit(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if len(data) > 0 {
		var probe engine.NewHabit
		if err := json.Unmarshal(data, &probe); err != nil {
			writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}

	habit, err := s.engine.DuplicateHabit(mux.Vars(r)["id"], func(nh *engine.NewHabit) {
		if len(data) > 0 {
			_ = json.Unmarshal(data, nh)
		}
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

// POST /api/v1/habits/{id}/archive
func (s *Server) archiveHabit(w http.ResponseWriter, r *http.Request) {
	s.habitAction(w, func(id string) (bool, error) { return s.engine.Archive(id) }, mux.Vars(r)["id"])
}

// POST /api/v1/habits/{id}/restore?resolution=replace|keep-both
func (s *Server) restoreHabit(w http.ResponseWriter, r *http.Request) {
	res, err := engine.ParseResolution(r.URL.Query().Get("resolution"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	s.habitAction(w, func(id string) (bool, error) { return s.engine.Restore(id, res) }, mux.Vars(r)["id"])
}

// DELETE /api/v1/habits/{id}
func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	s.habitAction(w, s.engine.Delete, mux.Vars(r)["id"])
}

func (s *Server) habitAction(w http.ResponseWriter, action func(string) (bool, error), id string) {
	ok, err := action(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, engine.ErrHabitNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	DraggedID string `json:"draggedId"`
	TargetID  string `json:"targetId"`
}

// POST /api/v1/habits/reorder
func (s *Server) reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	moved, err := s.engine.Reorder(req.DraggedID, req.TargetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"moved": moved})
}

type applyRequest struct {
	Date string `json:"date,omitempty"`
}

// POST /api/v1/habits/{id}/{status}
// An optional date (YYYY-MM-DD) logs a past day inside the editable window.
func (s *Server) apply(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req applyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.engine.Habit(vars["id"]); err != nil {
		writeError(w, err)
		return
	}
	at, err := s.resolveDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.engine.Apply(vars["id"], models.CompletionStatus(vars["status"]), at)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DELETE /api/v1/habits/{id}/completions/{date}
func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	at, err := s.resolveDate(vars["date"])
	if err != nil {
		writeError(w, err)
		return
	}
	removed, err := s.engine.Undo(vars["id"], at)
	if err != nil {
		writeError(w, err)
		return
	}
	if !removed {
		writeJSONError(w, http.StatusNotFound, "no editable record for that day")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveDate places a YYYY-MM-DD date at the current time of day; empty
// means now.
func (s *Server) resolveDate(date string) (time.Time, error) {
	now := s.engine.Now()
	if date == "" {
		return now, nil
	}
	day, err := utils.ParseDateInLocation(date, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", errBadRequest, date)
	}
	return utils.OnDate(day, now), nil
}
