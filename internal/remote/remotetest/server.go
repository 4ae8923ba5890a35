package remotetest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Makepad-fr/tada/internal/model"
)

// Handler exposes svc over the same routes as the real service.
func Handler(svc *Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			tasks, err := svc.ListTasks(r.Context())
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, tasks)
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var draft model.Draft
			if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
				http.Error(w, "invalid json", http.StatusUnprocessableEntity)
				return
			}
			task, err := svc.CreateTask(r.Context(), draft)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, task)
		})
		r.Delete("/completed", func(w http.ResponseWriter, r *http.Request) {
			if err := svc.DeleteCompletedTasks(r.Context()); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"message": "All completed tasks deleted."})
		})
		r.Put("/{id}/complete", func(w http.ResponseWriter, r *http.Request) {
			id := model.TaskID(chi.URLParam(r, "id"))
			if err := svc.CompleteTask(r.Context(), id); err != nil {
				writeError(w, err)
				return
			}
			for _, t := range svc.Tasks() {
				if t.ID == id {
					writeJSON(w, http.StatusOK, t)
					return
				}
			}
			w.WriteHeader(http.StatusOK)
		})
	})

	r.Route("/agent", func(r chi.Router) {
		r.Post("/query", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Question string `json:"question"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "invalid json", http.StatusUnprocessableEntity)
				return
			}
			answer, err := svc.AskAgent(r.Context(), body.Question)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"response": answer})
		})
		r.Post("/schedule", func(w http.ResponseWriter, r *http.Request) {
			plan, err := svc.SuggestSchedule(r.Context())
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"schedule": plan})
		})
		r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
			history, err := svc.GetAgentHistory(r.Context())
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, history)
		})
	})

	return r
}

// NewServer starts an httptest server for svc. Callers must Close it.
func NewServer(svc *Service) *httptest.Server {
	return httptest.NewServer(Handler(svc))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, ErrNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}
