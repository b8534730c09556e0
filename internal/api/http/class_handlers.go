package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizdesk/quizdesk/internal/store"
)

// POST /classes
func CreateClassHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c store.Class
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if err := st.PutClass(r.Context(), c); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(c)
	}
}

// GET /classes/{classID}
func GetClassHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := st.GetClass(r.Context(), chi.URLParam(r, "classID"))
		if err != nil {
			writeError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(c)
	}
}

// POST /classes/{classID}/students
func EnrollStudentHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := chi.URLParam(r, "classID")
		var s store.Student
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if s.ID == "" {
			http.Error(w, "student id required", http.StatusBadRequest)
			return
		}
		if err := st.EnrollStudent(r.Context(), classID, s); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DELETE /classes/{classID}/students/{studentID}
func RemoveStudentHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := chi.URLParam(r, "classID")
		studentID := chi.URLParam(r, "studentID")
		if err := st.RemoveStudent(r.Context(), classID, studentID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
