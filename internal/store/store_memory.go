package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/quizdesk/quizdesk/internal/domain"
	"github.com/quizdesk/quizdesk/internal/quiz"
)

// MemoryStore keeps everything behind a single RWMutex. The duplicate
// guard in InsertSubmission runs under the write lock, so two concurrent
// submits for the same (assignment, candidate) cannot both pass.
type MemoryStore struct {
	mu          sync.RWMutex
	quizzes     map[string]quiz.Quiz
	classes     map[string]Class
	assignments map[string]Assignment
	// submissions keyed by assignmentID|candidateID
	submissions map[string]Submission
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quizzes:     map[string]quiz.Quiz{},
		classes:     map[string]Class{},
		assignments: map[string]Assignment{},
		submissions: map[string]Submission{},
	}
}

func subKey(assignmentID, candidateID string) string {
	return assignmentID + "|" + candidateID
}

func (m *MemoryStore) PutQuiz(_ context.Context, q quiz.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q
	return nil
}

func (m *MemoryStore) GetQuiz(_ context.Context, id string) (quiz.Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return quiz.Quiz{}, fmt.Errorf("quiz %s: %w", id, domain.ErrNotFound)
	}
	return q, nil
}

func (m *MemoryStore) PutClass(_ context.Context, c Class) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes[c.ID] = c
	return nil
}

func (m *MemoryStore) GetClass(_ context.Context, id string) (Class, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.classes[id]
	if !ok {
		return Class{}, fmt.Errorf("class %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func (m *MemoryStore) EnrollStudent(_ context.Context, classID string, s Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.classes[classID]
	if !ok {
		return fmt.Errorf("class %s: %w", classID, domain.ErrNotFound)
	}
	for i, existing := range c.Students {
		if existing.ID == s.ID {
			c.Students[i] = s
			m.classes[classID] = c
			return nil
		}
	}
	c.Students = append(c.Students, s)
	m.classes[classID] = c
	return nil
}

func (m *MemoryStore) RemoveStudent(_ context.Context, classID, studentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.classes[classID]
	if !ok {
		return fmt.Errorf("class %s: %w", classID, domain.ErrNotFound)
	}
	out := c.Students[:0]
	for _, s := range c.Students {
		if s.ID != studentID {
			out = append(out, s)
		}
	}
	c.Students = out
	m.classes[classID] = c
	return nil
}

func (m *MemoryStore) PutAssignment(_ context.Context, a Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[a.ID] = a
	return nil
}

func (m *MemoryStore) GetAssignment(_ context.Context, id string) (Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assignments[id]
	if !ok {
		return Assignment{}, fmt.Errorf("assignment %s: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

func (m *MemoryStore) ListAssignments(_ context.Context, classID string) ([]Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Assignment
	for _, a := range m.assignments {
		if a.ClassID == classID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MemoryStore) UpdateAssignment(_ context.Context, id string, upd AssignmentUpdate) (Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return Assignment{}, fmt.Errorf("assignment %s: %w", id, domain.ErrNotFound)
	}
	if upd.DueAt != nil {
		a.DueAt = *upd.DueAt
	}
	if upd.TimeLimitSec != nil {
		a.TimeLimitSec = *upd.TimeLimitSec
	}
	if upd.Weightage != nil {
		a.Weightage = *upd.Weightage
	}
	if upd.WeightageType != nil {
		a.WeightageType = *upd.WeightageType
	}
	if upd.Subgroup != nil {
		a.Subgroup = *upd.Subgroup
	}
	m.assignments[id] = a
	return a, nil
}

func (m *MemoryStore) ResetSubmissions(_ context.Context, assignmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, s := range m.submissions {
		if s.AssignmentID == assignmentID {
			delete(m.submissions, k)
		}
	}
	return nil
}

func (m *MemoryStore) InsertSubmission(_ context.Context, sub Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := subKey(sub.AssignmentID, sub.CandidateID)
	if _, exists := m.submissions[k]; exists {
		return fmt.Errorf("assignment %s candidate %s: %w",
			sub.AssignmentID, sub.CandidateID, domain.ErrDuplicateSubmission)
	}
	m.submissions[k] = sub
	return nil
}

func (m *MemoryStore) GetSubmission(_ context.Context, assignmentID, candidateID string) (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.submissions[subKey(assignmentID, candidateID)]
	if !ok {
		return Submission{}, fmt.Errorf("submission: %w", domain.ErrNotFound)
	}
	return s, nil
}

func (m *MemoryStore) ListSubmissions(_ context.Context, assignmentID string) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Submission
	for _, s := range m.submissions {
		if s.AssignmentID == assignmentID {
			out = append(out, s)
		}
	}
	return out, nil
}
