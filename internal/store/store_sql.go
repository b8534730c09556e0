package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/quizdesk/quizdesk/internal/domain"
	"github.com/quizdesk/quizdesk/internal/integrity"
	"github.com/quizdesk/quizdesk/internal/quiz"
)

// SQLStore works against both sqlite and postgres; the schema uses
// $1-style placeholders, which both drivers accept.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
	log    zerolog.Logger
}

func NewSQLStore(db *sql.DB, driver string, log zerolog.Logger) *SQLStore {
	return &SQLStore{db: db, driver: driver, log: log}
}

func (s *SQLStore) PutQuiz(ctx context.Context, q quiz.Quiz) error {
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes (id,title,questions_json,created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, questions_json=EXCLUDED.questions_json`,
		q.ID, q.Title, string(qj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (quiz.Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,questions_json,created_at FROM quizzes WHERE id=$1`, id)
	var q quiz.Quiz
	var qjson string
	if err := row.Scan(&q.ID, &q.Title, &qjson, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Quiz{}, fmt.Errorf("quiz %s: %w", id, domain.ErrNotFound)
		}
		return quiz.Quiz{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
		return quiz.Quiz{}, err
	}
	return q, nil
}

func (s *SQLStore) PutClass(ctx context.Context, c Class) error {
	sj, err := json.Marshal(c.Students)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO classes (id,name,allow_late_submissions,show_results,students_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name,
			allow_late_submissions=EXCLUDED.allow_late_submissions,
			show_results=EXCLUDED.show_results,
			students_json=EXCLUDED.students_json`,
		c.ID, c.Name, c.Settings.AllowLateSubmissions, c.Settings.ShowResults, string(sj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetClass(ctx context.Context, id string) (Class, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,name,allow_late_submissions,show_results,students_json,created_at FROM classes WHERE id=$1`, id)
	var c Class
	var sjson string
	if err := row.Scan(&c.ID, &c.Name, &c.Settings.AllowLateSubmissions, &c.Settings.ShowResults, &sjson, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Class{}, fmt.Errorf("class %s: %w", id, domain.ErrNotFound)
		}
		return Class{}, err
	}
	if err := json.Unmarshal([]byte(sjson), &c.Students); err != nil {
		return Class{}, err
	}
	return c, nil
}

func (s *SQLStore) EnrollStudent(ctx context.Context, classID string, st Student) error {
	return s.mutateRoster(ctx, classID, func(students []Student) []Student {
		for i, existing := range students {
			if existing.ID == st.ID {
				students[i] = st
				return students
			}
		}
		return append(students, st)
	})
}

func (s *SQLStore) RemoveStudent(ctx context.Context, classID, studentID string) error {
	return s.mutateRoster(ctx, classID, func(students []Student) []Student {
		out := students[:0]
		for _, existing := range students {
			if existing.ID != studentID {
				out = append(out, existing)
			}
		}
		return out
	})
}

// mutateRoster rewrites the students_json blob inside a transaction.
// Classroom rosters are small; a row-level rewrite is fine here.
func (s *SQLStore) mutateRoster(ctx context.Context, classID string, fn func([]Student) []Student) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var sjson string
	if err := tx.QueryRowContext(ctx, `SELECT students_json FROM classes WHERE id=$1`, classID).Scan(&sjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("class %s: %w", classID, domain.ErrNotFound)
		}
		return err
	}
	var students []Student
	if err := json.Unmarshal([]byte(sjson), &students); err != nil {
		return err
	}
	buf, err := json.Marshal(fn(students))
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE classes SET students_json=$1 WHERE id=$2`, string(buf), classID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) PutAssignment(ctx context.Context, a Assignment) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO assignments
		(id,quiz_id,class_id,due_at,time_limit_sec,weightage,weightage_type,subgroup,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.QuizID, a.ClassID, a.DueAt.Unix(), a.TimeLimitSec,
		a.Weightage, a.WeightageType, a.Subgroup, time.Now().Unix())
	return err
}

func (s *SQLStore) GetAssignment(ctx context.Context, id string) (Assignment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,quiz_id,class_id,due_at,time_limit_sec,weightage,weightage_type,subgroup,created_at
		FROM assignments WHERE id=$1`, id)
	return scanAssignment(row)
}

func (s *SQLStore) ListAssignments(ctx context.Context, classID string) ([]Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,quiz_id,class_id,due_at,time_limit_sec,weightage,weightage_type,subgroup,created_at
		FROM assignments WHERE class_id=$1 ORDER BY created_at`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (Assignment, error) {
	var a Assignment
	var dueAt int64
	if err := row.Scan(&a.ID, &a.QuizID, &a.ClassID, &dueAt, &a.TimeLimitSec,
		&a.Weightage, &a.WeightageType, &a.Subgroup, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assignment{}, fmt.Errorf("assignment: %w", domain.ErrNotFound)
		}
		return Assignment{}, err
	}
	a.DueAt = time.Unix(dueAt, 0).UTC()
	return a, nil
}

func (s *SQLStore) UpdateAssignment(ctx context.Context, id string, upd AssignmentUpdate) (Assignment, error) {
	a, err := s.GetAssignment(ctx, id)
	if err != nil {
		return Assignment{}, err
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
	_, err = s.db.ExecContext(ctx, `UPDATE assignments
		SET due_at=$1, time_limit_sec=$2, weightage=$3, weightage_type=$4, subgroup=$5
		WHERE id=$6`,
		a.DueAt.Unix(), a.TimeLimitSec, a.Weightage, a.WeightageType, a.Subgroup, id)
	if err != nil {
		return Assignment{}, err
	}
	return a, nil
}

func (s *SQLStore) ResetSubmissions(ctx context.Context, assignmentID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM submissions WHERE assignment_id=$1`, assignmentID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil {
		s.log.Info().Str("assignment_id", assignmentID).Int64("cleared", n).Msg("submissions reset")
	}
	return nil
}

func (s *SQLStore) InsertSubmission(ctx context.Context, sub Submission) error {
	aj, err := json.Marshal(sub.Answers)
	if err != nil {
		return err
	}
	pj := ""
	if sub.Proctoring != nil {
		buf, err := json.Marshal(sub.Proctoring)
		if err != nil {
			return err
		}
		pj = string(buf)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO submissions
		(id,assignment_id,candidate_id,score,submitted_at,is_late,answers_json,tab_switches,esc_presses,proctoring_json)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		sub.ID, sub.AssignmentID, sub.CandidateID, sub.Score, sub.SubmittedAt.Unix(),
		sub.IsLate, string(aj), sub.TabSwitches, sub.EscPresses, pj)
	if isUniqueViolation(err) {
		return fmt.Errorf("assignment %s candidate %s: %w",
			sub.AssignmentID, sub.CandidateID, domain.ErrDuplicateSubmission)
	}
	return err
}

// isUniqueViolation recognizes the (assignment_id, candidate_id) conflict
// for both drivers. The insert itself is the guard; there is no
// check-then-act window.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") // sqlite
}

func (s *SQLStore) GetSubmission(ctx context.Context, assignmentID, candidateID string) (Submission, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,assignment_id,candidate_id,score,submitted_at,is_late,answers_json,tab_switches,esc_presses,proctoring_json
		FROM submissions WHERE assignment_id=$1 AND candidate_id=$2`, assignmentID, candidateID)
	return scanSubmission(row)
}

func (s *SQLStore) ListSubmissions(ctx context.Context, assignmentID string) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,assignment_id,candidate_id,score,submitted_at,is_late,answers_json,tab_switches,esc_presses,proctoring_json
		FROM submissions WHERE assignment_id=$1 ORDER BY submitted_at`, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func scanSubmission(row rowScanner) (Submission, error) {
	var sub Submission
	var submittedAt int64
	var ajson, pjson string
	if err := row.Scan(&sub.ID, &sub.AssignmentID, &sub.CandidateID, &sub.Score, &submittedAt,
		&sub.IsLate, &ajson, &sub.TabSwitches, &sub.EscPresses, &pjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, fmt.Errorf("submission: %w", domain.ErrNotFound)
		}
		return Submission{}, err
	}
	sub.SubmittedAt = time.Unix(submittedAt, 0).UTC()
	if err := json.Unmarshal([]byte(ajson), &sub.Answers); err != nil {
		// Legacy rows may carry an empty answers blob; fall back to none.
		sub.Answers = nil
	}
	if pjson != "" {
		var pd integrity.ProctoringData
		if err := json.Unmarshal([]byte(pjson), &pd); err == nil {
			sub.Proctoring = &pd
		}
	}
	return sub, nil
}
