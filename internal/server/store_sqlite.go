package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) CreateUser(ctx context.Context, username, email, passwordHash string) (quizgenie.User, error) {
	var u quizgenie.User
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES (?, ?, ?)
		RETURNING id, username, email, created_at, total_score, badge
	`, username, email, passwordHash).Scan(&u.ID, &u.Username, &u.Email, &createdAt, &u.TotalScore, &u.Badge)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return u, ErrConflict
		}
		return u, err
	}
	u.CreatedAt = parseTimestamp(createdAt)
	return u, nil
}

func (s *SQLiteStore) UserAuth(ctx context.Context, username string) (quizgenie.User, string, error) {
	var u quizgenie.User
	var hash, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at, total_score, badge
		FROM users WHERE username = ?
	`, username).Scan(&u.ID, &u.Username, &u.Email, &hash, &createdAt, &u.TotalScore, &u.Badge)
	if errors.Is(err, sql.ErrNoRows) {
		return u, "", ErrNotFound
	}
	if err != nil {
		return u, "", err
	}
	u.CreatedAt = parseTimestamp(createdAt)
	return u, hash, nil
}

func (s *SQLiteStore) UserByID(ctx context.Context, id int64) (quizgenie.User, error) {
	var u quizgenie.User
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, created_at, total_score, badge
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Username, &u.Email, &createdAt, &u.TotalScore, &u.Badge)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	if err != nil {
		return u, err
	}
	u.CreatedAt = parseTimestamp(createdAt)
	return u, nil
}

func (s *SQLiteStore) UserRank(ctx context.Context, id int64) (int, error) {
	var rank int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) + 1 FROM users
		WHERE total_score > (SELECT total_score FROM users WHERE id = ?)
	`, id).Scan(&rank)
	return rank, err
}

func (s *SQLiteStore) CreateQuiz(ctx context.Context, quiz quizgenie.Quiz, originalText string) error {
	content, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("encoding questions: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO quizzes (id, user_id, original_text, quiz_content, quiz_type,
			title, description, difficulty, is_public, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, quiz.ID, quiz.OwnerID, originalText, string(content), string(quiz.Type),
		quiz.Title, quiz.Description, quiz.Difficulty, quiz.IsPublic,
		quiz.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return err
	}

	if err := setTags(ctx, tx, quiz.ID, quiz.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) QuizByID(ctx context.Context, id string) (quizgenie.Quiz, error) {
	var q quizgenie.Quiz
	var content, quizType, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, quiz_content, quiz_type, title, description,
			difficulty, is_public, plays, rating, created_at
		FROM quizzes WHERE id = ?
	`, id).Scan(&q.ID, &q.OwnerID, &content, &quizType, &q.Title, &q.Description,
		&q.Difficulty, &q.IsPublic, &q.Plays, &q.Rating, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return q, ErrNotFound
	}
	if err != nil {
		return q, err
	}

	q.Type = quizgenie.QuizType(quizType)
	q.CreatedAt = parseTimestamp(createdAt)
	if err := json.Unmarshal([]byte(content), &q.Questions); err != nil {
		return q, fmt.Errorf("decoding questions for quiz %s: %w", id, err)
	}
	q.Tags, err = s.quizTags(ctx, id)
	return q, err
}

func (s *SQLiteStore) UpdateQuiz(ctx context.Context, quiz quizgenie.Quiz) error {
	content, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("encoding questions: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE quizzes
		SET title = ?, description = ?, difficulty = ?, is_public = ?, quiz_content = ?
		WHERE id = ?
	`, quiz.Title, quiz.Description, quiz.Difficulty, quiz.IsPublic, string(content), quiz.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if err := setTags(ctx, tx, quiz.ID, quiz.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) DeleteQuiz(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListPublic(ctx context.Context, f ListFilter) ([]QuizSummary, error) {
	query := `
		SELECT id, title, description, difficulty, plays, rating, created_at,
			is_public, quiz_content
		FROM quizzes WHERE is_public = 1`
	var args []any

	if f.Search != "" {
		query += ` AND (lower(title) LIKE ? OR lower(description) LIKE ?)`
		pattern := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, pattern, pattern)
	}
	if f.Difficulty != "" {
		query += ` AND difficulty = ?`
		args = append(args, f.Difficulty)
	}

	// Category and tags both match against tag names: a quiz's category is
	// its first tag.
	tags := f.Tags
	if f.Category != "" {
		tags = append(tags, f.Category)
	}
	for _, tag := range tags {
		query += ` AND EXISTS (
			SELECT 1 FROM quiz_tags qt JOIN tags t ON t.id = qt.tag_id
			WHERE qt.quiz_id = quizzes.id AND t.name = ?)`
		args = append(args, strings.ToLower(strings.TrimSpace(tag)))
	}

	switch f.Sort {
	case "newest":
		query += ` ORDER BY created_at DESC`
	case "top-rated":
		query += ` ORDER BY rating DESC`
	default: // trending
		query += ` ORDER BY plays DESC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []QuizSummary{}
	for rows.Next() {
		var sum QuizSummary
		var createdAt, content string
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Description, &sum.Difficulty,
			&sum.Plays, &sum.Rating, &createdAt, &sum.IsPublic, &content); err != nil {
			return nil, err
		}
		sum.CreatedAt = parseTimestamp(createdAt)
		sum.QuestionCount = questionCount(content)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range summaries {
		if summaries[i].Tags, err = s.quizTags(ctx, summaries[i].ID); err != nil {
			return nil, err
		}
		if len(summaries[i].Tags) > 0 {
			summaries[i].Category = summaries[i].Tags[0]
		} else {
			summaries[i].Category = "General"
		}
	}
	return summaries, nil
}

func (s *SQLiteStore) QuizzesByOwner(ctx context.Context, userID int64) ([]quizgenie.Quiz, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, quiz_content, quiz_type, title, description,
			difficulty, is_public, plays, rating, created_at
		FROM quizzes WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := []quizgenie.Quiz{}
	for rows.Next() {
		var q quizgenie.Quiz
		var content, quizType, createdAt string
		if err := rows.Scan(&q.ID, &q.OwnerID, &content, &quizType, &q.Title,
			&q.Description, &q.Difficulty, &q.IsPublic, &q.Plays, &q.Rating, &createdAt); err != nil {
			return nil, err
		}
		q.Type = quizgenie.QuizType(quizType)
		q.CreatedAt = parseTimestamp(createdAt)
		if err := json.Unmarshal([]byte(content), &q.Questions); err != nil {
			// Unparseable content should not take down the whole dashboard.
			q.Questions = nil
		}
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range quizzes {
		if quizzes[i].Tags, err = s.quizTags(ctx, quizzes[i].ID); err != nil {
			return nil, err
		}
	}
	return quizzes, nil
}

func (s *SQLiteStore) RecordAttempt(ctx context.Context, attempt quizgenie.Attempt) (int64, int, float64, error) {
	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return 0, 0, 0, err
	}
	details, err := json.Marshal(attempt.Details)
	if err != nil {
		return 0, 0, 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, 0, err
	}
	defer tx.Rollback()

	var attemptID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO attempts (user_id, quiz_id, score, correct_answers,
			total_questions, time_spent, completed_at, user_answers, details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, attempt.UserID, attempt.QuizID, attempt.Score, attempt.CorrectAnswers,
		attempt.TotalQuestions, attempt.TimeSpent,
		attempt.CompletedAt.UTC().Format(time.RFC3339Nano),
		string(answers), string(details)).Scan(&attemptID)
	if err != nil {
		return 0, 0, 0, err
	}

	// Rating is a running average: each submission folds its score in.
	var plays int
	var rating float64
	err = tx.QueryRowContext(ctx, `
		UPDATE quizzes
		SET plays = plays + 1,
			rating = CASE WHEN rating > 0 THEN (rating + ?) / 2 ELSE ? END
		WHERE id = ?
		RETURNING plays, rating
	`, attempt.Score, attempt.Score, attempt.QuizID).Scan(&plays, &rating)
	if err != nil {
		return 0, 0, 0, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET total_score = total_score + ? WHERE id = ?
	`, attempt.Score, attempt.UserID)
	if err != nil {
		return 0, 0, 0, err
	}

	return attemptID, plays, rating, tx.Commit()
}

func (s *SQLiteStore) AttemptsByQuiz(ctx context.Context, quizID string, limit int) ([]AttemptWithUser, error) {
	query := `
		SELECT a.id, a.user_id, a.quiz_id, a.score, a.correct_answers,
			a.total_questions, a.time_spent, a.completed_at,
			COALESCE(u.username, 'Anonymous')
		FROM attempts a LEFT JOIN users u ON u.id = a.user_id
		WHERE a.quiz_id = ?
		ORDER BY a.completed_at DESC`
	args := []any{quizID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := []AttemptWithUser{}
	for rows.Next() {
		var a AttemptWithUser
		var completedAt string
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Score, &a.CorrectAnswers,
			&a.TotalQuestions, &a.TimeSpent, &completedAt, &a.Username); err != nil {
			return nil, err
		}
		a.CompletedAt = parseTimestamp(completedAt)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (s *SQLiteStore) AttemptsByUserAndQuiz(ctx context.Context, userID int64, quizID string) ([]quizgenie.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, quiz_id, score, correct_answers, total_questions,
			time_spent, completed_at, user_answers, details
		FROM attempts
		WHERE user_id = ? AND quiz_id = ?
		ORDER BY completed_at DESC
	`, userID, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := []quizgenie.Attempt{}
	for rows.Next() {
		var a quizgenie.Attempt
		var completedAt string
		var answers, details sql.NullString
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Score, &a.CorrectAnswers,
			&a.TotalQuestions, &a.TimeSpent, &completedAt, &answers, &details); err != nil {
			return nil, err
		}
		a.CompletedAt = parseTimestamp(completedAt)
		if answers.Valid {
			json.Unmarshal([]byte(answers.String), &a.Answers)
		}
		if details.Valid {
			json.Unmarshal([]byte(details.String), &a.Details)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (s *SQLiteStore) TakenQuizzes(ctx context.Context, userID int64) ([]TakenQuiz, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.score, a.correct_answers, a.total_questions, a.time_spent,
			a.completed_at,
			q.id, q.title, q.description, q.difficulty, q.quiz_type, q.quiz_content,
			q.rating, q.plays, q.created_at,
			COALESCE(u.username, 'System')
		FROM attempts a
		JOIN quizzes q ON q.id = a.quiz_id
		LEFT JOIN users u ON u.id = q.user_id
		WHERE a.user_id = ?
		ORDER BY a.completed_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taken := []TakenQuiz{}
	for rows.Next() {
		var t TakenQuiz
		var completedAt, quizCreatedAt, content string
		if err := rows.Scan(&t.AttemptID, &t.Score, &t.CorrectAnswers, &t.TotalQuestions,
			&t.TimeSpent, &completedAt,
			&t.QuizID, &t.Title, &t.Description, &t.Difficulty, &t.QuizType, &content,
			&t.Rating, &t.Plays, &quizCreatedAt, &t.Creator); err != nil {
			return nil, err
		}
		t.CompletedAt = parseTimestamp(completedAt)
		t.QuizCreatedAt = parseTimestamp(quizCreatedAt)
		t.QuestionCount = questionCount(content)
		taken = append(taken, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range taken {
		if taken[i].Tags, err = s.quizTags(ctx, taken[i].QuizID); err != nil {
			return nil, err
		}
		if len(taken[i].Tags) > 0 {
			taken[i].Category = taken[i].Tags[0]
		} else {
			taken[i].Category = "General"
		}
	}
	return taken, nil
}

func (s *SQLiteStore) RecentAttempts(ctx context.Context, userID int64, limit int) ([]RecentAttempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.quiz_id, COALESCE(q.title, 'Deleted Quiz'), a.score,
			a.completed_at, a.time_spent
		FROM attempts a LEFT JOIN quizzes q ON q.id = a.quiz_id
		WHERE a.user_id = ?
		ORDER BY a.completed_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := []RecentAttempt{}
	for rows.Next() {
		var a RecentAttempt
		var completedAt string
		if err := rows.Scan(&a.ID, &a.QuizID, &a.QuizTitle, &a.Score, &completedAt, &a.TimeSpent); err != nil {
			return nil, err
		}
		a.CompletedAt = parseTimestamp(completedAt)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (s *SQLiteStore) QuizAverageScore(ctx context.Context, quizID string) (float64, error) {
	var avg float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(score), 0) FROM attempts WHERE quiz_id = ?
	`, quizID).Scan(&avg)
	return avg, err
}

func (s *SQLiteStore) GlobalStats(ctx context.Context) (GlobalStats, error) {
	var g GlobalStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(DISTINCT user_id) FROM attempts),
			(SELECT COUNT(*) FROM quizzes),
			(SELECT COALESCE(SUM(total_questions), 0) FROM attempts),
			(SELECT COALESCE(AVG(score), 0) FROM attempts)
	`).Scan(&g.ActiveLearners, &g.QuizzesCreated, &g.QuestionsAnswered, &g.SuccessRate)
	return g, err
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) quizTags(ctx context.Context, quizID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name FROM quiz_tags qt
		JOIN tags t ON t.id = qt.tag_id
		WHERE qt.quiz_id = ?
		ORDER BY qt.rowid
	`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func setTags(ctx context.Context, tx *sql.Tx, quizID string, tags []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM quiz_tags WHERE quiz_id = ?`, quizID); err != nil {
		return err
	}
	for _, raw := range tags {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO quiz_tags (quiz_id, tag_id)
			SELECT ?, id FROM tags WHERE name = ?
		`, quizID, name); err != nil {
			return err
		}
	}
	return nil
}

func questionCount(content string) int {
	var questions []json.RawMessage
	if err := json.Unmarshal([]byte(content), &questions); err != nil {
		return 0
	}
	return len(questions)
}

// parseTimestamp reads the RFC 3339 timestamps sqlite and the store write.
// A zero time is returned for anything unparseable rather than failing a
// whole listing.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
