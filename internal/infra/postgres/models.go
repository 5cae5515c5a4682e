package postgres

import (
	"time"

	"cybercase-service/internal/domain"

	"github.com/uptrace/bun"
)

// Row types mirror the schema exactly; columns absent from a scan fail loudly
// instead of defaulting. Conversion to domain types happens here and nowhere
// else.

type userRow struct {
	bun.BaseModel `bun:"table:users"`

	ID              string    `bun:"id,pk"`
	Username        string    `bun:"username"`
	Email           string    `bun:"email,notnull"`
	HashedPassword  string    `bun:"hashed_password,notnull"`
	LastScore       int       `bun:"last_score"`
	LastBadge       string    `bun:"last_badge"`
	LastAttemptTime time.Time `bun:"last_attempt_time,nullzero"`
	LastQuestionIDs []int64   `bun:"last_questions,type:jsonb"`
	CreatedAt       time.Time `bun:"created_at,nullzero,default:now()"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:              r.ID,
		Username:        r.Username,
		Email:           r.Email,
		HashedPassword:  r.HashedPassword,
		LastScore:       r.LastScore,
		LastBadge:       r.LastBadge,
		LastAttemptTime: r.LastAttemptTime,
		LastQuestionIDs: r.LastQuestionIDs,
		CreatedAt:       r.CreatedAt,
	}
}

func userRowFrom(u domain.User) userRow {
	return userRow{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		HashedPassword:  u.HashedPassword,
		LastScore:       u.LastScore,
		LastBadge:       u.LastBadge,
		LastAttemptTime: u.LastAttemptTime,
		LastQuestionIDs: u.LastQuestionIDs,
		CreatedAt:       u.CreatedAt,
	}
}

type attemptRow struct {
	bun.BaseModel `bun:"table:attempts"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      string    `bun:"user_id,notnull"`
	Score       int       `bun:"score"`
	Total       int       `bun:"total"`
	SubmittedAt time.Time `bun:"submitted_at,notnull"`
	QuestionIDs []int64   `bun:"question_ids,type:jsonb"`
}

type fileRow struct {
	bun.BaseModel `bun:"table:case_files"`

	ID                int64     `bun:"id,pk"`
	Name              string    `bun:"name,notnull"`
	Type              string    `bun:"type"`
	Size              int64     `bun:"size"`
	Author            string    `bun:"author"`
	Modified          time.Time `bun:"modified,nullzero"`
	Notes             string    `bun:"notes"`
	Content           string    `bun:"content"`
	Path              string    `bun:"path"`
	IsHidden          bool      `bun:"is_hidden"`
	IsMalware         bool      `bun:"is_malware"`
	ContainsSensitive bool      `bun:"contains_sensitive"`
	ParentID          *int64    `bun:"parent_id"`
}

func (r fileRow) toDomain() domain.FileNode {
	return domain.FileNode{
		ID:                r.ID,
		Name:              r.Name,
		Type:              r.Type,
		Size:              r.Size,
		Author:            r.Author,
		Modified:          r.Modified,
		Notes:             r.Notes,
		Content:           r.Content,
		Path:              r.Path,
		IsHidden:          r.IsHidden,
		IsMalware:         r.IsMalware,
		ContainsSensitive: r.ContainsSensitive,
		ParentID:          r.ParentID,
	}
}

func fileRowFrom(n domain.FileNode) fileRow {
	return fileRow{
		ID:                n.ID,
		Name:              n.Name,
		Type:              n.Type,
		Size:              n.Size,
		Author:            n.Author,
		Modified:          n.Modified,
		Notes:             n.Notes,
		Content:           n.Content,
		Path:              n.Path,
		IsHidden:          n.IsHidden,
		IsMalware:         n.IsMalware,
		ContainsSensitive: n.ContainsSensitive,
		ParentID:          n.ParentID,
	}
}

type metadataRow struct {
	bun.BaseModel `bun:"table:hidden_metadata"`

	NodeID int64             `bun:"node_id,pk"`
	Data   map[string]string `bun:"data,type:jsonb"`
}

type drillRow struct {
	bun.BaseModel `bun:"table:drill_levels"`

	ID          int64  `bun:"id,pk"`
	Title       string `bun:"title,notnull"`
	Description string `bun:"description,notnull"`
	Hint        string `bun:"hint"`
	Solution    string `bun:"solution,notnull"`
}

func (r drillRow) toDomain() domain.DrillLevel {
	return domain.DrillLevel{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Hint:        r.Hint,
		Solution:    r.Solution,
	}
}

type missionRow struct {
	bun.BaseModel `bun:"table:mission_scores"`

	UserID string `bun:"user_id,pk"`
	Score  int    `bun:"score"`
	Status string `bun:"status"`
}
