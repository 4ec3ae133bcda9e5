package model

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/thep200/repo-profiler/cfg"
	"github.com/thep200/repo-profiler/pkg/db"
	"github.com/thep200/repo-profiler/pkg/log"
)

// ProfileRecord is the MySQL row of a finished profile, keyed by repository url
type ProfileRecord struct {
	Model
	ID             uint           `json:"id" gorm:"column:id;primaryKey"`
	Url            string         `json:"url" gorm:"column:url;type:varchar(512);uniqueIndex;not null"`
	User           string         `json:"user" gorm:"column:user;type:varchar(255);not null"`
	NPyFiles       int            `json:"n_pyfiles" gorm:"column:n_pyfiles;default:0"`
	CodeLines      int            `json:"code_lines" gorm:"column:code_lines;default:0"`
	CommentLines   int            `json:"comment_lines" gorm:"column:comment_lines;default:0"`
	DocstringLines int            `json:"docstring_lines" gorm:"column:docstring_lines;default:0"`
	TestLines      int            `json:"test_lines" gorm:"column:test_lines;default:0"`
	ReadmeLines    int            `json:"readme_lines" gorm:"column:readme_lines;default:0"`
	NCommits       int            `json:"n_commits" gorm:"column:n_commits;default:0"`
	CommitsPerTime float64        `json:"commits_per_time" gorm:"column:commits_per_time;default:0"`
	NStars         int            `json:"n_stars" gorm:"column:n_stars;default:0"`
	NForks         int            `json:"n_forks" gorm:"column:n_forks;default:0"`
	StyleErrors    map[string]int `json:"style_errors" gorm:"column:style_errors;type:text;serializer:json"`
	CommitHistory  []time.Time    `json:"commit_history" gorm:"column:commit_history;type:mediumtext;serializer:json"`
	CreatedAt      time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;not null"`
}

func NewProfileRecord(config *cfg.Config, logger log.Logger, db *db.Mysql) (*ProfileRecord, error) {
	record := &ProfileRecord{
		Model: Model{
			Config: config,
			Logger: logger,
			Mysql:  db,
		},
	}
	return record, nil
}

func (r *ProfileRecord) TableName() string {
	return "profiles"
}

// FromProfile copies p into a record ready to be written
func FromProfile(p *Profile) *ProfileRecord {
	msg := NewProfileMessage(p)
	now := time.Now()
	return &ProfileRecord{
		Url:            TruncateString(msg.Url, 512),
		User:           TruncateString(msg.User, 250),
		NPyFiles:       msg.NPyFiles,
		CodeLines:      msg.CodeLines,
		CommentLines:   msg.CommentLines,
		DocstringLines: msg.DocstringLines,
		TestLines:      msg.TestLines,
		ReadmeLines:    msg.ReadmeLines,
		NCommits:       msg.NCommits,
		CommitsPerTime: msg.CommitsPerTime,
		NStars:         msg.NStars,
		NForks:         msg.NForks,
		StyleErrors:    msg.StyleErrors,
		CommitHistory:  msg.CommitHistory,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

var upsertColumns = []string{
	"user", "n_pyfiles", "code_lines", "comment_lines", "docstring_lines", "test_lines",
	"readme_lines", "n_commits", "commits_per_time", "n_stars", "n_forks",
	"style_errors", "commit_history", "updated_at",
}

// Save upserts the profiles on url
func (r *ProfileRecord) Save(ctx context.Context, profiles ...*Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	db, err := r.Mysql.Db()
	if err != nil {
		r.Logger.Error(ctx, "Failed to get database connection: %v", err)
		return err
	}

	records := make([]*ProfileRecord, 0, len(profiles))
	for _, p := range profiles {
		records = append(records, FromProfile(p))
	}

	if err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).CreateInBatches(records, 100).Error; err != nil {
		return fmt.Errorf("failed to save %d profiles: %w", len(records), err)
	}

	r.Logger.Info(ctx, "Saved %d profiles", len(records))
	return nil
}
