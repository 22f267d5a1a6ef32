package comment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) videoExists(ctx context.Context, videoID int64) error {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM videos WHERE id = $1`, videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVideoNotFound
	}
	return err
}

func (r *Repository) Create(ctx context.Context, c *Comment) error {
	if err := r.videoExists(ctx, c.VideoID); err != nil {
		return err
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO comments (user_id, video_id, content, approved)
		VALUES ($1, $2, $3, false)
		RETURNING id, approved, created_at, updated_at
	`, c.UserID, c.VideoID, c.Content).
		Scan(&c.ID, &c.Approved, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("comment repository create: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Comment, error) {
	var c Comment
	err := r.db.GetContext(ctx, &c, `
		SELECT c.id, c.user_id, c.video_id, c.content, c.approved,
		       c.created_at, c.updated_at, u.name AS user_name
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListApprovedByVideo returns a page of approved comments with replies
func (r *Repository) ListApprovedByVideo(ctx context.Context, videoID int64, limit, offset int) ([]Comment, error) {
	if err := r.videoExists(ctx, videoID); err != nil {
		return nil, err
	}

	comments := []Comment{}
	err := r.db.SelectContext(ctx, &comments, `
		SELECT c.id, c.user_id, c.video_id, c.content, c.approved,
		       c.created_at, c.updated_at, u.name AS user_name
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.video_id = $1 AND c.approved
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`, videoID, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return comments, nil
	}

	ids := make([]int64, len(comments))
	index := make(map[int64]int, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
		index[comments[i].ID] = i
		comments[i].Replies = []Reply{}
	}

	replies := []Reply{}
	err = r.db.SelectContext(ctx, &replies, `
		SELECT cr.id, cr.comment_id, cr.user_id, cr.content, cr.created_at,
		       u.name AS user_name
		FROM comment_replies cr
		LEFT JOIN users u ON u.id = cr.user_id
		WHERE cr.comment_id = ANY($1)
		ORDER BY cr.created_at
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	for _, reply := range replies {
		if i, ok := index[reply.CommentID]; ok {
			comments[i].Replies = append(comments[i].Replies, reply)
		}
	}

	return comments, nil
}

func (r *Repository) CountApprovedByVideo(ctx context.Context, videoID int64) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT count(*) FROM comments WHERE video_id = $1 AND approved`, videoID)
	return total, err
}

func (r *Repository) Update(ctx context.Context, id int64, content string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET content = $1, updated_at = now() WHERE id = $2`,
		content, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *Repository) CreateReply(ctx context.Context, reply *Reply) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO comment_replies (comment_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, reply.CommentID, reply.UserID, reply.Content).
		Scan(&reply.ID, &reply.CreatedAt)
	if err != nil {
		return fmt.Errorf("comment repository create reply: %w", err)
	}
	return nil
}

// ListPending returns comments awaiting moderation, oldest first
func (r *Repository) ListPending(ctx context.Context, limit, offset int) ([]Comment, error) {
	comments := []Comment{}
	err := r.db.SelectContext(ctx, &comments, `
		SELECT c.id, c.user_id, c.video_id, c.content, c.approved,
		       c.created_at, c.updated_at, u.name AS user_name,
		       v.title AS video_title
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id
		LEFT JOIN videos v ON v.id = c.video_id
		WHERE NOT c.approved
		ORDER BY c.created_at
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return comments, err
}

func (r *Repository) CountPending(ctx context.Context) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM comments WHERE NOT approved`)
	return total, err
}

func (r *Repository) Approve(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET approved = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrCommentNotFound
	}
	return nil
}
