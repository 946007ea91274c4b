package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"capsule/errors"
	"capsule/models"
)

const (
	saveVideoQuery = `
        INSERT INTO videos (
            id, title, filename, file_path, file_size, duration,
            youtube_url, video_type, status, error, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            filename = excluded.filename,
            file_path = excluded.file_path,
            file_size = excluded.file_size,
            duration = excluded.duration,
            youtube_url = excluded.youtube_url,
            video_type = excluded.video_type,
            status = excluded.status,
            error = excluded.error,
            updated_at = excluded.updated_at
    `

	videoColumns = `
        id, title, filename, file_path, file_size, duration,
        youtube_url, video_type, status, error, created_at, updated_at
    `
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

func (r *Repository) Save(ctx context.Context, video *models.Video) error {
	const op = "SQLiteRepository.Save"

	for i := 0; i < 3; i++ { // Simple retry logic
		err := r.save(ctx, video)
		if err == nil {
			return nil
		}
		if !isLockError(err) {
			return errors.Internal(op, err, "Failed to save video")
		}
		time.Sleep(time.Second * time.Duration(i+1))
	}
	return errors.Internal(op, nil, "Failed after retries")
}

func (r *Repository) save(ctx context.Context, video *models.Video) error {
	_, err := r.db.ExecContext(ctx, saveVideoQuery,
		video.ID,
		video.Title,
		video.Filename,
		video.FilePath,
		video.FileSize,
		video.Duration,
		nullString(video.YouTubeURL),
		nullString(string(video.VideoType)),
		string(video.Status),
		video.Error,
		video.CreatedAt,
		video.UpdatedAt,
	)
	return err
}

func (r *Repository) Find(ctx context.Context, id string) (*models.Video, error) {
	const op = "SQLiteRepository.Find"

	row := r.db.QueryRowContext(ctx, "SELECT "+videoColumns+" FROM videos WHERE id = ?", id)
	video, err := scanVideo(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Video not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query video")
	}
	return video, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]*models.Video, error) {
	const op = "SQLiteRepository.FindAll"

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+videoColumns+" FROM videos ORDER BY created_at DESC")
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query videos")
	}
	defer rows.Close()

	return scanVideos(rows, op)
}

// Search matches against the title and, when a transcript exists, its text.
func (r *Repository) Search(ctx context.Context, query string) ([]*models.Video, error) {
	const op = "SQLiteRepository.Search"

	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := r.db.QueryContext(ctx, `
        SELECT DISTINCT `+videoColumns+`
        FROM videos
        WHERE LOWER(title) LIKE ?
           OR id IN (SELECT video_id FROM transcripts WHERE LOWER(full_text) LIKE ?)
        ORDER BY created_at DESC`,
		pattern, pattern,
	)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to search videos")
	}
	defer rows.Close()

	return scanVideos(rows, op)
}

// UpdateStatus flips status only when the current value is one of `from`.
// The single UPDATE is the compare-and-swap preventing two pipeline runs
// from claiming the same job.
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id string,
	from []models.Status,
	to models.Status,
) (bool, error) {
	const op = "SQLiteRepository.UpdateStatus"

	placeholders := make([]string, len(from))
	args := []interface{}{string(to), time.Now(), id}
	for i, s := range from {
		placeholders[i] = "?"
		args = append(args, string(s))
	}

	query := "UPDATE videos SET status = ?, updated_at = ? WHERE id = ? AND status IN (" +
		strings.Join(placeholders, ",") + ")"

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, errors.Internal(op, err, "Failed to update status")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Internal(op, err, "Failed to read affected rows")
	}
	return n == 1, nil
}

func scanVideo(row *sql.Row) (*models.Video, error) {
	video := &models.Video{}
	var status string
	var youtubeURL, videoType sql.NullString

	err := row.Scan(
		&video.ID,
		&video.Title,
		&video.Filename,
		&video.FilePath,
		&video.FileSize,
		&video.Duration,
		&youtubeURL,
		&videoType,
		&status,
		&video.Error,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	video.Status = models.Status(status)
	video.YouTubeURL = youtubeURL.String
	video.VideoType = models.VideoType(videoType.String)
	return video, nil
}

func scanVideos(rows *sql.Rows, op string) ([]*models.Video, error) {
	var videos []*models.Video
	for rows.Next() {
		video := &models.Video{}
		var status string
		var youtubeURL, videoType sql.NullString

		err := rows.Scan(
			&video.ID,
			&video.Title,
			&video.Filename,
			&video.FilePath,
			&video.FileSize,
			&video.Duration,
			&youtubeURL,
			&videoType,
			&status,
			&video.Error,
			&video.CreatedAt,
			&video.UpdatedAt,
		)
		if err != nil {
			return nil, errors.Internal(op, err, "Failed to scan video row")
		}

		video.Status = models.Status(status)
		video.YouTubeURL = youtubeURL.String
		video.VideoType = models.VideoType(videoType.String)
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, err, "Failed to iterate video rows")
	}
	return videos, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
