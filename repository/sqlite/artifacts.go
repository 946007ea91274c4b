package sqlite

import (
	"context"
	"database/sql"
	"time"

	"capsule/errors"
	"capsule/models"
	"capsule/repository"
)

func (r *Repository) SaveTranscript(ctx context.Context, t *models.Transcript) error {
	const op = "SQLiteRepository.SaveTranscript"

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO transcripts (video_id, full_text, language, created_at) VALUES (?, ?, ?, ?)",
		t.VideoID, t.FullText, t.Language, t.CreatedAt,
	)
	if err != nil {
		return errors.Internal(op, err, "Failed to save transcript")
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return errors.Internal(op, err, "Failed to read transcript id")
	}
	return nil
}

// SaveSegments writes the whole batch in one transaction. Segments are
// produced once, right after the transcript, and never mutated.
func (r *Repository) SaveSegments(ctx context.Context, segments []*models.TranscriptSegment) error {
	const op = "SQLiteRepository.SaveSegments"

	if len(segments) == 0 {
		return nil
	}

	err := WithTransaction(ctx, r.db, func(tx Executor) error {
		for _, seg := range segments {
			res, err := tx.ExecContext(ctx, `
                INSERT INTO transcript_segments
                    (transcript_id, text, start_time, end_time, speaker, confidence)
                VALUES (?, ?, ?, ?, ?, ?)`,
				seg.TranscriptID, seg.Text, seg.StartTime, seg.EndTime,
				nullString(seg.Speaker), seg.Confidence,
			)
			if err != nil {
				return err
			}
			if seg.ID, err = res.LastInsertId(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Internal(op, err, "Failed to save transcript segments")
	}
	return nil
}

func (r *Repository) SaveSummaries(ctx context.Context, summaries []*models.Summary) error {
	const op = "SQLiteRepository.SaveSummaries"

	if len(summaries) == 0 {
		return nil
	}

	err := WithTransaction(ctx, r.db, func(tx Executor) error {
		for _, s := range summaries {
			if s.CreatedAt.IsZero() {
				s.CreatedAt = time.Now()
			}
			res, err := tx.ExecContext(ctx, `
                INSERT INTO summaries (video_id, tier, content, word_count, created_at)
                VALUES (?, ?, ?, ?, ?)`,
				s.VideoID, string(s.Tier), s.Content, s.WordCount, s.CreatedAt,
			)
			if err != nil {
				return err
			}
			if s.ID, err = res.LastInsertId(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Internal(op, err, "Failed to save summaries")
	}
	return nil
}

func (r *Repository) SaveQuotes(ctx context.Context, quotes []*models.Quote) error {
	const op = "SQLiteRepository.SaveQuotes"

	if len(quotes) == 0 {
		return nil
	}

	err := WithTransaction(ctx, r.db, func(tx Executor) error {
		for _, q := range quotes {
			if q.CreatedAt.IsZero() {
				q.CreatedAt = time.Now()
			}
			res, err := tx.ExecContext(ctx, `
                INSERT INTO quotes
                    (video_id, text, start_time, end_time, speaker, quote_type, relevance_score, created_at)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				q.VideoID, q.Text, q.StartTime, q.EndTime,
				nullString(q.Speaker), q.QuoteType, q.RelevanceScore, q.CreatedAt,
			)
			if err != nil {
				return err
			}
			if q.ID, err = res.LastInsertId(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Internal(op, err, "Failed to save quotes")
	}
	return nil
}

func (r *Repository) FindTranscript(ctx context.Context, videoID string) (*models.Transcript, error) {
	const op = "SQLiteRepository.FindTranscript"

	t := &models.Transcript{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, video_id, full_text, language, created_at FROM transcripts WHERE video_id = ?",
		videoID,
	).Scan(&t.ID, &t.VideoID, &t.FullText, &t.Language, &t.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Transcript not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query transcript")
	}
	return t, nil
}

func (r *Repository) FindSegments(ctx context.Context, transcriptID int64) ([]*models.TranscriptSegment, error) {
	const op = "SQLiteRepository.FindSegments"

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, transcript_id, text, start_time, end_time, speaker, confidence
        FROM transcript_segments WHERE transcript_id = ? ORDER BY start_time`,
		transcriptID,
	)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query segments")
	}
	defer rows.Close()

	var segments []*models.TranscriptSegment
	for rows.Next() {
		seg := &models.TranscriptSegment{}
		var speaker sql.NullString
		if err := rows.Scan(&seg.ID, &seg.TranscriptID, &seg.Text,
			&seg.StartTime, &seg.EndTime, &speaker, &seg.Confidence); err != nil {
			return nil, errors.Internal(op, err, "Failed to scan segment row")
		}
		seg.Speaker = speaker.String
		segments = append(segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, err, "Failed to iterate segment rows")
	}
	return segments, nil
}

func (r *Repository) FindSummaries(ctx context.Context, videoID string) ([]*models.Summary, error) {
	const op = "SQLiteRepository.FindSummaries"

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, video_id, tier, content, word_count, created_at
        FROM summaries WHERE video_id = ? ORDER BY id`,
		videoID,
	)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query summaries")
	}
	defer rows.Close()

	var summaries []*models.Summary
	for rows.Next() {
		s := &models.Summary{}
		var tier string
		if err := rows.Scan(&s.ID, &s.VideoID, &tier, &s.Content, &s.WordCount, &s.CreatedAt); err != nil {
			return nil, errors.Internal(op, err, "Failed to scan summary row")
		}
		s.Tier = models.SummaryTier(tier)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, err, "Failed to iterate summary rows")
	}
	return summaries, nil
}

func (r *Repository) FindQuotes(ctx context.Context, videoID string) ([]*models.Quote, error) {
	const op = "SQLiteRepository.FindQuotes"

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, video_id, text, start_time, end_time, speaker, quote_type, relevance_score, created_at
        FROM quotes WHERE video_id = ? ORDER BY relevance_score DESC, id`,
		videoID,
	)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query quotes")
	}
	defer rows.Close()

	var quotes []*models.Quote
	for rows.Next() {
		q := &models.Quote{}
		var speaker sql.NullString
		if err := rows.Scan(&q.ID, &q.VideoID, &q.Text, &q.StartTime, &q.EndTime,
			&speaker, &q.QuoteType, &q.RelevanceScore, &q.CreatedAt); err != nil {
			return nil, errors.Internal(op, err, "Failed to scan quote row")
		}
		q.Speaker = speaker.String
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, err, "Failed to iterate quote rows")
	}
	return quotes, nil
}

// DeleteDerived clears artifacts from earlier processing attempts so a
// re-run starts from a clean slate. Children go before their parents.
func (r *Repository) DeleteDerived(ctx context.Context, videoID string) (repository.DeletionCounts, error) {
	const op = "SQLiteRepository.DeleteDerived"

	var counts repository.DeletionCounts
	err := WithTransaction(ctx, r.db, func(tx Executor) error {
		return r.deleteDerivedTx(ctx, tx, videoID, &counts)
	})
	if err != nil {
		return counts, errors.Internal(op, err, "Failed to delete derived rows")
	}
	return counts, nil
}

func (r *Repository) DeleteVideoCascade(ctx context.Context, videoID string) (repository.DeletionCounts, error) {
	const op = "SQLiteRepository.DeleteVideoCascade"

	var counts repository.DeletionCounts
	err := WithTransaction(ctx, r.db, func(tx Executor) error {
		if err := r.deleteDerivedTx(ctx, tx, videoID, &counts); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM videos WHERE id = ?", videoID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if err == nil {
		return counts, nil
	}
	if err == sql.ErrNoRows {
		return counts, errors.NotFound(op, nil, "Video not found")
	}
	return counts, errors.Internal(op, err, "Failed to delete video")
}

func (r *Repository) deleteDerivedTx(
	ctx context.Context,
	tx Executor,
	videoID string,
	counts *repository.DeletionCounts,
) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM quotes WHERE video_id = ?", videoID)
	if err != nil {
		return err
	}
	counts.Quotes, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, "DELETE FROM summaries WHERE video_id = ?", videoID)
	if err != nil {
		return err
	}
	counts.Summaries, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, `
        DELETE FROM transcript_segments
        WHERE transcript_id IN (SELECT id FROM transcripts WHERE video_id = ?)`,
		videoID,
	)
	if err != nil {
		return err
	}
	counts.Segments, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, "DELETE FROM transcripts WHERE video_id = ?", videoID)
	if err != nil {
		return err
	}
	counts.Transcripts, _ = res.RowsAffected()

	return nil
}
