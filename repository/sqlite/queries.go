package sqlite

const (
	insertQuery = `
        INSERT INTO outcomes (
            id, input, video_id, success, summary, error, failed_stage,
            transcript_length, input_length, model_name, duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	getQuery = `
        SELECT id, input, video_id, success, summary, error, failed_stage,
               transcript_length, input_length, model_name, duration_ms, created_at
        FROM outcomes WHERE id = ?
    `

	recentQuery = `
        SELECT id, input, video_id, success, summary, error, failed_stage,
               transcript_length, input_length, model_name, duration_ms, created_at
        FROM outcomes
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?
    `
)
