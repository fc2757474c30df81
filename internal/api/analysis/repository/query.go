package analysisRepository

const (
	queryCreateAnalysis = `
		INSERT INTO face_analyses (
			id,
			age,
			gender,
			emotion,
			ethnicity,
			dominant_gender,
			dominant_emotion,
			dominant_race,
			box_x,
			box_y,
			box_w,
			box_h,
			created_at
		) VALUES (
			:id,
			:age,
			:gender,
			:emotion,
			:ethnicity,
			:dominant_gender,
			:dominant_emotion,
			:dominant_race,
			:box_x,
			:box_y,
			:box_w,
			:box_h,
			:created_at
		)
	`

	queryGetAnalyses = `
		SELECT
			id,
			age,
			gender,
			emotion,
			ethnicity,
			dominant_gender,
			dominant_emotion,
			dominant_race,
			box_x,
			box_y,
			box_w,
			box_h,
			created_at
		FROM face_analyses
		ORDER BY created_at DESC, id DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountAnalyses = `
		SELECT COUNT(*) FROM face_analyses
	`

	queryCountByEmotion = `
		SELECT emotion AS label, COUNT(*) AS total
		FROM face_analyses
		GROUP BY emotion
	`

	queryCountByEthnicity = `
		SELECT ethnicity AS label, COUNT(*) AS total
		FROM face_analyses
		GROUP BY ethnicity
	`
)
