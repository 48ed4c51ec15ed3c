package db

const (
	// SchemaV1 creates the moodlogdb tables: raw check-ins, their activity
	// tags, and one summary row per (user_id, summary_date).
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS moodlog_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS checkins (
    id UUID PRIMARY KEY,
    user_id VARCHAR(128) NOT NULL,
    feelings VARCHAR(64) NOT NULL,
    emotion_intensity INTEGER NOT NULL CHECK (emotion_intensity BETWEEN 0 AND 100),
    notes TEXT NOT NULL DEFAULT '',
    created_at REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checkins_user_created ON checkins (user_id, created_at);

CREATE TABLE IF NOT EXISTS activities (
    activity VARCHAR(256) PRIMARY KEY,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS checkin_activities (
    checkin_id UUID NOT NULL REFERENCES checkins(id) ON DELETE CASCADE,
    activity VARCHAR(256) NOT NULL REFERENCES activities(activity) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    PRIMARY KEY (checkin_id, activity)
);

CREATE TABLE IF NOT EXISTS daily_summaries (
    id UUID PRIMARY KEY,
    user_id VARCHAR(128) NOT NULL,
    summary_date CHAR(10) NOT NULL,
    emotional_state VARCHAR(16) NOT NULL,
    band VARCHAR(16) NOT NULL,
    emotional_score INTEGER NOT NULL CHECK (emotional_score BETWEEN -100 AND 100),
    color_code VARCHAR(16) NOT NULL,
    total_entries INTEGER NOT NULL,
    ai_analysis TEXT NOT NULL,
    ai_insights TEXT NOT NULL DEFAULT '[]',
    ai_recommendations TEXT NOT NULL DEFAULT '[]',
    ai_daily_tips TEXT NOT NULL DEFAULT '[]',
    ai_motivational_message TEXT NOT NULL,
    ai_warning_flags TEXT NOT NULL DEFAULT '[]',
    insight_source VARCHAR(16) NOT NULL,
    created_at REAL NOT NULL,
    updated_at REAL NOT NULL,
    UNIQUE (user_id, summary_date)
);
`
)

// migrations maps a schema version to the SQL that brings the previous
// version up to it. Version 1 is the initial schema.
var migrations = map[int64]string{
	1: SchemaV1,
}
