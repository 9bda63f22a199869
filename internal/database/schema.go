package database

var schema = []string{
	`CREATE TABLE IF NOT EXISTS admin_users (
		id            BIGSERIAL PRIMARY KEY,
		login_id      VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS ads (
		id           BIGSERIAL PRIMARY KEY,
		ad_type      VARCHAR(16) NOT NULL DEFAULT 'IMAGE' CHECK (ad_type IN ('IMAGE', 'IFRAME')),
		title        VARCHAR(255) NOT NULL,
		description  TEXT,
		image_url    VARCHAR(500),
		target_url   VARCHAR(1000),
		short_url    VARCHAR(500),
		embed_src    VARCHAR(1000),
		embed_width  INTEGER,
		embed_height INTEGER,
		is_active    BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ads_active_created ON ads (is_active, created_at DESC)`,
}
