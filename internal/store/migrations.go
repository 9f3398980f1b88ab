package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id          INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	is_active   INTEGER NOT NULL DEFAULT 1,
	updated_at  TEXT NOT NULL DEFAULT '',
	payload     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id          INTEGER PRIMARY KEY,
	task_id     INTEGER NOT NULL,
	status      TEXT NOT NULL DEFAULT 'pending',
	provider    TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL DEFAULT '',
	payload     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_task_id ON notifications(task_id);
CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications(created_at);
`,
	},
}
