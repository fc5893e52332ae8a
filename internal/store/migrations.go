package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
//
// Categories, tags, and todos are keyed by (user_id, id) so that the
// seeded default ids and locally generated ids never collide across
// users. The todo_tags link table carries user_id too: todo ids are only
// unique per user, so an unscoped link row would be shared between users
// holding the same todo id. Referential cleanup (category null-out, tag
// unlink) runs as explicit scoped statements in the delete paths, since
// SQLite cannot express a per-user SET NULL cascade over a composite key.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	migrated   INTEGER NOT NULL DEFAULT 0 CHECK(migrated IN (0, 1)),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS categories (
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	id         TEXT NOT NULL,
	name       TEXT NOT NULL,
	icon       TEXT NOT NULL DEFAULT '',
	color      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS tags (
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	id         TEXT NOT NULL,
	name       TEXT NOT NULL,
	color      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS todos (
	user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	id          TEXT NOT NULL,
	title       TEXT NOT NULL,
	completed   INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	category_id TEXT,
	position    INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS todo_tags (
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	todo_id TEXT NOT NULL,
	tag_id  TEXT NOT NULL,
	PRIMARY KEY (user_id, todo_id, tag_id)
);

CREATE INDEX IF NOT EXISTS idx_todos_user_position ON todos(user_id, position);
CREATE INDEX IF NOT EXISTS idx_todos_category_id ON todos(user_id, category_id);
CREATE INDEX IF NOT EXISTS idx_todo_tags_tag_id ON todo_tags(user_id, tag_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
