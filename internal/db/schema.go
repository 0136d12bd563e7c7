package db

// Schema is the DDL for the folio database. JSON columns hold CMS values
// (images, category arrays, portable-text bodies) verbatim.
const Schema = `
CREATE TABLE IF NOT EXISTS authors (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    slug        TEXT,
    image       TEXT,
    bio         TEXT,
    synced_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
    id            TEXT PRIMARY KEY,
    slug          TEXT NOT NULL,
    title         TEXT NOT NULL,
    featured      INTEGER DEFAULT 0,
    main_image    TEXT,
    categories    TEXT,
    description   TEXT,
    body          TEXT,
    github_link   TEXT,
    live_link     TEXT,
    technologies  TEXT,
    synced_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS posts (
    id            TEXT PRIMARY KEY,
    slug          TEXT NOT NULL,
    title         TEXT NOT NULL,
    featured      INTEGER DEFAULT 0,
    author_id     TEXT,
    main_image    TEXT,
    categories    TEXT,
    published_at  TEXT,
    excerpt       TEXT,
    body          TEXT,
    reading_time  TEXT,
    synced_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS skills (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    slug           TEXT,
    icon           TEXT,
    proficiency    INTEGER NOT NULL DEFAULT 0,
    category       TEXT,
    description    TEXT,
    display_order  INTEGER NOT NULL DEFAULT 100,
    synced_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS contact_messages (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL,
    subject       TEXT NOT NULL,
    message       TEXT NOT NULL,
    remote_addr   TEXT,
    user_agent    TEXT,
    created_at    TEXT NOT NULL,
    notified_at   TEXT,
    notify_error  TEXT
);

CREATE INDEX IF NOT EXISTS idx_projects_slug ON projects(slug);
CREATE INDEX IF NOT EXISTS idx_posts_slug ON posts(slug);
CREATE INDEX IF NOT EXISTS idx_posts_published ON posts(published_at DESC);
CREATE INDEX IF NOT EXISTS idx_skills_proficiency ON skills(proficiency DESC);
CREATE INDEX IF NOT EXISTS idx_contact_created ON contact_messages(created_at DESC);
`
