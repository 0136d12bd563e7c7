package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/daviddao/folio/internal/filter"
	"github.com/daviddao/folio/internal/types"
)

// --- Mirror writes ---

// ReplaceProjects upserts projects and deletes mirrored projects that are no
// longer present. Returns the number of deleted rows.
func (d *DB) ReplaceProjects(ctx context.Context, projects []types.Project) (removed int, err error) {
	return d.replace(ctx, "projects", func(tx *sql.Tx, now string) ([]string, error) {
		ids := make([]string, 0, len(projects))
		for _, p := range projects {
			image, err := jsonCol(p.MainImage)
			if err != nil {
				return nil, err
			}
			cats, err := jsonCol(p.Categories)
			if err != nil {
				return nil, err
			}
			body, err := jsonCol(p.Body)
			if err != nil {
				return nil, err
			}
			tech, err := jsonCol(p.Technologies)
			if err != nil {
				return nil, err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO projects
					(id, slug, title, featured, main_image, categories, description, body,
					 github_link, live_link, technologies, synced_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					slug = excluded.slug, title = excluded.title, featured = excluded.featured,
					main_image = excluded.main_image, categories = excluded.categories,
					description = excluded.description, body = excluded.body,
					github_link = excluded.github_link, live_link = excluded.live_link,
					technologies = excluded.technologies, synced_at = excluded.synced_at`,
				p.ID, p.Slug.Current, p.Title, p.Featured, image, cats, nullStr(p.Description), body,
				nullStr(p.GithubLink), nullStr(p.LiveLink), tech, now,
			)
			if err != nil {
				return nil, fmt.Errorf("upsert project %s: %w", p.ID, err)
			}
			ids = append(ids, p.ID)
		}
		return ids, nil
	})
}

// ReplacePosts upserts posts and deletes mirrored posts that are no longer present.
func (d *DB) ReplacePosts(ctx context.Context, posts []types.Post) (removed int, err error) {
	return d.replace(ctx, "posts", func(tx *sql.Tx, now string) ([]string, error) {
		ids := make([]string, 0, len(posts))
		for _, p := range posts {
			image, err := jsonCol(p.MainImage)
			if err != nil {
				return nil, err
			}
			cats, err := jsonCol(p.Categories)
			if err != nil {
				return nil, err
			}
			body, err := jsonCol(p.Body)
			if err != nil {
				return nil, err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO posts
					(id, slug, title, featured, author_id, main_image, categories, published_at,
					 excerpt, body, reading_time, synced_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					slug = excluded.slug, title = excluded.title, featured = excluded.featured,
					author_id = excluded.author_id, main_image = excluded.main_image,
					categories = excluded.categories, published_at = excluded.published_at,
					excerpt = excluded.excerpt, body = excluded.body,
					reading_time = excluded.reading_time, synced_at = excluded.synced_at`,
				p.ID, p.Slug.Current, p.Title, p.Featured, nullStr(p.Author.ID), image, cats,
				nullStr(p.PublishedAt), nullStr(p.Excerpt), body, nullStr(p.ReadingTime), now,
			)
			if err != nil {
				return nil, fmt.Errorf("upsert post %s: %w", p.ID, err)
			}
			ids = append(ids, p.ID)
		}
		return ids, nil
	})
}

// ReplaceSkills upserts skills and deletes mirrored skills that are no longer present.
func (d *DB) ReplaceSkills(ctx context.Context, skills []types.Skill) (removed int, err error) {
	return d.replace(ctx, "skills", func(tx *sql.Tx, now string) ([]string, error) {
		ids := make([]string, 0, len(skills))
		for _, s := range skills {
			icon, err := jsonCol(s.Icon)
			if err != nil {
				return nil, err
			}
			order := s.DisplayOrder
			if order == 0 {
				order = types.DefaultDisplayOrder
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO skills
					(id, name, slug, icon, proficiency, category, description, display_order, synced_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name, slug = excluded.slug, icon = excluded.icon,
					proficiency = excluded.proficiency, category = excluded.category,
					description = excluded.description, display_order = excluded.display_order,
					synced_at = excluded.synced_at`,
				s.ID, s.Name, nullStr(s.Slug.Current), icon, s.Proficiency, nullStr(s.Category),
				nullStr(s.Description), order, now,
			)
			if err != nil {
				return nil, fmt.Errorf("upsert skill %s: %w", s.ID, err)
			}
			ids = append(ids, s.ID)
		}
		return ids, nil
	})
}

// ReplaceAuthors upserts authors and deletes mirrored authors that are no longer present.
func (d *DB) ReplaceAuthors(ctx context.Context, authors []types.Author) (removed int, err error) {
	return d.replace(ctx, "authors", func(tx *sql.Tx, now string) ([]string, error) {
		ids := make([]string, 0, len(authors))
		for _, a := range authors {
			image, err := jsonCol(a.Image)
			if err != nil {
				return nil, err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO authors (id, name, slug, image, bio, synced_at)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name, slug = excluded.slug, image = excluded.image,
					bio = excluded.bio, synced_at = excluded.synced_at`,
				a.ID, a.Name, nullStr(a.Slug.Current), image, nullStr(a.Bio), now,
			)
			if err != nil {
				return nil, fmt.Errorf("upsert author %s: %w", a.ID, err)
			}
			ids = append(ids, a.ID)
		}
		return ids, nil
	})
}

// replace runs upsert inside a transaction, then deletes rows of table whose
// id was not returned by upsert.
func (d *DB) replace(ctx context.Context, table string, upsert func(*sql.Tx, string) ([]string, error)) (int, error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin %s: %w", table, err)
	}
	defer tx.Rollback()

	ids, err := upsert(tx, Now())
	if err != nil {
		return 0, err
	}

	query := "DELETE FROM " + table
	args := make([]any, len(ids))
	if len(ids) > 0 {
		query += " WHERE id NOT IN (" + strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",") + ")"
		for i, id := range ids {
			args[i] = id
		}
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune %s: %w", table, err)
	}
	removed, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", table, err)
	}
	return int(removed), nil
}

// --- Projects ---

const projectColumns = `id, slug, title, featured, main_image, categories, description, body,
	github_link, live_link, technologies`

// Projects returns all projects, featured first.
func (d *DB) Projects(ctx context.Context) ([]types.Project, error) {
	rows, err := d.conn.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects ORDER BY featured DESC, rowid ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

// FeaturedProjects returns up to limit featured projects.
func (d *DB) FeaturedProjects(ctx context.Context, limit int) ([]types.Project, error) {
	rows, err := d.conn.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE featured = 1 ORDER BY rowid ASC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

// ProjectCategories returns the distinct project categories in display order.
func (d *DB) ProjectCategories(ctx context.Context) ([]string, error) {
	projects, err := d.Projects(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Unique(projects), nil
}

// Project returns the project with the given slug, or nil if there is none.
func (d *DB) Project(ctx context.Context, slug string) (*types.Project, error) {
	rows, err := d.conn.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE slug = ? LIMIT 1", slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	projects, err := scanProjects(rows)
	if err != nil || len(projects) == 0 {
		return nil, err
	}
	return &projects[0], nil
}

func scanProjects(rows *sql.Rows) ([]types.Project, error) {
	result := []types.Project{}
	for rows.Next() {
		var p types.Project
		var image, cats, desc, body, github, live, tech sql.NullString
		if err := rows.Scan(
			&p.ID, &p.Slug.Current, &p.Title, &p.Featured, &image, &cats, &desc, &body,
			&github, &live, &tech,
		); err != nil {
			return nil, err
		}
		if err := scanJSON(image, &p.MainImage); err != nil {
			return nil, fmt.Errorf("project %s image: %w", p.ID, err)
		}
		if err := scanJSON(cats, &p.Categories); err != nil {
			return nil, fmt.Errorf("project %s categories: %w", p.ID, err)
		}
		if err := scanJSON(body, &p.Body); err != nil {
			return nil, fmt.Errorf("project %s body: %w", p.ID, err)
		}
		if err := scanJSON(tech, &p.Technologies); err != nil {
			return nil, fmt.Errorf("project %s technologies: %w", p.ID, err)
		}
		p.Description = desc.String
		p.GithubLink = github.String
		p.LiveLink = live.String
		result = append(result, p)
	}
	return result, rows.Err()
}

// --- Posts ---

const postQuery = `
	SELECT p.id, p.slug, p.title, p.featured, p.author_id, a.name, a.image, p.main_image,
	       p.categories, p.published_at, p.excerpt, p.body, p.reading_time
	FROM posts p
	LEFT JOIN authors a ON a.id = p.author_id`

// Posts returns all posts, newest first, with their author.
func (d *DB) Posts(ctx context.Context) ([]types.Post, error) {
	rows, err := d.conn.QueryContext(ctx, postQuery+" ORDER BY p.published_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// PostCategories returns the distinct post categories in display order.
func (d *DB) PostCategories(ctx context.Context) ([]string, error) {
	posts, err := d.Posts(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Unique(posts), nil
}

// Post returns the post with the given slug, or nil if there is none.
func (d *DB) Post(ctx context.Context, slug string) (*types.Post, error) {
	rows, err := d.conn.QueryContext(ctx, postQuery+" WHERE p.slug = ? LIMIT 1", slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts, err := scanPosts(rows)
	if err != nil || len(posts) == 0 {
		return nil, err
	}
	return &posts[0], nil
}

func scanPosts(rows *sql.Rows) ([]types.Post, error) {
	result := []types.Post{}
	for rows.Next() {
		var p types.Post
		var authorID, authorName, authorImage, image, cats, published, excerpt, body, reading sql.NullString
		if err := rows.Scan(
			&p.ID, &p.Slug.Current, &p.Title, &p.Featured, &authorID, &authorName, &authorImage,
			&image, &cats, &published, &excerpt, &body, &reading,
		); err != nil {
			return nil, err
		}
		if err := scanJSON(authorImage, &p.Author.Image); err != nil {
			return nil, fmt.Errorf("post %s author image: %w", p.ID, err)
		}
		if err := scanJSON(image, &p.MainImage); err != nil {
			return nil, fmt.Errorf("post %s image: %w", p.ID, err)
		}
		if err := scanJSON(cats, &p.Categories); err != nil {
			return nil, fmt.Errorf("post %s categories: %w", p.ID, err)
		}
		if err := scanJSON(body, &p.Body); err != nil {
			return nil, fmt.Errorf("post %s body: %w", p.ID, err)
		}
		p.Author.ID = authorID.String
		p.Author.Name = authorName.String
		p.PublishedAt = published.String
		p.Excerpt = excerpt.String
		p.ReadingTime = reading.String
		result = append(result, p)
	}
	return result, rows.Err()
}

// --- Skills ---

const skillColumns = "id, name, slug, icon, proficiency, category, description, display_order"

// TopSkills returns up to limit skills, most proficient first.
func (d *DB) TopSkills(ctx context.Context, limit int) ([]types.Skill, error) {
	rows, err := d.conn.QueryContext(ctx,
		"SELECT "+skillColumns+" FROM skills ORDER BY proficiency DESC, display_order ASC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSkills(rows)
}

// Skills returns all skills in display order.
func (d *DB) Skills(ctx context.Context) ([]types.Skill, error) {
	rows, err := d.conn.QueryContext(ctx,
		"SELECT "+skillColumns+" FROM skills ORDER BY display_order ASC, name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSkills(rows)
}

func scanSkills(rows *sql.Rows) ([]types.Skill, error) {
	result := []types.Skill{}
	for rows.Next() {
		var s types.Skill
		var slug, icon, category, desc sql.NullString
		if err := rows.Scan(
			&s.ID, &s.Name, &slug, &icon, &s.Proficiency, &category, &desc, &s.DisplayOrder,
		); err != nil {
			return nil, err
		}
		if err := scanJSON(icon, &s.Icon); err != nil {
			return nil, fmt.Errorf("skill %s icon: %w", s.ID, err)
		}
		s.Slug.Current = slug.String
		s.Category = category.String
		s.Description = desc.String
		result = append(result, s)
	}
	return result, rows.Err()
}

// --- Authors ---

// Authors returns all mirrored authors by name.
func (d *DB) Authors(ctx context.Context) ([]types.Author, error) {
	rows, err := d.conn.QueryContext(ctx, "SELECT id, name, slug, image, bio FROM authors ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []types.Author{}
	for rows.Next() {
		var a types.Author
		var slug, image, bio sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &slug, &image, &bio); err != nil {
			return nil, err
		}
		if err := scanJSON(image, &a.Image); err != nil {
			return nil, fmt.Errorf("author %s image: %w", a.ID, err)
		}
		a.Slug.Current = slug.String
		a.Bio = bio.String
		result = append(result, a)
	}
	return result, rows.Err()
}
