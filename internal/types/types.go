// Package types defines core data structures for folio.
package types

// Reference points at another CMS document or asset.
type Reference struct {
	Ref  string `json:"_ref"`
	Type string `json:"_type,omitempty"`
}

// Hotspot is the focal area an editor picked on an image.
type Hotspot struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
}

// Image is a CMS image value. The zero value means "no image".
type Image struct {
	Asset   *Reference `json:"asset,omitempty"`
	Alt     string     `json:"alt,omitempty"`
	Hotspot *Hotspot   `json:"hotspot,omitempty"`
}

// IsZero reports whether the image has no asset.
func (i Image) IsZero() bool {
	return i.Asset == nil || i.Asset.Ref == ""
}

// Slug is the URL-safe identifier of a document.
type Slug struct {
	Current string `json:"current"`
}

// Project is a portfolio entry shown on the projects page.
type Project struct {
	ID           string   `json:"_id"`
	Title        string   `json:"title"`
	Slug         Slug     `json:"slug"`
	Featured     bool     `json:"featured"`
	MainImage    Image    `json:"mainImage"`
	Categories   []string `json:"categories,omitempty"`
	Description  string   `json:"description,omitempty"`
	Body         []Block  `json:"body,omitempty"`
	GithubLink   string   `json:"githubLink,omitempty"`
	LiveLink     string   `json:"liveLink,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// Tags returns the project's categories.
func (p Project) Tags() []string { return p.Categories }

// Author is the writer of a blog post.
type Author struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Slug  Slug   `json:"slug,omitempty"`
	Image Image  `json:"image,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

// Post is a blog article.
type Post struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Slug        Slug     `json:"slug"`
	Featured    bool     `json:"featured"`
	Author      Author   `json:"author"`
	MainImage   Image    `json:"mainImage"`
	Categories  []string `json:"categories,omitempty"`
	PublishedAt string   `json:"publishedAt"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Body        []Block  `json:"body,omitempty"`
	ReadingTime string   `json:"readingTime,omitempty"`
}

// Tags returns the post's categories.
func (p Post) Tags() []string { return p.Categories }

// Skill is a technology with a self-assessed proficiency.
type Skill struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Slug         Slug   `json:"slug,omitempty"`
	Icon         Image  `json:"icon,omitempty"`
	Proficiency  int    `json:"proficiency"`
	Category     string `json:"category,omitempty"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
}

// Tags returns the skill's single category, if any.
func (s Skill) Tags() []string {
	if s.Category == "" {
		return nil
	}
	return []string{s.Category}
}

// DefaultDisplayOrder is used for skills that were not given an explicit order.
const DefaultDisplayOrder = 100

// ContactMessage is a submission accepted by the contact API.
type ContactMessage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	RemoteAddr  string `json:"remote_addr,omitempty"`
	UserAgent   string `json:"user_agent,omitempty"`
	CreatedAt   string `json:"created_at"`
	NotifiedAt  string `json:"notified_at,omitempty"`
	NotifyError string `json:"notify_error,omitempty"`
}

// SyncResult holds the result of mirroring one document type.
type SyncResult struct {
	Type    string `json:"type"`
	Fetched int    `json:"fetched"`
	Removed int    `json:"removed"`
	Error   string `json:"error,omitempty"`
}

// SyncSummary holds the result of mirroring all document types.
type SyncSummary struct {
	Types      []SyncResult `json:"types"`
	TotalSaved int          `json:"total_saved"`
}
