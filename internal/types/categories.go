package types

// Option is a selectable value with its display title.
type Option struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// ProjectCategories are the categories editors can assign to a project.
var ProjectCategories = []Option{
	{Title: "Web Development", Value: "web"},
	{Title: "Mobile App", Value: "mobile"},
	{Title: "UI/UX Design", Value: "design"},
	{Title: "Backend", Value: "backend"},
}

// PostCategories are the categories editors can assign to a blog post.
var PostCategories = []Option{
	{Title: "Web Development", Value: "web-dev"},
	{Title: "UI/UX Design", Value: "design"},
	{Title: "JavaScript", Value: "javascript"},
	{Title: "TypeScript", Value: "typescript"},
	{Title: "React", Value: "react"},
	{Title: "Next.js", Value: "nextjs"},
	{Title: "CSS", Value: "css"},
	{Title: "Tech Career", Value: "career"},
	{Title: "Low/no - code", Value: "low-code"},
	{Title: "Database", Value: "database"},
	{Title: "Infrastructure", Value: "infrastructure"},
	{Title: "Platform Engineering", Value: "platform-engineering"},
	{Title: "Reliability", Value: "reliability"},
	{Title: "DevOps", Value: "devops"},
	{Title: "Cloud", Value: "cloud"},
	{Title: "Security", Value: "security"},
	{Title: "AI/ML", Value: "ai-ml"},
	{Title: "Open Source", Value: "open-source"},
}

// Skill category constants.
const (
	SkillFrontend = "frontend"
	SkillBackend  = "backend"
	SkillDatabase = "database"
	SkillDevOps   = "devops"
	SkillDesign   = "design"
	SkillTools    = "tools"
)

// SkillCategories lists skill categories in display order.
var SkillCategories = []Option{
	{Title: "Frontend", Value: SkillFrontend},
	{Title: "Backend", Value: SkillBackend},
	{Title: "Database", Value: SkillDatabase},
	{Title: "DevOps", Value: SkillDevOps},
	{Title: "Design", Value: SkillDesign},
	{Title: "Tools", Value: SkillTools},
}

// IsValidSkillCategory checks if a skill category is known.
func IsValidSkillCategory(c string) bool {
	for _, o := range SkillCategories {
		if o.Value == c {
			return true
		}
	}
	return false
}

// Title returns the display title for value, or value itself when unknown.
func Title(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Title
		}
	}
	return value
}
