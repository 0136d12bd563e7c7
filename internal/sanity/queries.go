package sanity

// Page queries. Projections match what the pages render; list queries also
// carry bodies so the SQLite mirror can serve detail pages offline.
//
// FeaturedProjectsQuery and TopSkillsQuery are fmt templates taking the
// slice bound.
const (
	FeaturedProjectsQuery = `*[_type == "project" && featured == true][0...%d]{
  _id, title, slug, featured, "categories": categories, mainImage, description, technologies
}`

	ProjectsQuery = `*[_type == "project"] | order(featured desc) {
  _id, title, slug, "categories": categories, mainImage, description, technologies,
  githubLink, liveLink, featured, body
}`

	ProjectCategoriesQuery = `array::unique(*[_type == "project" && defined(categories)].categories[])`

	ProjectQuery = `*[_type == "project" && slug.current == $slug][0]{
  _id, title, slug, featured, mainImage, description, categories, technologies, body,
  githubLink, liveLink
}`

	PostsQuery = `*[_type == "post"] | order(publishedAt desc) {
  _id, title, slug, featured, "categories": categories, mainImage, excerpt, publishedAt,
  readingTime, body, "author": author->{_id, name, image}
}`

	PostCategoriesQuery = `array::unique(*[_type == "post" && defined(categories)].categories[])`

	PostQuery = `*[_type == "post" && slug.current == $slug][0]{
  _id, title, slug, featured, mainImage, excerpt, categories, body, publishedAt,
  readingTime, "author": author->{_id, name, image}
}`

	TopSkillsQuery = `*[_type == "skill"] | order(proficiency desc)[0...%d]{
  _id, name, slug, proficiency, icon, category, displayOrder
}`

	SkillsQuery = `*[_type == "skill"] | order(displayOrder asc, name asc){
  _id, name, slug, proficiency, icon, category, description, displayOrder
}`

	AuthorsQuery = `*[_type == "author"] | order(name asc){
  _id, name, slug, image, bio
}`
)
