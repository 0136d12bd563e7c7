package types

// Portable-text node types.
const (
	BlockTypeBlock = "block"
	BlockTypeImage = "image"
	BlockTypeCode  = "code"
)

// Block styles.
const (
	StyleNormal     = "normal"
	StyleH1         = "h1"
	StyleH2         = "h2"
	StyleH3         = "h3"
	StyleH4         = "h4"
	StyleBlockquote = "blockquote"
)

// List item kinds.
const (
	ListBullet = "bullet"
	ListNumber = "number"
)

// Span decorators.
const (
	MarkStrong   = "strong"
	MarkEmphasis = "em"
	MarkCode     = "code"
)

// Block is one node of a portable-text body. Which fields are set depends on Type.
type Block struct {
	Type string `json:"_type"`
	Key  string `json:"_key,omitempty"`

	// Text blocks.
	Style    string    `json:"style,omitempty"`
	ListItem string    `json:"listItem,omitempty"`
	Level    int       `json:"level,omitempty"`
	Children []Span    `json:"children,omitempty"`
	MarkDefs []MarkDef `json:"markDefs,omitempty"`

	// Images.
	Asset   *Reference `json:"asset,omitempty"`
	Alt     string     `json:"alt,omitempty"`
	Hotspot *Hotspot   `json:"hotspot,omitempty"`

	// Code.
	Code     string `json:"code,omitempty"`
	Language string `json:"language,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Image returns the image carried by an image block.
func (b Block) Image() Image {
	return Image{Asset: b.Asset, Alt: b.Alt, Hotspot: b.Hotspot}
}

// Span is a run of text with decorator and annotation marks.
type Span struct {
	Type  string   `json:"_type,omitempty"`
	Key   string   `json:"_key,omitempty"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// MarkDef defines an annotation referenced by key from span marks.
type MarkDef struct {
	Key  string `json:"_key"`
	Type string `json:"_type"`
	Href string `json:"href,omitempty"`
}
