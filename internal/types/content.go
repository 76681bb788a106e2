package types

// MessageContent is the content of a ChatMessage. Exactly one of Text or
// Parts is meaningful at a time: IsMulti reports which. This mirrors the
// source spec's tagged union (Text(string) | Multi([]ContentPart)) without
// needing a language-level sum type — the zero value (empty Text, nil
// Parts) behaves as an empty text body.
type MessageContent struct {
	text  string
	parts []ContentPart
	multi bool
}

// NewTextContent builds an atomic text MessageContent.
func NewTextContent(text string) MessageContent {
	return MessageContent{text: text}
}

// NewMultiContent builds an ordered mixed-content MessageContent.
func NewMultiContent(parts ...ContentPart) MessageContent {
	return MessageContent{parts: parts, multi: true}
}

// IsMulti reports whether this content is a Multi(...) sequence rather
// than an atomic Text(...).
func (c MessageContent) IsMulti() bool { return c.multi }

// Text returns the atomic text body. For Multi content it returns the
// concatenation of every Text part, in order.
func (c MessageContent) Text() string {
	if !c.multi {
		return c.text
	}
	var out string
	for _, p := range c.parts {
		if p.Kind == ContentText {
			out += p.Text
		}
	}
	return out
}

// Parts returns the ordered content parts. For atomic Text content it
// returns a single synthesized ContentText part.
func (c MessageContent) Parts() []ContentPart {
	if !c.multi {
		return []ContentPart{{Kind: ContentText, Text: c.text}}
	}
	return c.parts
}

// ContentPartKind tags the variant held by a ContentPart.
type ContentPartKind string

const (
	ContentText       ContentPartKind = "text"
	ContentImage      ContentPartKind = "image"
	ContentAudio      ContentPartKind = "audio"
	ContentFile       ContentPartKind = "file"
	ContentToolResult ContentPartKind = "tool_result"
)

// SourceKind tags how Image/Audio/File content is addressed.
type SourceKind string

const (
	SourceURL    SourceKind = "url"
	SourceBase64 SourceKind = "base64"
	SourceFileID SourceKind = "file_id"
)

// ImageDetail is the vendor-advisory resolution hint for image parts.
type ImageDetail string

const (
	ImageDetailLow  ImageDetail = "low"
	ImageDetailHigh ImageDetail = "high"
	ImageDetailAuto ImageDetail = "auto"
)

// ContentPart is one element of a Multi MessageContent. Only the fields
// relevant to Kind are meaningful; the others are left at their zero
// value.
type ContentPart struct {
	Kind ContentPartKind

	// Text: ContentText.
	Text string

	// Image/Audio/File addressing.
	Source   SourceKind
	URL      string
	Data     []byte
	MimeType string
	FileID   string
	Filename string
	Detail   ImageDetail // image only
	Format   string      // audio only, e.g. "wav", "mp3"

	// ToolResult (used in Tool-role messages).
	ToolCallID string
	Output     string
	IsError    bool
}
