package types

// InputType defines the kind of item a user turn can carry.
type InputType string

const (
	InputTypeText       InputType = "text"        // InputTypeText indicates plain text typed by the user.
	InputTypeImage      InputType = "image"       // InputTypeImage indicates an image referenced by URL.
	InputTypeLocalImage InputType = "local_image" // InputTypeLocalImage indicates an image attached from disk.
)

// Input represents a single item of a user turn. A turn is an ordered list
// of these items; consumers that only understand text skip the rest.
type Input struct {
	// Text is the textual content of the item.
	// Only populated when Type is InputTypeText.
	Text string

	// ImageURL references a remote image.
	// Only populated when Type is InputTypeImage.
	ImageURL string

	// Path references an image on the local filesystem.
	// Only populated when Type is InputTypeLocalImage.
	Path string

	// Type indicates the kind of item (text, image, local_image).
	Type InputType
}

// NewTextInput creates a new text item.
func NewTextInput(text string) *Input {
	return &Input{
		Type: InputTypeText,
		Text: text,
	}
}

// NewImageInput creates a new remote-image item.
func NewImageInput(url string) *Input {
	return &Input{
		Type:     InputTypeImage,
		ImageURL: url,
	}
}

// NewLocalImageInput creates a new local-image item.
func NewLocalImageInput(path string) *Input {
	return &Input{
		Type: InputTypeLocalImage,
		Path: path,
	}
}

// IsText returns true if this item carries user text.
func (i *Input) IsText() bool {
	return i.Type == InputTypeText
}

// IsImage returns true if this item references an image, remote or local.
func (i *Input) IsImage() bool {
	return i.Type == InputTypeImage || i.Type == InputTypeLocalImage
}
