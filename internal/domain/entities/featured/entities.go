// Package featured defines the default featured image domain: the image pool,
// the enabled content types and the resolution policy that picks a default.
package featured

import "math/rand"

// ThumbnailMetaKey is the post meta key holding a post's featured image id.
const ThumbnailMetaKey = "_thumbnail_id"

// Option names under which the configuration is persisted.
const (
	OptionImagePool           = "image_pool"
	OptionEnabledContentTypes = "enabled_content_types"
)

// ImageID identifies a media library image. Zero means no image.
type ImageID int64

// ImagePool is the ordered list of images eligible for random assignment.
// Duplicates are kept; a duplicated id is simply more likely to be drawn.
type ImagePool []ImageID

// Contains reports whether id is in the pool
func (p ImagePool) Contains(id ImageID) bool {
	for _, candidate := range p {
		if candidate == id {
			return true
		}
	}
	return false
}

// Ints returns the pool as plain integers, the persisted representation
func (p ImagePool) Ints() []int64 {
	out := make([]int64, len(p))
	for i, id := range p {
		out[i] = int64(id)
	}
	return out
}

// ContentTypes is the set of content type names the override applies to.
// It remembers insertion order so the persisted list stays stable.
type ContentTypes struct {
	names []string
	index map[string]struct{}
}

// NewContentTypes builds a set from names, dropping duplicates
func NewContentTypes(names ...string) ContentTypes {
	ct := ContentTypes{index: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if _, seen := ct.index[name]; seen {
			continue
		}
		ct.index[name] = struct{}{}
		ct.names = append(ct.names, name)
	}
	return ct
}

// Has reports whether name is enabled
func (ct ContentTypes) Has(name string) bool {
	_, ok := ct.index[name]
	return ok
}

// Len returns the number of enabled types
func (ct ContentTypes) Len() int {
	return len(ct.names)
}

// Names returns a copy of the enabled names in insertion order
func (ct ContentTypes) Names() []string {
	out := make([]string, len(ct.names))
	copy(out, ct.names)
	return out
}

// ContentItem is a renderable post as seen by the resolver
type ContentItem struct {
	ID          int64
	ContentType string
	ThumbnailID ImageID
	// ThumbnailUnsupported is set when the item's content type has no
	// featured image concept at all.
	ThumbnailUnsupported bool
	// ThumbnailStored is set when a non-empty reference other than "0" is
	// stored, whether or not it parses as an image id.
	ThumbnailStored bool
}

// HasThumbnail reports whether the item already carries a featured image
func (i ContentItem) HasThumbnail() bool {
	return i.ThumbnailID > 0 || i.ThumbnailStored
}

// Settings is the configuration read for one resolution
type Settings struct {
	Pool         ImagePool
	ContentTypes ContentTypes
}

// ResolutionResult is either no override or a single image id from the pool
type ResolutionResult struct {
	ImageID  ImageID `json:"imageId,omitempty"`
	Override bool    `json:"override"`
}

// NoOverride leaves the host's value untouched
func NoOverride() ResolutionResult {
	return ResolutionResult{}
}

// OverrideWith substitutes id for the missing thumbnail
func OverrideWith(id ImageID) ResolutionResult {
	return ResolutionResult{ImageID: id, Override: true}
}

// Picker returns an index in [0, n). n is always positive.
type Picker func(n int) int

// DefaultPicker draws from the auto-seeded global source of math/rand.
func DefaultPicker(n int) int {
	return rand.Intn(n)
}
