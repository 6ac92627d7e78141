// Package content defines the content host entities the default image resolver reads.
package content

import "time"

// PostNode is a renderable content item
type PostNode struct {
	ID       int64     `json:"id"`
	PostType string    `json:"postType"`
	Title    string    `json:"title"`
	Slug     string    `json:"slug"`
	Created  time.Time `json:"created"`
}

// PostTypeNode is a registered content type
type PostTypeNode struct {
	Name              string `json:"name"`
	Label             string `json:"label"`
	Public            bool   `json:"public"`
	SupportsThumbnail bool   `json:"supportsThumbnail"`
}

// ImageFileNode is a media library image
type ImageFileNode struct {
	ID             int64  `json:"id"`
	Filename       string `json:"filename"`
	NodeType       string `json:"nodeType"`
	AltDescription string `json:"altDescription"`
	URL            string `json:"url"`
	ThumbURL       string `json:"thumbUrl,omitempty"`
}
