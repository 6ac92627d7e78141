package featured

import "errors"

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrPostTypeNotFound = errors.New("post type not found")
	ErrFileNotFound     = errors.New("file not found")
	ErrInvalidNonce     = errors.New("invalid or expired form nonce")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrInvalidPostType  = errors.New("invalid post type name")
	ErrInvalidThumbnail = errors.New("invalid thumbnail id")
	ErrInvalidRequest   = errors.New("invalid request")
)
