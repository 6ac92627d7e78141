package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/featured"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
)

// CreatePostRequest registers a post with the content host
type CreatePostRequest struct {
	PostType    string `json:"postType" validate:"required,posttype"`
	Title       string `json:"title" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"max=200"`
	ThumbnailID int64  `json:"thumbnailId" validate:"gte=0"`
}

// PostView is a post as rendered to readers
type PostView struct {
	*content.PostNode
	ThumbnailID featured.ImageID       `json:"thumbnailId,omitempty"`
	Thumbnail   *content.ImageFileNode `json:"thumbnail,omitempty"`
}

// PostService is the content host side of posts and their metadata
type PostService struct {
	posts      repositories.PostRepository
	postTypes  repositories.PostTypeRepository
	meta       repositories.PostMetaRepository
	files      repositories.ImageFileRepository
	thumbnails *ThumbnailService
	logger     *logging.ChanneledLogger
}

func NewPostService(
	posts repositories.PostRepository,
	postTypes repositories.PostTypeRepository,
	meta repositories.PostMetaRepository,
	files repositories.ImageFileRepository,
	thumbnails *ThumbnailService,
	logger *logging.ChanneledLogger,
) *PostService {
	return &PostService{
		posts:      posts,
		postTypes:  postTypes,
		meta:       meta,
		files:      files,
		thumbnails: thumbnails,
		logger:     logger,
	}
}

func (s *PostService) Create(ctx context.Context, req CreatePostRequest) (*content.PostNode, error) {
	if err := requestValidator().Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", featured.ErrInvalidRequest, err)
	}

	postType, err := s.postTypes.FindByName(ctx, req.PostType)
	if err != nil {
		return nil, err
	}
	if postType == nil {
		return nil, featured.ErrPostTypeNotFound
	}

	post := &content.PostNode{PostType: req.PostType, Title: req.Title, Slug: req.Slug}
	if err := s.posts.Store(ctx, post); err != nil {
		return nil, err
	}

	if req.ThumbnailID > 0 {
		if err := s.SetThumbnail(ctx, post.ID, featured.ImageID(req.ThumbnailID)); err != nil {
			return nil, err
		}
	}

	s.logger.Content().Info("Post created", "postId", post.ID, "postType", post.PostType)
	return post, nil
}

// SetThumbnail stores a post's own featured image; zero removes it
func (s *PostService) SetThumbnail(ctx context.Context, postID int64, imageID featured.ImageID) error {
	if imageID < 0 {
		return featured.ErrInvalidThumbnail
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return featured.ErrPostNotFound
	}

	if imageID == 0 {
		err = s.meta.Delete(ctx, postID, featured.ThumbnailMetaKey)
	} else {
		err = s.meta.Replace(ctx, postID, featured.ThumbnailMetaKey, strconv.FormatInt(int64(imageID), 10))
	}
	if err != nil {
		return err
	}

	stores.MetaStoreFrom(ctx).DeleteMeta(postID)
	return nil
}

// View loads a post with its effective featured image
func (s *PostService) View(ctx context.Context, rc RequestContext, postID int64) (*PostView, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	thumbnailID, err := s.thumbnails.ThumbnailID(ctx, rc, postID)
	if err != nil {
		return nil, err
	}

	view := &PostView{PostNode: post, ThumbnailID: thumbnailID}
	if thumbnailID > 0 {
		file, err := s.files.FindByID(ctx, int64(thumbnailID))
		if err != nil {
			return nil, err
		}
		view.Thumbnail = file
	}
	return view, nil
}

// Get returns a post or ErrPostNotFound
func (s *PostService) Get(ctx context.Context, postID int64) (*content.PostNode, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, featured.ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context) ([]*content.PostNode, error) {
	return s.posts.FindAll(ctx)
}
