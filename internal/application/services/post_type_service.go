package services

import (
	"context"
	"fmt"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/featured"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
)

// attachmentType is the media library's own post type, never offered as a target
const attachmentType = "attachment"

// RegisterPostTypeRequest adds or updates a registered post type
type RegisterPostTypeRequest struct {
	Name              string `json:"name" validate:"required,posttype"`
	Label             string `json:"label" validate:"required,max=100"`
	Public            bool   `json:"public"`
	SupportsThumbnail bool   `json:"supportsThumbnail"`
}

type PostTypeService struct {
	postTypes repositories.PostTypeRepository
	logger    *logging.ChanneledLogger
}

func NewPostTypeService(postTypes repositories.PostTypeRepository, logger *logging.ChanneledLogger) *PostTypeService {
	return &PostTypeService{postTypes: postTypes, logger: logger}
}

func (s *PostTypeService) GetAll(ctx context.Context) ([]*content.PostTypeNode, error) {
	return s.postTypes.FindAll(ctx)
}

// Selectable lists the public post types shown in the settings checklist
func (s *PostTypeService) Selectable(ctx context.Context) ([]*content.PostTypeNode, error) {
	public, err := s.postTypes.FindPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list post types: %w", err)
	}
	selectable := make([]*content.PostTypeNode, 0, len(public))
	for _, pt := range public {
		if pt.Name == attachmentType {
			continue
		}
		selectable = append(selectable, pt)
	}
	return selectable, nil
}

func (s *PostTypeService) Register(ctx context.Context, req RegisterPostTypeRequest) (*content.PostTypeNode, error) {
	if err := requestValidator().Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", featured.ErrInvalidPostType, err)
	}

	pt := &content.PostTypeNode{
		Name:              req.Name,
		Label:             req.Label,
		Public:            req.Public,
		SupportsThumbnail: req.SupportsThumbnail,
	}
	if err := s.postTypes.Store(ctx, pt); err != nil {
		return nil, err
	}

	s.logger.Content().Info("Post type registered", "name", pt.Name, "public", pt.Public, "supportsThumbnail", pt.SupportsThumbnail)
	return pt, nil
}
