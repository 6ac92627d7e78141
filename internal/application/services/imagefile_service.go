package services

import (
	"context"
	"fmt"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/featured"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/media"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
)

// UploadRequest is a media library upload carried as a data URL
type UploadRequest struct {
	Filename       string `json:"filename" validate:"required,max=255"`
	AltDescription string `json:"altDescription" validate:"max=500"`
	Data           string `json:"data" validate:"required"`
}

// ImageFileService manages the media library the image pool draws from
type ImageFileService struct {
	files     repositories.ImageFileRepository
	processor *media.ImageProcessor
	logger    *logging.ChanneledLogger
}

func NewImageFileService(files repositories.ImageFileRepository, processor *media.ImageProcessor, logger *logging.ChanneledLogger) *ImageFileService {
	return &ImageFileService{
		files:     files,
		processor: processor,
		logger:    logger,
	}
}

func (s *ImageFileService) GetAll(ctx context.Context) ([]*content.ImageFileNode, error) {
	files, err := s.files.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all files: %w", err)
	}
	return files, nil
}

func (s *ImageFileService) GetByID(ctx context.Context, id int64) (*content.ImageFileNode, error) {
	file, err := s.files.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get file %d: %w", id, err)
	}
	if file == nil {
		return nil, featured.ErrFileNotFound
	}
	return file, nil
}

// GetPoolPreviews returns the files behind a pool, skipping ids that no
// longer exist in the library
func (s *ImageFileService) GetPoolPreviews(ctx context.Context, pool featured.ImagePool) ([]*content.ImageFileNode, error) {
	files, err := s.files.FindByIDs(ctx, pool.Ints())
	if err != nil {
		return nil, fmt.Errorf("failed to get pool files: %w", err)
	}
	return files, nil
}

// Upload stores the original and its thumbnail, then records the file
func (s *ImageFileService) Upload(ctx context.Context, req UploadRequest) (*content.ImageFileNode, error) {
	if err := requestValidator().Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", featured.ErrInvalidRequest, err)
	}

	stored, err := s.processor.ProcessBase64Image(req.Data, req.Filename)
	if err != nil {
		return nil, err
	}

	file := &content.ImageFileNode{
		Filename:       stored.Filename,
		AltDescription: req.AltDescription,
		URL:            stored.URL,
		ThumbURL:       stored.ThumbURL,
	}
	if err := s.files.Store(ctx, file); err != nil {
		if cleanupErr := s.processor.Delete(stored.URL, stored.ThumbURL); cleanupErr != nil {
			s.logger.Content().Warn("Failed to clean up orphaned upload", "error", cleanupErr, "url", stored.URL)
		}
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	s.logger.Content().Info("Image uploaded", "fileId", file.ID, "filename", file.Filename)
	return file, nil
}

// Delete removes a file from the library and disk. Pools that still list
// the id simply stop finding a preview for it.
func (s *ImageFileService) Delete(ctx context.Context, id int64) error {
	file, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.files.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.processor.Delete(file.URL, file.ThumbURL); err != nil {
		s.logger.Content().Warn("Failed to remove image files", "error", err, "fileId", id)
	}
	return nil
}
