// Package services provides settings integrity checks
package services

import (
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/featured"
)

// IntegrityReport lists settings entries that point at nothing
type IntegrityReport struct {
	MissingImages []featured.ImageID `json:"missingImages"`
	UnknownTypes  []string           `json:"unknownTypes"`
}

// Clean reports whether every entry resolved
func (r IntegrityReport) Clean() bool {
	return len(r.MissingImages) == 0 && len(r.UnknownTypes) == 0
}

type PoolIntegrityService struct{}

func NewPoolIntegrityService() *PoolIntegrityService {
	return &PoolIntegrityService{}
}

// Check compares the settings against what the library and type registry
// hold. Missing ids are reported once each, in pool order.
func (s *PoolIntegrityService) Check(
	settings featured.Settings,
	files []*content.ImageFileNode,
	postTypes []*content.PostTypeNode,
) IntegrityReport {
	report := IntegrityReport{
		MissingImages: s.MissingImages(settings.Pool, files),
		UnknownTypes:  make([]string, 0),
	}

	registered := make(map[string]struct{}, len(postTypes))
	for _, pt := range postTypes {
		registered[pt.Name] = struct{}{}
	}
	for _, name := range settings.ContentTypes.Names() {
		if _, ok := registered[name]; !ok {
			report.UnknownTypes = append(report.UnknownTypes, name)
		}
	}
	return report
}

// MissingImages returns pool ids with no matching library file
func (s *PoolIntegrityService) MissingImages(pool featured.ImagePool, files []*content.ImageFileNode) []featured.ImageID {
	known := make(map[featured.ImageID]struct{}, len(files))
	for _, file := range files {
		known[featured.ImageID(file.ID)] = struct{}{}
	}

	missing := make([]featured.ImageID, 0)
	reported := make(map[featured.ImageID]struct{})
	for _, id := range pool {
		if _, ok := known[id]; ok {
			continue
		}
		if _, dup := reported[id]; dup {
			continue
		}
		reported[id] = struct{}{}
		missing = append(missing, id)
	}
	return missing
}
