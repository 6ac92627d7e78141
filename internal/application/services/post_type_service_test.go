package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/featured"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
)

func TestSelectableExcludesAttachment(t *testing.T) {
	postTypes := newMemoryPostTypes()
	postTypes.types["draft"] = &content.PostTypeNode{Name: "draft", Label: "Drafts", Public: false, SupportsThumbnail: true}
	svc := NewPostTypeService(postTypes, logging.NewDiscardLogger())

	selectable, err := svc.Selectable(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(selectable))
	for _, pt := range selectable {
		names = append(names, pt.Name)
	}
	// attachment is public in the fake, so only the name filter keeps it out
	assert.ElementsMatch(t, []string{"post", "page", "note"}, names)
}

func TestRegisterPostType(t *testing.T) {
	postTypes := newMemoryPostTypes()
	svc := NewPostTypeService(postTypes, logging.NewDiscardLogger())

	pt, err := svc.Register(context.Background(), RegisterPostTypeRequest{
		Name:              "recipe",
		Label:             "Recipes",
		Public:            true,
		SupportsThumbnail: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "recipe", pt.Name)

	stored, err := postTypes.FindByName(context.Background(), "recipe")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.SupportsThumbnail)
	assert.Equal(t, "Recipes", stored.Label)
}

func TestRegisterPostTypeValidatesName(t *testing.T) {
	svc := NewPostTypeService(newMemoryPostTypes(), logging.NewDiscardLogger())

	cases := []struct {
		name string
		req  RegisterPostTypeRequest
	}{
		{"uppercase", RegisterPostTypeRequest{Name: "Recipe", Label: "Recipes"}},
		{"spaces", RegisterPostTypeRequest{Name: "my type", Label: "Mine"}},
		{"too long", RegisterPostTypeRequest{Name: "abcdefghijklmnopqrstu", Label: "Long"}},
		{"empty", RegisterPostTypeRequest{Name: "", Label: "Empty"}},
		{"missing label", RegisterPostTypeRequest{Name: "recipe"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.req)
			assert.ErrorIs(t, err, featured.ErrInvalidPostType)
		})
	}

	_, err := svc.Register(context.Background(), RegisterPostTypeRequest{Name: "a_b-9", Label: "Ok"})
	assert.NoError(t, err)
}
