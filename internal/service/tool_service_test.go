package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolhub/internal/domain"
)

func newToolService(e *testEnv) *ToolService {
	return NewToolService(e.toolRepo, e.auditRepo, e.logger)
}

func TestCreateToolValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newToolService(env)

	err := svc.CreateTool(&domain.Tool{Category: "test"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.CreateTool(&domain.Tool{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.CreateTool(nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// A name alone is enough; category is optional.
	err = svc.CreateTool(&domain.Tool{Name: "araç"})
	assert.NoError(t, err)
}

func TestGetToolByIDNotFound(t *testing.T) {
	env := newTestEnv(t)
	svc := newToolService(env)

	_, err := svc.GetToolByID(9999)
	assert.ErrorIs(t, err, domain.ErrToolNotFound)

	_, err = svc.GetToolByID(0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetTrendingToolsDefaultLimit(t *testing.T) {
	env := newTestEnv(t)
	svc := newToolService(env)

	for i := 0; i < domain.DefaultTrendingLimit+2; i++ {
		env.seedTool(t, "araç")
	}

	trending, err := svc.GetTrendingTools(0)
	require.NoError(t, err)
	assert.Len(t, trending, domain.DefaultTrendingLimit)

	trending, err = svc.GetTrendingTools(2)
	require.NoError(t, err)
	assert.Len(t, trending, 2)
}

func TestGetFeaturedTools(t *testing.T) {
	env := newTestEnv(t)
	svc := newToolService(env)

	plain := env.seedTool(t, "sıradan")
	_ = plain

	featured := &domain.Tool{Name: "öne çıkan", Category: "test", Active: true, Featured: true}
	require.NoError(t, env.toolRepo.Create(featured))

	tools, err := svc.GetFeaturedTools()
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, featured.ID, tools[0].ID)
}

func TestUpdateToolNotFound(t *testing.T) {
	env := newTestEnv(t)
	svc := newToolService(env)

	err := svc.UpdateTool(&domain.Tool{ID: 9999, Name: "araç", Category: "test"})
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestDeleteTool(t *testing.T) {
	env := newTestEnv(t)
	svc := newToolService(env)

	tool := env.seedTool(t, "araç")
	require.NoError(t, svc.DeleteTool(tool.ID))

	_, err := svc.GetToolByID(tool.ID)
	assert.ErrorIs(t, err, domain.ErrToolNotFound)

	err = svc.DeleteTool(tool.ID)
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}
