package usecase_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/omni/internal/application/port/mocks"
	"github.com/bnema/omni/internal/application/usecase"
	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/infrastructure/persistence/memkv"
)

func TestConvertAllTabs_SavesThenCloses(t *testing.T) {
	ctx := testContext()
	ctrl := gomock.NewController(t)
	tabs := mocks.NewMockTabController(ctrl)
	expectLiveTabs(tabs,
		liveTab(1, 10, 0, "https://a.example", "A"),
		liveTab(2, 10, 1, "chrome://settings", "Settings"),
		liveTab(3, 20, 0, "https://c.example", "C"),
	)
	tabs.EXPECT().RemoveTab(gomock.Any(), entity.BrowserTabID(1)).Return(nil)
	tabs.EXPECT().RemoveTab(gomock.Any(), entity.BrowserTabID(3)).Return(errors.New("already closed"))

	store := newTestStore(memkv.New(), memkv.New())
	uc := usecase.NewConvertAllTabsUseCase(tabs, newSaveSession(t, tabs, store, nil))

	out, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, usecase.ConvertedSessionName, out.Session.Name)
	assert.Equal(t, 2, out.Session.TabCount)
	assert.Equal(t, 1, out.Closed)
	assert.Equal(t, 1, out.Failed)
}

func TestConvertAllTabs_KeepsTabsWhenSaveFails(t *testing.T) {
	ctx := testContext()
	ctrl := gomock.NewController(t)
	tabs := mocks.NewMockTabController(ctrl)
	expectLiveTabs(tabs, liveTab(1, 10, 0, "https://a.example", "A"))

	local := newFaultyKV()
	local.setFailure(alwaysFail(errors.New("disk full")))
	store := newTestStore(local, memkv.New())
	uc := usecase.NewConvertAllTabsUseCase(tabs, newSaveSession(t, tabs, store, nil))

	_, err := uc.Execute(ctx)
	assert.ErrorIs(t, err, entity.ErrLocalPersistence)
}
