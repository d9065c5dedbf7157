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
	"github.com/bnema/omni/internal/domain/url"
	"github.com/bnema/omni/internal/infrastructure/persistence/memkv"
)

type lookupStub map[entity.UniqueID]entity.SuspendedTab

func (l lookupStub) Get(id entity.UniqueID) (entity.SuspendedTab, bool) {
	rec, ok := l[id]
	return rec, ok
}

func newSaveSession(t *testing.T, tabs *mocks.MockTabController, store *usecase.SessionStore, lookup usecase.SuspendedLookup) *usecase.SaveSessionUseCase {
	t.Helper()
	deny, err := url.NewDenyList(url.DefaultDenyPatterns)
	require.NoError(t, err)
	placeholder, err := url.NewPlaceholder(placeholderBase)
	require.NoError(t, err)
	return usecase.NewSaveSessionUseCase(tabs, store, lookup, deny, placeholder)
}

func TestSaveSession_CapturesAllWindows(t *testing.T) {
	ctx := testContext()
	ctrl := gomock.NewController(t)
	tabs := mocks.NewMockTabController(ctrl)
	expectLiveTabs(tabs,
		liveTab(1, 10, 0, "https://a.example", "A"),
		liveTab(2, 10, 1, "chrome://extensions", "Extensions"),
		liveTab(3, 10, 2, placeholderFor("u-1"), "suspended"),
		liveTab(4, 20, 0, "https://d.example", "D"),
		liveTab(5, 20, 1, placeholderFor("unknown"), "lost"),
	)
	lookup := lookupStub{"u-1": {UniqueID: "u-1", URL: "https://c.example", Title: "C"}}
	store := newTestStore(memkv.New(), memkv.New())
	uc := newSaveSession(t, tabs, store, lookup)

	out, err := uc.Execute(ctx, usecase.SaveSessionInput{Name: "Work"})
	require.NoError(t, err)

	assert.Equal(t, "Work", out.Session.Name)
	assert.Equal(t, 2, out.Session.WindowCount)
	assert.Equal(t, 3, out.Session.TabCount)
	assert.Equal(t, 2, out.Skipped)
	require.Len(t, out.Session.Windows[0].Tabs, 2)
	assert.Equal(t, "https://c.example", out.Session.Windows[0].Tabs[1].URL)
	assert.Equal(t, 1, out.Session.Windows[0].Tabs[1].Index)
	assert.Len(t, out.Captured, 3)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, out.Session.ID, listed[0].ID)
}

func TestSaveSession_SingleWindowAndDefaultName(t *testing.T) {
	ctx := testContext()
	ctrl := gomock.NewController(t)
	tabs := mocks.NewMockTabController(ctrl)
	expectLiveTabs(tabs,
		liveTab(1, 10, 0, "https://a.example", "A"),
		liveTab(4, 20, 0, "https://d.example", "D"),
	)
	store := newTestStore(memkv.New(), memkv.New())
	_, err := store.Add(ctx, makeSession("s0", "Earlier", window(1, tab(1, 0, "x", "https://x.example"))))
	require.NoError(t, err)
	uc := newSaveSession(t, tabs, store, nil)

	out, err := uc.Execute(ctx, usecase.SaveSessionInput{WindowID: 20})
	require.NoError(t, err)
	assert.Equal(t, "Session 2", out.Session.Name)
	assert.Equal(t, 1, out.Session.TabCount)
	assert.Equal(t, "https://d.example", out.Session.Tabs[0].URL)

	_, err = uc.Execute(ctx, usecase.SaveSessionInput{WindowID: 99})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestSaveSession_NothingToSave(t *testing.T) {
	ctx := testContext()
	ctrl := gomock.NewController(t)
	tabs := mocks.NewMockTabController(ctrl)
	expectLiveTabs(tabs, liveTab(1, 10, 0, "about:blank", ""))
	uc := newSaveSession(t, tabs, newTestStore(memkv.New(), memkv.New()), nil)

	_, err := uc.Execute(ctx, usecase.SaveSessionInput{})
	assert.ErrorIs(t, err, usecase.ErrNothingToSave)
}

func TestSaveSession_ListFailure(t *testing.T) {
	ctx := testContext()
	ctrl := gomock.NewController(t)
	tabs := mocks.NewMockTabController(ctrl)
	tabs.EXPECT().ListWindows(gomock.Any()).Return(nil, errors.New("disconnected"))
	uc := newSaveSession(t, tabs, newTestStore(memkv.New(), memkv.New()), nil)

	_, err := uc.Execute(ctx, usecase.SaveSessionInput{})
	require.Error(t, err)
}
