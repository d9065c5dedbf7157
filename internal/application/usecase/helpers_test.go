package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/domain/repository"
	"github.com/bnema/omni/internal/infrastructure/persistence/memkv"
	"github.com/bnema/omni/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

var baseTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// sequentialIDs returns ids "id-1", "id-2", ...
func sequentialIDs() func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// faultyKV wraps a memkv store and fails Set while failSet returns an error.
type faultyKV struct {
	*memkv.Store

	mu      sync.Mutex
	failSet func(entries map[string]json.RawMessage) error
	failGet error
	sets    int
}

var _ repository.KeyValueStore = (*faultyKV)(nil)

func newFaultyKV() *faultyKV {
	return &faultyKV{Store: memkv.New()}
}

func (f *faultyKV) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	f.mu.Lock()
	err := f.failGet
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.Store.Get(ctx, keys...)
}

func (f *faultyKV) Set(ctx context.Context, entries map[string]json.RawMessage) error {
	if err := f.beforeSet(entries); err != nil {
		return err
	}
	return f.Store.Set(ctx, entries)
}

// Update goes through the same failure hooks as Get and Set.
func (f *faultyKV) Update(ctx context.Context, key string, fn func(json.RawMessage) (json.RawMessage, error)) error {
	f.mu.Lock()
	err := f.failGet
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Store.Update(ctx, key, func(current json.RawMessage) (json.RawMessage, error) {
		next, err := fn(current)
		if err != nil {
			return nil, err
		}
		if err := f.beforeSet(map[string]json.RawMessage{key: next}); err != nil {
			return nil, err
		}
		return next, nil
	})
}

func (f *faultyKV) beforeSet(entries map[string]json.RawMessage) error {
	f.mu.Lock()
	f.sets++
	fail := f.failSet
	f.mu.Unlock()
	if fail != nil {
		return fail(entries)
	}
	return nil
}

func (f *faultyKV) setFailure(fn func(entries map[string]json.RawMessage) error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSet = fn
}

func (f *faultyKV) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

// failTimes fails the first n calls with err.
func failTimes(n int, err error) func(map[string]json.RawMessage) error {
	var mu sync.Mutex
	return func(map[string]json.RawMessage) error {
		mu.Lock()
		defer mu.Unlock()
		if n > 0 {
			n--
			return err
		}
		return nil
	}
}

func alwaysFail(err error) func(map[string]json.RawMessage) error {
	return func(map[string]json.RawMessage) error { return err }
}

func tab(windowID, index int, title, url string) entity.TabSnapshot {
	return entity.TabSnapshot{
		URL:      url,
		Title:    title,
		WindowID: windowID,
		Index:    index,
		Saved:    entity.NewTimestamp(baseTime),
	}
}

func makeSession(id, name string, windows ...entity.WindowGroup) entity.Session {
	return entity.NewSession(entity.SessionID(id), name, windows, baseTime)
}

func window(id int, tabs ...entity.TabSnapshot) entity.WindowGroup {
	return entity.WindowGroup{WindowID: id, Tabs: tabs}
}

func readSessions(ctx context.Context, kv repository.KeyValueStore, key string) []entity.Session {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		panic(err)
	}
	sessions, err := entity.DecodeSessions(raw[key])
	if err != nil {
		panic(err)
	}
	return sessions
}

func sessionIDs(sessions []entity.Session) []entity.SessionID {
	ids := make([]entity.SessionID, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}

// memMirror is an in-memory bookmark tree.
type memMirror struct {
	mu    sync.Mutex
	next  int
	nodes map[entity.BookmarkID]entity.BookmarkNode
	order []entity.BookmarkID
}

var _ repository.BookmarkMirror = (*memMirror)(nil)

func newMemMirror() *memMirror {
	return &memMirror{nodes: make(map[entity.BookmarkID]entity.BookmarkNode)}
}

func (m *memMirror) create(parent entity.BookmarkID, url, title string) (entity.BookmarkNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if parent != "" {
		if _, ok := m.nodes[parent]; !ok {
			return entity.BookmarkNode{}, entity.ErrNotFound
		}
	}
	m.next++
	pos := 0
	for _, id := range m.order {
		if m.nodes[id].ParentID == parent {
			pos++
		}
	}
	n := entity.BookmarkNode{
		ID:       entity.BookmarkID(fmt.Sprintf("b%d", m.next)),
		ParentID: parent,
		Title:    title,
		URL:      url,
		Position: pos,
	}
	m.nodes[n.ID] = n
	m.order = append(m.order, n.ID)
	return n, nil
}

func (m *memMirror) CreateFolder(_ context.Context, parent entity.BookmarkID, title string) (entity.BookmarkNode, error) {
	return m.create(parent, "", title)
}

func (m *memMirror) CreateLeaf(_ context.Context, parent entity.BookmarkID, url, title string) (entity.BookmarkNode, error) {
	return m.create(parent, url, title)
}

func (m *memMirror) ListChildren(_ context.Context, parent entity.BookmarkID) ([]entity.BookmarkNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.BookmarkNode
	for _, id := range m.order {
		if n := m.nodes[id]; n.ParentID == parent {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memMirror) RemoveSubtree(_ context.Context, id entity.BookmarkID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[id]; !ok {
		return entity.ErrNotFound
	}
	remove := map[entity.BookmarkID]bool{id: true}
	for changed := true; changed; {
		changed = false
		for _, nid := range m.order {
			if !remove[nid] && remove[m.nodes[nid].ParentID] {
				remove[nid] = true
				changed = true
			}
		}
	}
	kept := m.order[:0]
	for _, nid := range m.order {
		if remove[nid] {
			delete(m.nodes, nid)
			continue
		}
		kept = append(kept, nid)
	}
	m.order = kept
	return nil
}

// titles returns the titles of the children of the folder reached by path.
func (m *memMirror) titles(path ...string) []string {
	ctx := context.Background()
	parent := entity.BookmarkID("")
	for _, title := range path {
		children, _ := m.ListChildren(ctx, parent)
		found := false
		for _, c := range children {
			if c.Title == title {
				parent, found = c.ID, true
				break
			}
		}
		if !found {
			return nil
		}
	}
	children, _ := m.ListChildren(ctx, parent)
	out := make([]string, len(children))
	for i, c := range children {
		out[i] = c.Title
	}
	return out
}
