package services

import (
	"context"
	"errors"
	"sync"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/messaging"
)

type memoryOptions struct {
	values  map[string][]byte
	failGet error
	reads   int
}

func newMemoryOptions() *memoryOptions {
	return &memoryOptions{values: make(map[string][]byte)}
}

func (m *memoryOptions) Get(_ context.Context, name string) ([]byte, bool, error) {
	m.reads++
	if m.failGet != nil {
		return nil, false, m.failGet
	}
	v, ok := m.values[name]
	return v, ok, nil
}

func (m *memoryOptions) Set(_ context.Context, name string, value []byte) error {
	m.values[name] = append([]byte(nil), value...)
	return nil
}

type memoryPosts struct {
	posts map[int64]*content.PostNode
	next  int64
}

func newMemoryPosts() *memoryPosts {
	return &memoryPosts{posts: make(map[int64]*content.PostNode)}
}

func (m *memoryPosts) FindByID(_ context.Context, id int64) (*content.PostNode, error) {
	return m.posts[id], nil
}

func (m *memoryPosts) FindAll(_ context.Context) ([]*content.PostNode, error) {
	out := make([]*content.PostNode, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	return out, nil
}

func (m *memoryPosts) Store(_ context.Context, post *content.PostNode) error {
	m.next++
	post.ID = m.next
	m.posts[post.ID] = post
	return nil
}

type memoryMeta struct {
	rows  map[int64]map[string][]string
	loads int
}

func newMemoryMeta() *memoryMeta {
	return &memoryMeta{rows: make(map[int64]map[string][]string)}
}

func (m *memoryMeta) LoadAll(_ context.Context, postID int64) (map[string][]string, error) {
	m.loads++
	out := make(map[string][]string)
	for k, v := range m.rows[postID] {
		out[k] = append([]string(nil), v...)
	}
	return out, nil
}

func (m *memoryMeta) Replace(_ context.Context, postID int64, key, value string) error {
	if m.rows[postID] == nil {
		m.rows[postID] = make(map[string][]string)
	}
	m.rows[postID][key] = []string{value}
	return nil
}

func (m *memoryMeta) Delete(_ context.Context, postID int64, key string) error {
	delete(m.rows[postID], key)
	return nil
}

type memoryPostTypes struct {
	types map[string]*content.PostTypeNode
}

func newMemoryPostTypes() *memoryPostTypes {
	return &memoryPostTypes{types: map[string]*content.PostTypeNode{
		"post":       {Name: "post", Label: "Posts", Public: true, SupportsThumbnail: true},
		"page":       {Name: "page", Label: "Pages", Public: true, SupportsThumbnail: true},
		"attachment": {Name: "attachment", Label: "Media", Public: true},
		"note":       {Name: "note", Label: "Notes", Public: true, SupportsThumbnail: false},
	}}
}

func (m *memoryPostTypes) FindByName(_ context.Context, name string) (*content.PostTypeNode, error) {
	return m.types[name], nil
}

func (m *memoryPostTypes) FindAll(_ context.Context) ([]*content.PostTypeNode, error) {
	out := make([]*content.PostTypeNode, 0, len(m.types))
	for _, pt := range m.types {
		out = append(out, pt)
	}
	return out, nil
}

func (m *memoryPostTypes) FindPublic(ctx context.Context) ([]*content.PostTypeNode, error) {
	all, _ := m.FindAll(ctx)
	out := make([]*content.PostTypeNode, 0, len(all))
	for _, pt := range all {
		if pt.Public {
			out = append(out, pt)
		}
	}
	return out, nil
}

func (m *memoryPostTypes) Store(_ context.Context, pt *content.PostTypeNode) error {
	m.types[pt.Name] = pt
	return nil
}

type memoryFiles struct {
	files     map[int64]*content.ImageFileNode
	next      int64
	failStore error
}

func newMemoryFiles() *memoryFiles {
	return &memoryFiles{files: make(map[int64]*content.ImageFileNode)}
}

func (m *memoryFiles) FindByID(_ context.Context, id int64) (*content.ImageFileNode, error) {
	return m.files[id], nil
}

func (m *memoryFiles) FindAll(_ context.Context) ([]*content.ImageFileNode, error) {
	out := make([]*content.ImageFileNode, 0, len(m.files))
	for _, f := range m.files {
		out = append(out, f)
	}
	return out, nil
}

func (m *memoryFiles) FindByIDs(_ context.Context, ids []int64) ([]*content.ImageFileNode, error) {
	out := make([]*content.ImageFileNode, 0, len(ids))
	for _, id := range ids {
		if f, ok := m.files[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memoryFiles) Store(_ context.Context, f *content.ImageFileNode) error {
	if m.failStore != nil {
		return m.failStore
	}
	m.next++
	f.ID = m.next
	m.files[f.ID] = f
	return nil
}

func (m *memoryFiles) Delete(_ context.Context, id int64) error {
	delete(m.files, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []messaging.SettingsEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e messaging.SettingsEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

var errStorage = errors.New("storage offline")
