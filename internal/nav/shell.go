package nav

import (
	"sync"

	"github.com/frahmantamala/jinzai/internal/view"
)

type Action int

const (
	ActionNone Action = iota
	ActionNavigate
	ActionToggle
)

const defaultTitle = "Dashboard"

// Shell is the per-session navigation state: the active leaf and the set of
// expanded parents.
type Shell struct {
	mu       sync.Mutex
	active   string
	title    string
	expanded map[string]bool
}

func NewShell() *Shell {
	return &Shell{expanded: make(map[string]bool)}
}

// Select handles a click on key. A leaf becomes active and its path is
// returned for navigation; a parent only toggles its children.
func (s *Shell) Select(m Menu, key string) (Action, string) {
	item, ok := m.Find(key)
	if !ok {
		return ActionNone, ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if item.IsParent() {
		s.expanded[key] = !s.expanded[key]
		return ActionToggle, ""
	}
	s.active = item.Key
	s.title = item.Label
	return ActionNavigate, item.Path
}

// Sync marks the leaf for path active and expands its parent. Paths outside
// the menu leave the state unchanged.
func (s *Shell) Sync(m Menu, path string) {
	leaf, parent, ok := m.LeafForPath(path)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = leaf.Key
	s.title = leaf.Label
	if parent != "" {
		s.expanded[parent] = true
	}
}

func (s *Shell) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Shell) Expanded(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded[key]
}

func (s *Shell) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.title == "" {
		return defaultTitle
	}
	return s.title
}

func (s *Shell) Model(m Menu, isAdmin bool) view.NavModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]view.NavItem, 0, len(m))
	for _, it := range m {
		ni := view.NavItem{
			Key:      it.Key,
			Label:    it.Label,
			Path:     it.Path,
			Active:   it.Key == s.active,
			Expanded: s.expanded[it.Key],
		}
		for _, child := range it.Children {
			ni.Children = append(ni.Children, view.NavItem{
				Key:    child.Key,
				Label:  child.Label,
				Path:   child.Path,
				Active: child.Key == s.active,
			})
		}
		items = append(items, ni)
	}

	title := s.title
	if title == "" {
		title = defaultTitle
	}
	return view.NavModel{Items: items, Title: title, IsAdmin: isAdmin}
}
