package admin

import (
	"context"
	"sync"

	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
	userdm "github.com/frahmantamala/jinzai/internal/core/datamodel/user"
	wfhdm "github.com/frahmantamala/jinzai/internal/core/datamodel/wfh"
	"github.com/frahmantamala/jinzai/internal/listdetail"
)

// Screen is one session's state of the manage-records page: the user list
// and the records of the selected user.
//
// mu guards every field. Backend calls are made without holding it; results
// are applied only while the ticket they were fetched for is still current.
type Screen struct {
	mu sync.Mutex

	users       *listdetail.Collection[int64, userdm.User]
	usersLoaded bool
	listErr     string

	selection listdetail.Selection[int64]
	detail    *userdm.User
	leaves    []leavedm.LeaveRequest
	wfh       []wfhdm.WfhRequest
	detailErr string
	loading   bool
}

func NewScreen() *Screen {
	return &Screen{
		users: listdetail.NewCollection(func(u userdm.User) int64 { return u.ID }),
	}
}

// Snapshot is a copy of the screen for rendering.
type Snapshot struct {
	Users       []userdm.User
	UsersLoaded bool
	ListError   string

	SelectedID  int64
	HasSelected bool
	Selected    *userdm.User
	Leaves      []leavedm.LeaveRequest
	WFH         []wfhdm.WfhRequest
	DetailError string
	Loading     bool
}

func (s *Screen) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.selection.Selected()
	snap := Snapshot{
		Users:       s.users.Items(),
		UsersLoaded: s.usersLoaded,
		ListError:   s.listErr,
		SelectedID:  id,
		HasSelected: ok,
		Leaves:      append([]leavedm.LeaveRequest(nil), s.leaves...),
		WFH:         append([]wfhdm.WfhRequest(nil), s.wfh...),
		DetailError: s.detailErr,
		Loading:     s.loading,
	}
	if s.detail != nil {
		u := *s.detail
		snap.Selected = &u
	}
	return snap
}

// Close cancels any in-flight selection fetch.
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSelectionLocked()
}

func (s *Screen) loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usersLoaded
}

func (s *Screen) setUsers(users []userdm.User, err string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = err
	if err != "" {
		return
	}
	s.users.Replace(users)
	s.usersLoaded = true
}

// begin selects id and resets the detail state for it.
func (s *Screen) begin(ctx context.Context, id int64) listdetail.Ticket[int64] {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.selection.Begin(ctx, id)
	s.detail = nil
	s.leaves = nil
	s.wfh = nil
	s.detailErr = ""
	s.loading = true
	return t
}

// finish applies the fetched records and reports whether t was still current.
func (s *Screen) finish(t listdetail.Ticket[int64], u userdm.User, leaves []leavedm.LeaveRequest, wfh []wfhdm.WfhRequest, errMsg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.selection.Current(t) {
		return false
	}
	s.loading = false
	if errMsg != "" {
		s.detailErr = errMsg
		return true
	}
	s.detail = &u
	s.leaves = leaves
	s.wfh = wfh
	s.users.Upsert(u)
	return true
}

func (s *Screen) clearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSelectionLocked()
}

func (s *Screen) clearSelectionLocked() {
	s.selection.Clear()
	s.detail = nil
	s.leaves = nil
	s.wfh = nil
	s.detailErr = ""
	s.loading = false
}

func (s *Screen) selected() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Selected()
}

func (s *Screen) upsertUser(u userdm.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users.Upsert(u)
	if id, ok := s.selection.Selected(); ok && id == u.ID {
		s.detail = &u
	}
}

func (s *Screen) removeUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users.Remove(id)
	if sel, ok := s.selection.Selected(); ok && sel == id {
		s.clearSelectionLocked()
	}
}

func (s *Screen) appendLeave(userID int64, l leavedm.LeaveRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sel, ok := s.selection.Selected(); ok && sel == userID {
		s.leaves = append(s.leaves, l)
	}
}

func (s *Screen) replaceLeaves(userID int64, leaves []leavedm.LeaveRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sel, ok := s.selection.Selected(); ok && sel == userID {
		s.leaves = leaves
	}
}

// NewRegistry keeps one Screen per session.
func NewRegistry() *listdetail.Registry[*Screen] {
	return listdetail.NewRegistry(NewScreen)
}
