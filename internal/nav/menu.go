// Package nav is the sidebar menu and the per-session shell state around it.
package nav

type Item struct {
	Key      string
	Label    string
	Path     string
	Children []Item
}

func (i Item) IsParent() bool {
	return len(i.Children) > 0
}

type Menu []Item

var memberMenu = Menu{
	{Key: "dashboard", Label: "Dashboard", Path: "/"},
	{Key: "iv-forum", Label: "IV Forum", Path: "/iv-forum"},
	{Key: "leave", Label: "Leave", Children: []Item{
		{Key: "leave-requests", Label: "Leave Requests", Path: "/leaves/request"},
	}},
	{Key: "attendance", Label: "Attendance", Path: "/attendance"},
	{Key: "work-from-home", Label: "Work From Home", Children: []Item{
		{Key: "wfh-requests", Label: "My Requests", Path: "/work-from-home/requests"},
	}},
}

var adminMenu = Menu{
	{Key: "admin-management", Label: "Admin Management", Path: "/admin/manage-records"},
}

// ForRole returns the menu for the session. The admin menu replaces the
// member menu entirely.
func ForRole(isAdmin bool) Menu {
	if isAdmin {
		return adminMenu
	}
	return memberMenu
}

// Find looks up an item by key at any depth.
func (m Menu) Find(key string) (Item, bool) {
	for _, it := range m {
		if it.Key == key {
			return it, true
		}
		for _, child := range it.Children {
			if child.Key == key {
				return child, true
			}
		}
	}
	return Item{}, false
}

// LeafForPath returns the leaf whose path is path, and the key of its parent
// ("" at top level).
func (m Menu) LeafForPath(path string) (leaf Item, parent string, ok bool) {
	for _, it := range m {
		if !it.IsParent() && it.Path == path {
			return it, "", true
		}
		for _, child := range it.Children {
			if child.Path == path {
				return child, it.Key, true
			}
		}
	}
	return Item{}, "", false
}
