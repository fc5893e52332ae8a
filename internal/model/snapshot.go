package model

// Snapshot is the complete {todos, categories, tags} state held by the
// local store, serialized as a single JSON value.
type Snapshot struct {
	Todos      []Todo     `json:"todos"`
	Categories []Category `json:"categories"`
	Tags       []Tag      `json:"tags"`
}

// UserData is a snapshot plus the owner's migration flag, as returned by
// the database store.
type UserData struct {
	Todos      []Todo     `json:"todos"`
	Categories []Category `json:"categories"`
	Tags       []Tag      `json:"tags"`
	Migrated   bool       `json:"migrated"`
}

// CategoryByID returns the category with the given id, or nil.
func (d UserData) CategoryByID(id string) *Category {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return &d.Categories[i]
		}
	}
	return nil
}

// TagByID returns the tag with the given id, or nil.
func (d UserData) TagByID(id string) *Tag {
	for i := range d.Tags {
		if d.Tags[i].ID == id {
			return &d.Tags[i]
		}
	}
	return nil
}

// TodoByID returns the todo with the given id, or nil.
func (d UserData) TodoByID(id string) *Todo {
	for i := range d.Todos {
		if d.Todos[i].ID == id {
			return &d.Todos[i]
		}
	}
	return nil
}

// DefaultCategories returns the category set seeded into every new local
// snapshot and every newly created database user.
func DefaultCategories() []Category {
	return []Category{
		{ID: "personal", Name: "Personal", Icon: "User", Color: "#6366f1"},
		{ID: "work", Name: "Work", Icon: "Briefcase", Color: "#f59e0b"},
		{ID: "study", Name: "Study", Icon: "BookOpen", Color: "#10b981"},
		{ID: "health", Name: "Health", Icon: "Heart", Color: "#ef4444"},
	}
}

// DefaultTags returns the tag set seeded alongside DefaultCategories.
func DefaultTags() []Tag {
	return []Tag{
		{ID: "urgent", Name: "Urgent", Color: "#ef4444"},
		{ID: "important", Name: "Important", Color: "#f59e0b"},
		{ID: "later", Name: "Later", Color: "#6b7280"},
		{ID: "idea", Name: "Idea", Color: "#8b5cf6"},
	}
}

// NewSnapshot returns the seeded initial state: default categories and
// tags, no todos.
func NewSnapshot() Snapshot {
	return Snapshot{
		Todos:      []Todo{},
		Categories: DefaultCategories(),
		Tags:       DefaultTags(),
	}
}
