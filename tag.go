package river

import (
	"fmt"
	"sync"
)

// Category classifies streamlets. Values are interned ids handed out by
// RegisterCategory, so new kinds of nodes can be added without changing
// Tag. The zero value is Unknown.
type Category uint32

// Predeclared categories.
var (
	Unknown       = RegisterCategory("Unknown")
	DefaultInput  = RegisterCategory("DefaultInput")
	DefaultOutput = RegisterCategory("DefaultOutput")
	Mix           = RegisterCategory("Mix")
	// SingleUnit marks a streamlet that only wraps one unit.
	SingleUnit = RegisterCategory("SingleUnit")
)

var categories = struct {
	sync.RWMutex
	names []string
	ids   map[string]Category
}{
	ids: make(map[string]Category),
}

// RegisterCategory returns the category registered under the name,
// allocating a new one if needed.
func RegisterCategory(name string) Category {
	categories.Lock()
	defer categories.Unlock()
	if c, ok := categories.ids[name]; ok {
		return c
	}
	c := Category(len(categories.names))
	categories.names = append(categories.names, name)
	categories.ids[name] = c
	return c
}

// String returns the name the category was registered with.
func (c Category) String() string {
	categories.RLock()
	defer categories.RUnlock()
	if int(c) < len(categories.names) {
		return categories.names[c]
	}
	return fmt.Sprintf("Category(%d)", uint32(c))
}

// Tag builds a tag of this category. Empty name is replaced with the
// default node name of the category.
func (c Category) Tag(name string) Tag {
	if name == "" {
		name = c.String() + "Streamlet"
	}
	return Tag{Name: name, Category: c}
}

// Tag identifies a streamlet within a river. Zero value denotes an
// unknown node.
type Tag struct {
	Name     string
	Category Category
}

// Equal reports whether both name and category match.
func (t Tag) Equal(o Tag) bool {
	return t.Name == o.Name && t.Category == o.Category
}

// Less orders tags by name and then by category id.
func (t Tag) Less(o Tag) bool {
	if t.Name != o.Name {
		return t.Name < o.Name
	}
	return t.Category < o.Category
}

func (t Tag) String() string {
	return fmt.Sprintf("[name: %s, category: %v]", t.Name, t.Category)
}
