package runtime

// ClassSource identifies a reflectable class. A class either carries a
// stable global name or, for script classes without one, the storage
// location of its script.
type ClassSource struct {
	// Name is the qualified class name. Empty for unnamed classes.
	Name string `json:"name,omitempty"`
	// Path locates the defining script when the class has no global name.
	Path string `json:"path,omitempty"`
}

// NamedClass returns the source identity of a globally named class.
func NamedClass(name string) ClassSource {
	return ClassSource{Name: name}
}

// UnnamedClass returns the source identity of a script class without a
// global name, derived from the script's storage location.
func UnnamedClass(path string) ClassSource {
	return ClassSource{Path: path}
}

// ID returns the stable identity string used as the definitions-table key
// and as the schema cache key. Two generations of the same ID must be
// interchangeable.
func (s ClassSource) ID() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Path
}

func (s ClassSource) IsZero() bool {
	return s.Name == "" && s.Path == ""
}

func (s ClassSource) Equal(other ClassSource) bool {
	return s == other
}

func (s ClassSource) String() string {
	return s.ID()
}
