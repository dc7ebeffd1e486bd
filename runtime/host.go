package runtime

// Host is the reflection capability supplied by the surrounding system. The
// schema compiler never assumes a specific construction protocol; everything
// it needs from the object runtime goes through this interface.
type Host interface {
	// LookupClass resolves a class name to its source identity. It fails if
	// the name is known to neither the engine class registry nor the global
	// script class list.
	LookupClass(name string) (ClassSource, error)

	// Properties returns the ordered property descriptors of a class. Order
	// is preserved in generated schemas for deterministic output.
	Properties(source ClassSource) ([]PropertyInfo, error)

	// EnumVariants returns the ordered name/value variants of an enum
	// declared on the given class.
	EnumVariants(source ClassSource, enumName string) ([]EnumVariant, error)

	// New constructs a blank instance of the class.
	New(source ClassSource) (Instance, error)
}

// Instance is a host object under construction. Property values are the
// native values produced by the instantiation pass.
type Instance interface {
	SetProperty(name string, value any) error
}

// EnumVariant is one named integer variant of a class enum.
type EnumVariant struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}
