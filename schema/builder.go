package schema

// ObjectBuilder assembles an object definition property by property.
type ObjectBuilder struct {
	obj *Object
}

func BuildObject() *ObjectBuilder {
	return &ObjectBuilder{obj: NewObject()}
}

func (b *ObjectBuilder) Description(desc string) *ObjectBuilder {
	b.obj.SetDescription(desc)
	return b
}

func (b *ObjectBuilder) Property(name string, ty Type) *ObjectBuilder {
	b.obj.AddProperty(name, ty)
	return b
}

func (b *ObjectBuilder) Done() *Object {
	return b.obj
}

// EnumBuilder assembles an enum definition variant by variant.
type EnumBuilder struct {
	enum *Enum
}

func BuildEnum() *EnumBuilder {
	return &EnumBuilder{enum: NewEnum()}
}

func (b *EnumBuilder) Description(desc string) *EnumBuilder {
	b.enum.SetDescription(desc)
	return b
}

func (b *EnumBuilder) Variant(name string, value int64) *EnumBuilder {
	b.enum.AddVariant(name, value)
	return b
}

func (b *EnumBuilder) Done() *Enum {
	return b.enum
}
