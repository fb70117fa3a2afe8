package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/igetcool/icodetest/internal/javasrc"
)

type fakeLookup map[string]*javasrc.Class

func (f fakeLookup) ResolveClass(t javasrc.Type) (*javasrc.Class, bool) {
	if !t.IsClassType() || !t.Resolved {
		return nil, false
	}
	c, ok := f[t.Name]
	return c, ok
}

func resolved(name string, args ...javasrc.Type) javasrc.Type {
	return javasrc.Type{Name: name, Resolved: true, Args: args}
}

func TestDefaultLiteral(t *testing.T) {
	tests := []struct {
		name string
		typ  javasrc.Type
		want string
	}{
		{name: "int", typ: resolved("int"), want: "0"},
		{name: "Integer", typ: resolved("java.lang.Integer"), want: "0"},
		{name: "long", typ: resolved("long"), want: "0L"},
		{name: "Long", typ: resolved("java.lang.Long"), want: "0L"},
		{name: "short", typ: resolved("short"), want: "(short) 0"},
		{name: "Byte", typ: resolved("java.lang.Byte"), want: "(byte) 0"},
		{name: "double", typ: resolved("double"), want: "0.0"},
		{name: "Float", typ: resolved("java.lang.Float"), want: "0.0f"},
		{name: "char", typ: resolved("char"), want: `'\0'`},
		{name: "Boolean", typ: resolved("java.lang.Boolean"), want: "false"},
		{name: "String", typ: resolved("java.lang.String"), want: `"0"`},
		{name: "raw Collection", typ: resolved("java.util.Collection"), want: "new ArrayList<>()"},
		{name: "generic Collection", typ: resolved("java.util.Collection", resolved("java.lang.String")), want: "new ArrayList<>()"},
		{name: "List is not Collection", typ: resolved("java.util.List", resolved("java.lang.String")), want: "null"},
		{name: "int array", typ: javasrc.Type{Name: "int", Resolved: true, ArrayDepth: 1}, want: "new int[0]"},
		{name: "2d String array", typ: javasrc.Type{Name: "java.lang.String", Resolved: true, ArrayDepth: 2}, want: "new java.lang.String[0][]"},
		{name: "custom class", typ: resolved("com.x.Order"), want: "null"},
		{name: "type variable", typ: javasrc.Type{Name: "T", Variable: true}, want: "null"},
		{name: "unresolved", typ: javasrc.Type{Name: "Audit"}, want: "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultLiteral(tt.typ))
		})
	}
}

func TestClassifierPredicates(t *testing.T) {
	lookup := fakeLookup{
		"com.x.Order":     {QualifiedName: "com.x.Order", Kind: javasrc.KindClass},
		"com.x.OrderRepo": {QualifiedName: "com.x.OrderRepo", Kind: javasrc.KindInterface},
		"com.x.Status":    {QualifiedName: "com.x.Status", Kind: javasrc.KindEnum},
		"com.x.Base":      {QualifiedName: "com.x.Base", Kind: javasrc.KindClass, Modifiers: []string{"public", "abstract"}},
	}
	c := New(lookup)

	t.Run("string and void", func(t *testing.T) {
		assert.True(t, c.IsString(resolved("java.lang.String")))
		assert.False(t, c.IsString(javasrc.Type{Name: "java.lang.String", Resolved: true, ArrayDepth: 1}))
		assert.True(t, c.IsVoid(javasrc.Void))
		assert.True(t, c.IsVoid(resolved("java.lang.Void")))
		assert.True(t, c.IsVoid(javasrc.Type{}))
		assert.False(t, c.IsVoid(resolved("int")))
	})

	t.Run("interface-like", func(t *testing.T) {
		assert.False(t, c.IsInterfaceLike(resolved("com.x.Order")))
		assert.True(t, c.IsInterfaceLike(resolved("com.x.OrderRepo")))
		assert.True(t, c.IsInterfaceLike(resolved("com.x.Status")))
		assert.True(t, c.IsInterfaceLike(resolved("com.x.Base")))
		assert.False(t, c.IsInterfaceLike(resolved("java.util.List")))
	})

	t.Run("custom", func(t *testing.T) {
		assert.True(t, c.IsCustom(resolved("com.x.Order")))
		assert.True(t, c.IsCustom(resolved("com.x.OrderRepo", resolved("java.lang.Long"))), "type arguments are erased before lookup")
		assert.False(t, c.IsCustom(resolved("java.lang.String")))
		assert.False(t, c.IsCustom(resolved("java.util.List")))
		assert.False(t, c.IsCustom(javasrc.Type{Name: "com.x.Order", Resolved: true, ArrayDepth: 1}))
	})

	t.Run("resolves to class", func(t *testing.T) {
		assert.True(t, c.ResolvesToClass(resolved("java.util.List")))
		assert.True(t, c.ResolvesToClass(resolved("com.x.Order")))
		assert.False(t, c.ResolvesToClass(resolved("int")))
		assert.False(t, c.ResolvesToClass(javasrc.Type{Name: "T", Variable: true}))
		assert.False(t, c.ResolvesToClass(javasrc.Type{Name: "Audit"}))
	})

	t.Run("nil lookup", func(t *testing.T) {
		bare := New(nil)
		assert.False(t, bare.IsCustom(resolved("com.x.Order")))
		assert.False(t, bare.IsInterfaceLike(resolved("com.x.OrderRepo")))
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Primitive, KindOf(resolved("int")))
	assert.Equal(t, Boxed, KindOf(resolved("java.lang.Character")))
	assert.Equal(t, String, KindOf(resolved("java.lang.String")))
	assert.Equal(t, Array, KindOf(javasrc.Type{Name: "int", Resolved: true, ArrayDepth: 1}))
	assert.Equal(t, Other, KindOf(javasrc.Type{}))
	assert.Equal(t, "collection", Collection.String())
}
