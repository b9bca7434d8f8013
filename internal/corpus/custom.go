package corpus

import "github.com/roach88/hashdrift/internal/graph"

// CustomClass is the user-defined record of the corpus: a name and an
// arbitrary value.
type CustomClass struct {
	Name  string
	Value graph.Value
}

// NewCustomClass wraps a CustomClass as a graph value.
func NewCustomClass(name string, value graph.Value) *graph.Object {
	return graph.NewObject(&CustomClass{Name: name, Value: value})
}

func (c *CustomClass) TypeName() string { return "CustomClass" }

func (c *CustomClass) Fields() []graph.Field {
	return []graph.Field{
		{Name: "name", Value: graph.Str(c.Name)},
		{Name: "value", Value: c.Value},
	}
}

// EqualRecord compares name and value.
func (c *CustomClass) EqualRecord(other graph.Record, eq func(a, b graph.Value) bool) bool {
	o, ok := other.(*CustomClass)
	if !ok {
		return false
	}
	return c.Name == o.Name && eq(c.Value, o.Value)
}

// Person is the fixed-shape record of the corpus.
var Person = graph.DefineRecord("Person", "name", "age", "email")
