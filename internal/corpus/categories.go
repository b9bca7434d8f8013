package corpus

import (
	"math"
	"time"

	"github.com/roach88/hashdrift/internal/graph"
)

func simpleTypes() []Case {
	return []Case{
		{"int", graph.Int(42)},
		{"float", graph.Float(3.14159265358979323846)},
		{"bool", graph.Bool(true)},
		{"str", graph.Str("Hello, World!")},
		{"bytes", graph.Bytes("Binary data")},
		{"none", graph.None{}},
		{"complex", graph.Complex(complex(3, 4))},
	}
}

func ints(ns ...int64) []graph.Value {
	out := make([]graph.Value, len(ns))
	for i, n := range ns {
		out[i] = graph.Int(n)
	}
	return out
}

func complexStructures() []Case {
	return []Case{
		{"nested_list", graph.NewList(
			graph.Int(1),
			graph.NewList(graph.Int(2), graph.Int(3)),
			graph.NewList(graph.Int(4), graph.NewList(graph.Int(5), graph.Int(6))),
		)},
		{"nested_dict", graph.NewDict(
			graph.E("a", graph.Int(1)),
			graph.E("b", graph.NewDict(
				graph.E("c", graph.Int(2)),
				graph.E("d", graph.NewDict(graph.E("e", graph.Int(3)))),
			)),
		)},
		{"mixed_nested", graph.NewDict(
			graph.E("name", graph.Str("Test")),
			graph.E("data", graph.NewList(graph.Int(1), graph.Int(2), graph.NewDict(graph.E("key", graph.Str("value"))))),
		)},
		{"tuple_with_various_types", graph.NewTuple(
			graph.Int(1), graph.Str("string"), graph.Float(3.14), graph.Bytes("bytes"), graph.None{},
		)},
		{"set", graph.NewSet(ints(1, 2, 3, 4, 5)...)},
		{"frozenset", graph.NewFrozenSet(ints(1, 2, 3, 4, 5)...)},
		{"namedtuple", Person.New(graph.Str("A Person"), graph.Int(10), graph.Str("just@email.com"))},
		{"defaultdict", graph.NewDefaultMap(graph.ListFactory,
			graph.E("a", graph.NewList(ints(1, 2)...)),
			graph.E("b", graph.NewList(ints(3, 4)...)),
		)},
		{"ordereddict", graph.NewOrderedMap(
			graph.E("a", graph.Int(1)),
			graph.E("b", graph.Int(2)),
			graph.E("c", graph.Int(3)),
		)},
		{"custom_object", NewCustomClass("test_object", graph.Int(42))},
		{"datetime", graph.NewTimestamp(2023, time.January, 1, 12, 0, 0, 0)},
		{"complex_mix", complexMix()},
	}
}

func complexMix() graph.Value {
	return graph.NewDict(
		graph.E("basic_types", graph.NewList(
			graph.Int(1), graph.Float(2.0), graph.Str("three"), graph.Bytes("four"),
			graph.None{}, graph.Complex(complex(5, 6)),
		)),
		graph.E("structured", graph.NewDict(
			graph.E("tuple", graph.NewTuple(ints(7, 8, 9)...)),
			graph.E("set", graph.NewSet(ints(10, 11, 12)...)),
			graph.E("custom", NewCustomClass("nested", graph.Int(13))),
			graph.E("timestamp", graph.NewTimestamp(2023, time.February, 3, 14, 15, 16, 0)),
		)),
		graph.E("collection", graph.NewList(
			Person.New(graph.Str("Alice"), graph.Int(25), graph.Str("alice@example.com")),
			Person.New(graph.Str("Bob"), graph.Int(30), graph.Str("bob@example.com")),
		)),
	)
}

func floatingPointPrecision() []Case {
	// Operands are variables so the sum is rounded at run time.
	a, b := 0.1, 0.2
	return []Case{
		{"floating_addition", graph.Float(a + b)},
		{"pi", graph.Float(math.Pi)},
		{"euler", graph.Float(math.E)},
		{"low number", graph.Float(1e-10)},
		{"higher number", graph.Float(1e10)},
		{"float_inf", graph.Float(math.Inf(1))},
		{"float_-inf", graph.Float(math.Inf(-1))},
		{"float_nan", graph.Float(math.NaN())},
	}
}

func numericSpecialValues() []Case {
	negZero := math.Copysign(0, -1)
	return []Case{
		{"np_inf", graph.Float(math.Inf(1))},
		{"np_neg_inf", graph.Float(math.Inf(-1))},
		{"np_nan", graph.Float(math.NaN())},
		{"np_float", graph.Float32(0)},
		{"np_float_-", graph.Float32(float32(negZero))},
		{"f64_zero", graph.Float(0)},
		{"f64_neg_zero", graph.Float(negZero)},
	}
}

func circularReferences() []Case {
	a := graph.NewList()
	b := graph.NewList(a)
	a.Append(b)

	shared := graph.NewList(graph.Str("shared"))

	return []Case{
		{"circular_ref", a},
		{"nested_circular_ref", graph.NewDict(graph.E("a", a), graph.E("b", b))},
		{"custom_circular_ref", NewCustomClass("circular", a)},
		{"shared_ref", graph.NewList(shared, shared)},
	}
}
