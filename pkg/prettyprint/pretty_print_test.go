package prettyprint

import (
	"strings"
	"testing"
	"time"
)

func TestPrettyPrint(t *testing.T) {
	cases := []struct {
		in  Doc
		out string
	}{
		{
			Seq([]Doc{Text("foo"), Text(" "), Text("bar")}),
			`foo bar`,
		},
		{
			Call("halt", nil),
			`halt`,
		},
		{
			Call("p", []Doc{Text("Z"), Call("h", []Doc{Text("Z"), Text("W")}), Call("f", []Doc{Text("W")})}),
			`p(Z, h(Z, W), f(W))`,
		},
		{
			Seq([]Doc{Text("facts:"), Newline, Indent(2, Lines([]Doc{
				Call("p", []Doc{Textf("_%d", 0), Textf("_%d", 0)}),
				Call("q", []Doc{Text("a")}),
			}))}),
			`facts:
  p(_0, _0)
  q(a)`,
		},
		{
			Lines([]Doc{
				Seq([]Doc{Text("X"), Text(" = "), Text("a")}),
				Text("yes"),
			}),
			`X = a
yes`,
		},
	}

	for idx, testCase := range cases {
		actual := testCase.in.String()
		if actual != testCase.out {
			t.Fatalf("case %d:\nEXPECTED\n\n%s\n\nGOT\n\n%s", idx, testCase.out, actual)
		}
	}
}

func TestDebug(t *testing.T) {
	doc := Seq([]Doc{Call("f", []Doc{Text("x")}), Indent(2, Newline)})
	expected := `Seq(Seq(Text("f"), Text("("), Seq(Text("x")), Text(")")), Indent(2, Newline))`
	if actual := doc.Debug(); actual != expected {
		t.Fatalf("expected %s; got %s", expected, actual)
	}
}

func TestDeeplyNestedCall(t *testing.T) {
	const depth = 100000
	doc := Text("z")
	for i := 0; i < depth; i++ {
		doc = Call("s", []Doc{doc})
	}

	start := time.Now()
	actual := doc.String()
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("rendering %d levels took %v", depth, elapsed)
	}

	expected := strings.Repeat("s(", depth) + "z" + strings.Repeat(")", depth)
	if actual != expected {
		t.Fatalf("rendered %d bytes; expected %d", len(actual), len(expected))
	}
}
