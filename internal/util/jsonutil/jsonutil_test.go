package jsonutil

import (
	"testing"

	"catspark/internal/tester"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"[1,2]", "[1,2]"},
		{"```json\n[1,2]\n```", "[1,2]"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  ```JSON\n[1]\n```  ", "[1]"},
		{"no json here", "no json here"},
	}
	for _, c := range cases {
		tester.Eq(t, StripFences(c.in), c.want, c.in)
	}
}

func TestUnmarshalLenient(t *testing.T) {
	var out []int

	tester.NoErr(t, UnmarshalLenient("[1,2,3]", &out))
	tester.Eq(t, out, []int{1, 2, 3})

	out = nil
	tester.NoErr(t, UnmarshalLenient("```json\n[4,5]\n```", &out))
	tester.Eq(t, out, []int{4, 5})

	out = nil
	tester.NoErr(t, UnmarshalLenient("Here you go:\n[6] hope it helps", &out))
	tester.Eq(t, out, []int{6})

	var obj map[string]string
	tester.NoErr(t, UnmarshalLenient(`prose {"k":"v [1]"} trailing`, &obj))
	tester.Eq(t, obj["k"], "v [1]")

	if err := UnmarshalLenient("not json at all", &out); err == nil {
		t.Fatal("expected error for unparseable input")
	}
}
