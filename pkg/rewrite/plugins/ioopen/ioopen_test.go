package ioopen

import (
	"testing"

	"github.com/leapstack-labs/leapup/pkg/rewrite/rewritetest"
)

func TestIOOpen(t *testing.T) {
	rewritetest.Run(t, Module, []rewritetest.Case{
		{Name: "plain", Src: "io.open('f')\n", Want: "open('f')\n"},
		{Name: "with mode", Src: "with io.open('f', 'r') as fh:\n    pass\n", Want: "with open('f', 'r') as fh:\n    pass\n"},
		{Name: "spaced attribute", Src: "io . open('f')\n", Want: "open('f')\n"},
		{Name: "nested", Src: "print(io.open(io.open('a').name).read())\n", Want: "print(open(open('a').name).read())\n"},
		{Name: "builtin untouched", Src: "open('f')\n"},
		{Name: "other module", Src: "codecs.open('f')\n"},
		{Name: "reference only", Src: "fn = io.open\n"},
	})
}
