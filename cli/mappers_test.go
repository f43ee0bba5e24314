package main

import (
	"testing"

	"github.com/BertoldVdb/dmx-tools/dmxhal"
	"github.com/alecthomas/kong"
)

type mapperArgs struct {
	Index     int           `type:"int"`
	StartCode int           `type:"hex" default:"-1"`
	Format    dmxhal.Format `type:"format" default:"8N1"`
}

func TestMappers(t *testing.T) {
	tests := []struct {
		args   []string
		index  int
		code   int
		format dmxhal.Format
	}{
		{nil, 0, -1, dmxhal.Format8N1},
		{[]string{"--index=3", "--start-code=cc"}, 3, 0xCC, dmxhal.Format8N1},
		{[]string{"--index=0x2", "--start-code=17", "--format=8e2"}, 2, 0x17, dmxhal.Format8E2},
	}

	for _, tc := range tests {
		var args mapperArgs
		k, err := kong.New(&args, mappers()...)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := k.Parse(tc.args); err != nil {
			t.Errorf("%v: %v", tc.args, err)
			continue
		}
		if args.Index != tc.index || args.StartCode != tc.code || args.Format != tc.format {
			t.Errorf("%v: got %d %x %s", tc.args, args.Index, args.StartCode, args.Format)
		}
	}

	var args mapperArgs
	k, err := kong.New(&args, mappers()...)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.Parse([]string{"--start-code=zz"}); err == nil {
		t.Error("expected error for a bad hex value")
	}
}
