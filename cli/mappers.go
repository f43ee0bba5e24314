package main

import (
	"reflect"
	"strconv"

	"github.com/BertoldVdb/dmx-tools/dmxhal"
	"github.com/alecthomas/kong"
)

func mappers() []kong.Option {
	return []kong.Option{
		kong.NamedMapper("int", intMapper{}),
		kong.NamedMapper("hex", intMapper{base: 16}),
		kong.NamedMapper("format", formatMapper{}),
	}
}

type intMapper struct {
	base int
}

func (h intMapper) Decode(ctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	err := ctx.Scan.PopValueInto("int", &value)
	if err != nil {
		return err
	}
	i, err := strconv.ParseInt(value, h.base, 64)
	if err != nil {
		return err
	}
	target.SetInt(i)
	return nil
}

type formatMapper struct {
}

func (h formatMapper) Decode(ctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	err := ctx.Scan.PopValueInto("format", &value)
	if err != nil {
		return err
	}
	f, err := dmxhal.ParseFormat(value)
	if err != nil {
		return err
	}
	target.Set(reflect.ValueOf(f))
	return nil
}
