package main

import "github.com/0x4d5352/oniguru/internal/parser"

func (o *cliOptions) parserOptions() parser.Options {
	return parser.Options{
		Flags:                      o.flags,
		Rules:                      parser.Rules{CaptureGroup: o.captureGroupRule},
		SkipBackrefValidation:      o.skipBackrefValidation,
		SkipLookbehindValidation:   o.skipLookbehindValidation,
		SkipPropertyNameValidation: o.skipPropertyValidation,
	}
}
