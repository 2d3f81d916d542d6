package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileUnsupportedLanguage(t *testing.T) {
	_, err := File("foo.unknownext", []byte("whatever"))
	require.Error(t, err)
}

func TestFileEmptySourceIsValid(t *testing.T) {
	fe, err := File("empty.go", nil)
	require.NoError(t, err)
	require.Empty(t, fe.Symbols)
	require.Empty(t, fe.Calls)
	require.Empty(t, fe.Imports)
}

func TestExtractRust(t *testing.T) {
	src := `
use std::collections::HashMap;

struct Foo;

trait Greet {
    fn hi(&self);
}

impl Greet for Foo {
    fn hi(&self) {
        helper();
    }
}

fn helper() {}
`
	fe, err := File("lib.rs", []byte(src))
	require.NoError(t, err)

	names := symbolNames(fe.Symbols)
	require.Contains(t, names, "Foo")
	require.Contains(t, names, "Greet")
	require.Contains(t, names, "Foo") // impl target name reused
	require.Contains(t, names, "hi")
	require.Contains(t, names, "helper")

	require.Len(t, fe.Imports, 1)
	require.Equal(t, "std::collections::HashMap", fe.Imports[0].Path)

	require.Len(t, fe.Calls, 1)
	require.Equal(t, "helper", fe.Calls[0].Callee)
	require.Equal(t, "hi", fe.Calls[0].Caller)
}

func TestExtractPython(t *testing.T) {
	src := `
import os
from collections import OrderedDict

class Widget:
    def render(self):
        helper()

def helper():
    pass
`
	fe, err := File("widget.py", []byte(src))
	require.NoError(t, err)

	names := symbolNames(fe.Symbols)
	require.Contains(t, names, "Widget")
	require.Contains(t, names, "render")
	require.Contains(t, names, "helper")

	var render *Symbol
	for i := range fe.Symbols {
		if fe.Symbols[i].Name == "render" {
			render = &fe.Symbols[i]
		}
	}
	require.NotNil(t, render)
	require.Equal(t, KindMethod, render.Kind)
	require.Equal(t, "Widget", render.Parent)

	require.Len(t, fe.Imports, 2)
	require.Equal(t, "os", fe.Imports[0].Path)
	require.Equal(t, "collections", fe.Imports[1].Path)
	require.Equal(t, []string{"OrderedDict"}, fe.Imports[1].Symbols)

	require.Len(t, fe.Calls, 1)
	require.Equal(t, "helper", fe.Calls[0].Callee)
}

func TestExtractJavaScript(t *testing.T) {
	src := `
import { useState } from 'react';

const MAX_RETRIES = 3;

const greet = () => {
  helper();
};

class Widget {
  render() {
    greet();
  }
}

function helper() {}
`
	fe, err := File("widget.js", []byte(src))
	require.NoError(t, err)

	names := symbolNames(fe.Symbols)
	require.Contains(t, names, "MAX_RETRIES")
	require.Contains(t, names, "greet")
	require.Contains(t, names, "Widget")
	require.Contains(t, names, "render")
	require.Contains(t, names, "helper")

	var maxRetries *Symbol
	for i := range fe.Symbols {
		if fe.Symbols[i].Name == "MAX_RETRIES" {
			maxRetries = &fe.Symbols[i]
		}
	}
	require.NotNil(t, maxRetries)
	require.Equal(t, KindConstant, maxRetries.Kind)

	require.Len(t, fe.Imports, 1)
	require.Equal(t, "react", fe.Imports[0].Path)
	require.Equal(t, []string{"useState"}, fe.Imports[0].Symbols)
}

func TestExtractTypeScript(t *testing.T) {
	src := `
interface Shape {
  area(): number;
}

type Id = string;

enum Color { Red, Green }

function area(s: Shape): number {
  return 0;
}
`
	fe, err := File("shape.ts", []byte(src))
	require.NoError(t, err)

	names := symbolNames(fe.Symbols)
	require.Contains(t, names, "Shape")
	require.Contains(t, names, "Id")
	require.Contains(t, names, "Color")
	require.Contains(t, names, "area")
}

func TestExtractGo(t *testing.T) {
	src := `
package main

import "fmt"

func helper() {}

func main() {
	helper()
	fmt.Println("hi")
}
`
	fe, err := File("main.go", []byte(src))
	require.NoError(t, err)

	names := symbolNames(fe.Symbols)
	require.Contains(t, names, "helper")
	require.Contains(t, names, "main")
}

func symbolNames(syms []Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Name
	}
	return out
}
