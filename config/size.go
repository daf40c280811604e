// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package config

import (
	"errors"
	"iter"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"gopkg.in/yaml.v3"
)

// Size is a memory size: an integer, or an integer expression over the
// machine defines, such as "64 * KB" or "DEFAULT_MEMORY_SIZE // 2".
type Size string

// UnmarshalTOML accepts TOML integers and strings.
func (sz *Size) UnmarshalTOML(data any) (err error) {
	switch value := data.(type) {
	case int64:
		*sz = Size(strconv.FormatInt(value, 10))
	case string:
		*sz = Size(value)
	default:
		err = ErrSizeType
	}
	return
}

// UnmarshalYAML accepts any YAML scalar.
func (sz *Size) UnmarshalYAML(node *yaml.Node) (err error) {
	if node.Kind != yaml.ScalarNode {
		err = ErrSizeType
		return
	}
	*sz = Size(node.Value)
	return
}

// Eval evaluates the size expression. Integer valued defines are available
// as predeclared names.
func (sz Size) Eval(defines iter.Seq2[string, string]) (value int, err error) {
	expr := strings.TrimSpace(string(sz))
	if len(expr) == 0 {
		err = ErrSizeExpression(expr)
		return
	}

	thread := starlark.Thread{Name: "size"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range defines {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer defines.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "size", prog, pred)
	if err != nil {
		err = errors.Join(ErrSizeExpression(expr), err)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrSizeExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 > int64(^uint32(0)>>1) {
		err = ErrSizeExpression(expr)
		return
	}

	value = int(st_int64)
	return
}
