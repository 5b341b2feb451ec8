package expr

import (
	"maps"
	"math"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Equates maps identifiers to constant values during evaluation.
type Equates interface {
	Equate(name string) (value int32, ok bool)
}

// EquateMap is a plain equate table.
type EquateMap map[string]int32

var _ Equates = EquateMap(nil)

func (em EquateMap) Equate(name string) (value int32, ok bool) {
	value, ok = em[name]
	return
}

// LoadEquates executes a Starlark file and returns its integer globals as
// equates, merged over predeclared. Predeclared equates are visible to the
// script. Globals of other types are ignored.
//
// src is passed to starlark.ExecFileOptions; if nil, filename is read.
func LoadEquates(filename string, src any, predeclared EquateMap) (equ EquateMap, err error) {
	thread := &starlark.Thread{Name: filename}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, value := range predeclared {
		pred[key] = starlark.MakeInt(int(value))
	}

	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, pred)
	if err != nil {
		return
	}

	equ = maps.Clone(predeclared)
	if equ == nil {
		equ = EquateMap{}
	}
	for name, value := range globals {
		st_int, ok := value.(starlark.Int)
		if !ok {
			continue
		}
		st_int64, ok := st_int.Int64()
		if !ok || st_int64 < math.MinInt32 || st_int64 > math.MaxUint32 {
			err = ErrEquateRange(name)
			return
		}
		equ[name] = int32(uint32(st_int64))
	}

	return
}
