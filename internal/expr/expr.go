// Package expr evaluates the numeric expressions accepted on the command
// line, ie "0xbe00 + 0xef" or "MOV_LIT_REG".
package expr

import (
	"errors"
	"iter"
	"math"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/regvm/translate"
)

var f = translate.From

var (
	ErrExpression = errors.New(f("expression invalid"))
)

// ErrParseExpression indicates the text that failed to evaluate.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("'%v' is not a valid expression", string(err))
}

func (err ErrParseExpression) Is(target error) bool {
	return target == ErrExpression
}

// Eval evaluates text as an integer expression in the range of a uint32.
// Defines with integer values are visible to the expression as globals;
// other defines are ignored.
func Eval(text string, defines iter.Seq2[string, string]) (value uint32, err error) {
	pred := starlark.StringDict{}
	if defines != nil {
		for key, str := range defines {
			num, perr := strconv.ParseInt(str, 0, 64)
			if perr != nil {
				continue
			}
			pred[key] = starlark.MakeInt64(num)
		}
	}

	thread := starlark.Thread{Name: "expr"}
	opts := syntax.FileOptions{}
	prog := "rc=" + text + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(text), err)
		return
	}

	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(text)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(text)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > math.MaxUint32 {
		err = ErrParseExpression(text)
		return
	}

	value = uint32(st_int64)
	return
}

// Parse evaluates text without any defines.
func Parse(text string) (value uint32, err error) {
	return Eval(text, nil)
}
