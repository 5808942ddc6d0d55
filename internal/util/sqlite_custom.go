package util

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"strings"
	"sync"

	"modernc.org/sqlite"
)

var registerOnce sync.Once

// RegisterSQLiteFunctions registers the custom aggregates once per process.
//
//	sortconcat(key, value) joins values with "," ordered by integer key
func RegisterSQLiteFunctions() {
	registerOnce.Do(func() {
		sqlite.MustRegisterFunction("sortconcat", &sqlite.FunctionImpl{
			NArgs:         2,
			Deterministic: true,
			MakeAggregate: func(ctx sqlite.FunctionContext) (sqlite.AggregateFunction, error) {
				return NewSortedConcatenate(","), nil
			},
		})
	})
}

type SortedConcatenate struct {
	ans map[int64]string
	sep string
}

func NewSortedConcatenate(sep string) *SortedConcatenate {
	return &SortedConcatenate{ans: make(map[int64]string), sep: sep}
}

func (sc *SortedConcatenate) Step(ctx *sqlite.FunctionContext, rowArgs []driver.Value) error {
	// NULLs come from LEFT JOINs without a match.
	if rowArgs[0] == nil || rowArgs[1] == nil {
		return nil
	}
	ndx, ok := rowArgs[0].(int64)
	if !ok {
		return fmt.Errorf("invalid type: %T", rowArgs[0])
	}
	value, ok := rowArgs[1].(string)
	if !ok {
		return fmt.Errorf("invalid type: %T", rowArgs[1])
	}
	if value != "" {
		sc.ans[ndx] = value
	}
	return nil
}

func (sc *SortedConcatenate) WindowValue(ctx *sqlite.FunctionContext) (driver.Value, error) {
	if len(sc.ans) == 0 {
		return "", nil
	}

	keys := make([]int64, 0, len(sc.ans))
	for k := range sc.ans {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, sc.ans[k])
	}
	return strings.Join(values, sc.sep), nil
}

func (sc *SortedConcatenate) WindowInverse(ctx *sqlite.FunctionContext, rowArgs []driver.Value) error {
	if rowArgs[0] == nil {
		return nil
	}
	if ndx, ok := rowArgs[0].(int64); ok {
		delete(sc.ans, ndx)
	}
	return nil
}

func (sc *SortedConcatenate) Final(ctx *sqlite.FunctionContext) {}

// SplitConcatenated reverses sortconcat.
func SplitConcatenated(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
