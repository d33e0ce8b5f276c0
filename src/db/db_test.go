package db

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	type CustomInt int
	type S struct {
		I   int        `db:"I"`
		PI  *int       `db:"PI"`
		CI  CustomInt  `db:"CI"`
		PCI *CustomInt `db:"PCI"`
		B   bool       `db:"B"`
		PB  *bool      `db:"PB"`

		NoTag int
	}
	type Nested struct {
		S  S  `db:"S"`
		PS *S `db:"PS"`

		NoTag S
	}

	names, paths, err := getColumnNamesAndPaths(reflect.TypeOf(Nested{}), nil, "")
	if assert.Nil(t, err) {
		assert.Equal(t, []string{
			"S.I", "S.PI",
			"S.CI", "S.PCI",
			"S.B", "S.PB",
			"PS.I", "PS.PI",
			"PS.CI", "PS.PCI",
			"PS.B", "PS.PB",
		}, names)
		assert.Equal(t, []fieldPath{
			{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5},
			{1, 0}, {1, 1}, {1, 2}, {1, 3}, {1, 4}, {1, 5},
		}, paths)
		assert.True(t, len(names) == len(paths))
	}

	testStruct := Nested{}
	for i, path := range paths {
		val, field := followPathThroughStructs(reflect.ValueOf(&testStruct), path)
		assert.True(t, val.IsValid())
		assert.True(t, strings.Contains(names[i], field.Name))
	}
}

func TestCompileQuery(t *testing.T) {
	t.Run("simple struct", func(t *testing.T) {
		type Dest struct {
			Foo  int    `db:"foo"`
			Bar  bool   `db:"bar"`
			Nope string // no tag
		}

		compiled, err := compileQuery("SELECT $columns FROM greeblies", reflect.TypeOf(Dest{}))
		assert.Nil(t, err)
		assert.Equal(t, "SELECT foo, bar FROM greeblies", compiled.query)
	})
	t.Run("struct with prefix", func(t *testing.T) {
		type Dest struct {
			Foo int  `db:"foo"`
			Bar bool `db:"bar"`
		}

		compiled, err := compileQuery("SELECT $columns{g} FROM greeblies AS g", reflect.TypeOf(Dest{}))
		assert.Nil(t, err)
		assert.Equal(t, "SELECT g.foo, g.bar FROM greeblies AS g", compiled.query)
	})
	t.Run("nested structs", func(t *testing.T) {
		type Inner struct {
			Foo int `db:"foo"`
		}
		type Outer struct {
			Inner Inner  `db:"inner"`
			Baz   string `db:"baz"`
		}

		compiled, err := compileQuery("SELECT $columns FROM greeblies", reflect.TypeOf(Outer{}))
		assert.Nil(t, err)
		assert.Equal(t, "SELECT inner.foo, baz FROM greeblies", compiled.query)
	})
	t.Run("non-struct dest with $columns is an error", func(t *testing.T) {
		_, err := compileQuery("SELECT $columns FROM greeblies", reflect.TypeOf(0))
		assert.NotNil(t, err)
	})
}

func TestQueryBuilder(t *testing.T) {
	t.Run("placeholders renumber across chunks", func(t *testing.T) {
		var qb QueryBuilder
		qb.Add("SELECT id FROM demo WHERE week_id = $? AND user_id = $?", 4, 12)
		qb.Add("AND created_at > $?", "2026-06-01")

		assert.Equal(t, "SELECT id FROM demo WHERE week_id = $1 AND user_id = $2\nAND created_at > $3\n", qb.String())
		assert.Equal(t, []any{4, 12, "2026-06-01"}, qb.Args())
	})
	t.Run("too few arguments", func(t *testing.T) {
		assert.Panics(t, func() {
			var qb QueryBuilder
			qb.Add("WHERE a = $? AND b = $?", 1)
		})
	})
	t.Run("too many arguments", func(t *testing.T) {
		assert.Panics(t, func() {
			var qb QueryBuilder
			qb.Add("WHERE a = $?", 1, 2)
		})
	})
}

func TestGetQueryName(t *testing.T) {
	name, ok := GetQueryName("---- Fetch leaderboard\nSELECT 1")
	assert.True(t, ok)
	assert.Equal(t, "Fetch leaderboard", name)

	_, ok = GetQueryName("SELECT 1")
	assert.False(t, ok)
}
