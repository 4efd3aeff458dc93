package layout

import (
	"strconv"

	"github.com/wippyai/fastaccess/errors"
	"go.bytecodealliance.org/wit"
)

// Converter turns WIT types into layouts using Canonical ABI placement.
// Results for named type definitions are cached by identity.
type Converter struct {
	cache map[*wit.TypeDef]Layout
}

// NewConverter returns a Converter with an empty cache.
func NewConverter() *Converter {
	return &Converter{
		cache: make(map[*wit.TypeDef]Layout),
	}
}

// FromWIT converts t with a fresh Converter.
func FromWIT(t wit.Type) (Layout, error) {
	return NewConverter().Convert(t)
}

// Convert maps records and tuples to structs and scalars, enums and flags to values.
// Strings, lists, options, results, variants and handles have no fixed inline
// representation here and are rejected.
func (c *Converter) Convert(t wit.Type) (Layout, error) {
	return c.convert(t, "")
}

func (c *Converter) convert(t wit.Type, path string) (Layout, error) {
	switch typ := t.(type) {
	case wit.Bool, wit.U8, wit.S8:
		return Int8(), nil
	case wit.U16, wit.S16:
		return Int16(), nil
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return Int32(), nil
	case wit.U64, wit.S64, wit.F64:
		return Int64(), nil
	case *wit.TypeDef:
		return c.convertTypeDef(typ, path)
	case nil:
		return nil, errors.New(errors.PhaseLayout, errors.KindAbsentArgument).
			Path(path).
			Detail("WIT type is nil").
			Build()
	default:
		return nil, unsupportedWIT(path, t)
	}
}

func (c *Converter) convertTypeDef(t *wit.TypeDef, path string) (Layout, error) {
	if cached, ok := c.cache[t]; ok {
		return cached, nil
	}

	var (
		l   Layout
		err error
	)

	switch kind := t.Kind.(type) {
	case *wit.Record:
		fields := make([]FieldSpec, 0, len(kind.Fields))
		for _, f := range kind.Fields {
			fl, ferr := c.convert(f.Type, joinPath(path, f.Name))
			if ferr != nil {
				return nil, ferr
			}
			fields = append(fields, Field(f.Name, fl))
		}
		l, err = NewStruct(fields...)
	case *wit.Tuple:
		fields := make([]FieldSpec, 0, len(kind.Types))
		for i, et := range kind.Types {
			name := strconv.Itoa(i)
			fl, ferr := c.convert(et, joinPath(path, name))
			if ferr != nil {
				return nil, ferr
			}
			fields = append(fields, Field(name, fl))
		}
		l, err = NewStruct(fields...)
	case *wit.Enum:
		l, err = NewValue(int(discriminantSize(len(kind.Cases)))*8, LittleEndian)
	case *wit.Flags:
		size := flagsSize(len(kind.Flags))
		if size == 0 {
			return nil, errors.New(errors.PhaseLayout, errors.KindUnsupported).
				Path(path).
				Detail("flags with %d members", len(kind.Flags)).
				Build()
		}
		l, err = NewValue(int(size)*8, LittleEndian)
	case wit.Type:
		l, err = c.convert(kind, path)
	default:
		return nil, unsupportedWIT(path, t.Kind)
	}
	if err != nil {
		return nil, err
	}

	if t.Name != nil {
		l = withName(l, *t.Name)
	}
	c.cache[t] = l
	return l, nil
}

func withName(l Layout, name string) Layout {
	switch n := l.(type) {
	case *Value:
		return n.WithName(name)
	case *Struct:
		return n.WithName(name)
	case *Sequence:
		return n.WithName(name)
	}
	return l
}

func joinPath(prefix, name string) string {
	return prefix + "." + name
}

func unsupportedWIT(path string, t any) *errors.Error {
	return errors.New(errors.PhaseLayout, errors.KindUnsupported).
		Path(path).
		Detail("WIT type %T has no fixed inline layout", t).
		Build()
}
