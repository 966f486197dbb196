package formula

import (
	"github.com/leengari/tabcalc/internal/coerce"
	"github.com/leengari/tabcalc/internal/domain/data"
)

// IF(cond, then, else=FALSE); only the chosen branch is evaluated
func fnIf(_ *env, args *argList) (data.Value, error) {
	cond, err := args.Bool(0)
	if err != nil {
		return nil, err
	}
	if cond {
		return args.Value(1)
	}
	if args.Len() < 3 {
		return false, nil
	}
	return args.Value(2)
}

func fnAnd(_ *env, args *argList) (data.Value, error) {
	for i := 0; i < args.Len(); i++ {
		ok, err := args.Bool(i)
		if err != nil {
			return nil, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func fnOr(_ *env, args *argList) (data.Value, error) {
	for i := 0; i < args.Len(); i++ {
		ok, err := args.Bool(i)
		if err != nil {
			return nil, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func fnNot(_ *env, args *argList) (data.Value, error) {
	ok, err := args.Bool(0)
	if err != nil {
		return nil, err
	}
	return !ok, nil
}

func fnIsBlank(_ *env, args *argList) (data.Value, error) {
	v, err := args.Value(0)
	if err != nil {
		return nil, err
	}
	return coerce.IsEmpty(v), nil
}

func fnIsNumber(_ *env, args *argList) (data.Value, error) {
	v, err := args.Value(0)
	if err != nil {
		return nil, err
	}
	return data.KindOf(v) == data.KindNumber, nil
}

func fnIsText(_ *env, args *argList) (data.Value, error) {
	v, err := args.Value(0)
	if err != nil {
		return nil, err
	}
	return data.KindOf(v) == data.KindText, nil
}

func fnToNumber(_ *env, args *argList) (data.Value, error) {
	return args.Number(0)
}
