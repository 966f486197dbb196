package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// stepDoc is the document form of any step, tagged by Kind
type stepDoc struct {
	Kind StepKind `yaml:"kind"`

	Expr          string        `yaml:"expr,omitempty"`
	Field         string        `yaml:"field,omitempty"`
	Fields        []string      `yaml:"fields,omitempty"`
	By            string        `yaml:"by,omitempty"`
	Dir           SortDirection `yaml:"dir,omitempty"`
	Keys          []string      `yaml:"keys,omitempty"`
	Cols          []string      `yaml:"cols,omitempty"`
	Direction     FillDirection `yaml:"direction,omitempty"`
	Col           string        `yaml:"col,omitempty"`
	Find          string        `yaml:"find,omitempty"`
	With          string        `yaml:"with,omitempty"`
	Mode          ReplaceMode   `yaml:"mode,omitempty"`
	CaseSensitive bool          `yaml:"caseSensitive,omitempty"`
	Delim         string        `yaml:"delim,omitempty"`
	IntoPrefix    string        `yaml:"intoPrefix,omitempty"`
	Count         int           `yaml:"count,omitempty"`
	DropOriginal  bool          `yaml:"dropOriginal,omitempty"`
	Into          string        `yaml:"into,omitempty"`
}

type stepsFile struct {
	Steps []stepDoc `yaml:"steps"`
}

// DecodeSteps reads a step document. The document is either a list of
// kind-tagged steps or a mapping with a "steps" list. JSON is accepted too.
func DecodeSteps(r io.Reader) ([]Step, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read steps: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("parse steps: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	var docs []stepDoc
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if root.Content[0].Kind == yaml.SequenceNode {
		err = dec.Decode(&docs)
	} else {
		var f stepsFile
		err = dec.Decode(&f)
		docs = f.Steps
	}
	if err != nil {
		return nil, fmt.Errorf("parse steps: %w", err)
	}

	steps := make([]Step, 0, len(docs))
	for i, d := range docs {
		s, err := d.step()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

// EncodeSteps writes steps as a YAML document that DecodeSteps reads back
func EncodeSteps(w io.Writer, steps []Step) error {
	docs := make([]stepDoc, len(steps))
	for i, s := range steps {
		docs[i] = docOf(s)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(stepsFile{Steps: docs}); err != nil {
		return err
	}
	return enc.Close()
}

func (d stepDoc) step() (Step, error) {
	switch d.Kind {
	case KindFilter:
		return Filter{Expr: d.Expr}, nil
	case KindSelect:
		return Select{Fields: d.Fields}, nil
	case KindSort:
		return Sort{By: d.By, Dir: d.Dir}, nil
	case KindDedupe:
		return Dedupe{Keys: d.Keys}, nil
	case KindFill:
		return Fill{Cols: d.Cols, Direction: d.Direction}, nil
	case KindReplace:
		return Replace{Col: d.Col, Find: d.Find, With: d.With, Mode: d.Mode, CaseSensitive: d.CaseSensitive}, nil
	case KindToNumber:
		return ToNumber{Cols: d.Cols}, nil
	case KindToDate:
		return ToDate{Cols: d.Cols}, nil
	case KindTrim:
		return Trim{Cols: d.Cols}, nil
	case KindSplit:
		return Split{Col: d.Col, Delim: d.Delim, IntoPrefix: d.IntoPrefix, Count: d.Count, DropOriginal: d.DropOriginal}, nil
	case KindMerge:
		return Merge{Cols: d.Cols, Into: d.Into, Delim: d.Delim}, nil
	case KindMutate:
		return Mutate{Field: d.Field, Expr: d.Expr}, nil
	case "":
		return nil, errors.New("missing kind")
	default:
		return nil, fmt.Errorf("unknown step kind %q", d.Kind)
	}
}

func docOf(s Step) stepDoc {
	d := stepDoc{Kind: s.Kind()}
	switch v := s.(type) {
	case Filter:
		d.Expr = v.Expr
	case Select:
		d.Fields = v.Fields
	case Sort:
		d.By, d.Dir = v.By, v.Dir
	case Dedupe:
		d.Keys = v.Keys
	case Fill:
		d.Cols, d.Direction = v.Cols, v.Direction
	case Replace:
		d.Col, d.Find, d.With, d.Mode, d.CaseSensitive = v.Col, v.Find, v.With, v.Mode, v.CaseSensitive
	case ToNumber:
		d.Cols = v.Cols
	case ToDate:
		d.Cols = v.Cols
	case Trim:
		d.Cols = v.Cols
	case Split:
		d.Col, d.Delim, d.IntoPrefix, d.Count, d.DropOriginal = v.Col, v.Delim, v.IntoPrefix, v.Count, v.DropOriginal
	case Merge:
		d.Cols, d.Into, d.Delim = v.Cols, v.Into, v.Delim
	case Mutate:
		d.Field, d.Expr = v.Field, v.Expr
	}
	return d
}
