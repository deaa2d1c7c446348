package layout

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/layoutdsl/pkg/errors"
)

// MarshalText implements encoding.TextMarshaler.
func (f Form) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Form) UnmarshalText(text []byte) error {
	switch string(text) {
	case "graph":
		*f = FormGraph
	case "subgraphs":
		*f = FormSubgraphs
	case "error":
		*f = FormError
	default:
		return fmt.Errorf("unknown result form %q", text)
	}
	return nil
}

type resultJSON struct {
	Form      Form         `json:"form"`
	Graph     *Directive   `json:"graph,omitempty"`
	Subgraphs []*Directive `json:"subgraphs,omitempty"`
	Error     *errorJSON   `json:"error,omitempty"`
}

type errorJSON struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// MarshalJSON implements json.Marshaler.
func (r *Result) MarshalJSON() ([]byte, error) {
	w := resultJSON{Form: r.form, Graph: r.graph, Subgraphs: r.subgraphs}
	if r.err != nil {
		w.Error = &errorJSON{Code: r.err.Code, Message: r.err.Message}
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. The decoded result must have
// the payload its form requires.
func (r *Result) UnmarshalJSON(data []byte) error {
	var w resultJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch w.Form {
	case FormGraph:
		if w.Graph == nil || w.Graph.IsError() || len(w.Subgraphs) > 0 || w.Error != nil {
			return errors.New(errors.ErrCodeInvalidFormat, "graph result must carry exactly one graph directive")
		}
		*r = *graphResult(w.Graph)
	case FormSubgraphs:
		if len(w.Subgraphs) == 0 || w.Graph != nil || w.Error != nil {
			return errors.New(errors.ErrCodeInvalidFormat, "subgraph result must carry subgraph directives only")
		}
		for _, d := range w.Subgraphs {
			if d == nil || d.IsError() {
				return errors.New(errors.ErrCodeInvalidFormat, "subgraph result contains an invalid directive")
			}
		}
		*r = *subgraphResult(w.Subgraphs)
	default:
		if w.Error == nil {
			return errors.New(errors.ErrCodeInvalidFormat, "error result must carry an error")
		}
		*r = *errorResult(errors.New(w.Error.Code, "%s", w.Error.Message))
	}
	return nil
}

// MarshalResult serializes a result to JSON.
func MarshalResult(r *Result) ([]byte, error) {
	if r == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "result is nil")
	}
	return json.Marshal(r)
}

// UnmarshalResult deserializes a result produced by [MarshalResult].
func UnmarshalResult(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode result")
	}
	return &r, nil
}
