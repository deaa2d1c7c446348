package layout

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/layoutdsl/pkg/errors"
)

func TestPropertiesJSONKeepsOrderAndTypes(t *testing.T) {
	p := newProperties()
	p.set("name", "hierarchical")
	p.set("parentBorder", 10)
	p.set("intraCellSpacing", 10.0)
	p.set("fineTune", true)
	p.set("orientation", "west")

	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"hierarchical","parentBorder":10,"intraCellSpacing":10.0,"fineTune":true,"orientation":"west"}`, string(data))
	require.Equal(t, `{"name":"hierarchical","parentBorder":10,"intraCellSpacing":10.0,"fineTune":true,"orientation":"west"}`, string(data))

	var back Properties
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, p.Keys(), back.Keys())
	for k, v := range p.All() {
		got, _ := back.Get(k)
		require.Equal(t, v, got, k)
	}
}

func TestPropertiesUnmarshalRejectsNonObject(t *testing.T) {
	var p Properties
	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &p))
}

func TestResultJSONRoundTrip(t *testing.T) {
	for _, src := range []string{
		"layout graph style tree",
		"layout graph algorithm Kamada Kawai distance multiplier = 23.2, length factor = 4",
		"layout graph criteria maximize minimal angle threshold=5, distribute nodes evenly",
		"lay out graph not flow and (planarity or symmetry)",
		"layout subgraph {0, db} algorithm fast organic layout others style circular",
	} {
		t.Run(src, func(t *testing.T) {
			res := Interpret(src)
			require.NoError(t, res.Err())

			data, err := MarshalResult(res)
			require.NoError(t, err)

			back, err := UnmarshalResult(data)
			require.NoError(t, err)
			require.Equal(t, res, back)
		})
	}
}

func TestErrorResultJSON(t *testing.T) {
	res := Interpret("layout graph style fancy")
	data, err := MarshalResult(res)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Equal(t, "error", raw["form"])
	require.Equal(t, string(errors.ErrCodeSyntax), raw["error"].(map[string]any)["code"])

	back, err := UnmarshalResult(data)
	require.NoError(t, err)
	require.Equal(t, FormError, back.Form())
	require.Equal(t, res.Graph().ErrorMessage(), back.Graph().ErrorMessage())
	require.True(t, errors.Is(back.Err(), errors.ErrCodeSyntax))
}

func TestUnmarshalResultRejectsInconsistentPayloads(t *testing.T) {
	for _, data := range []string{
		`{"form":"graph"}`,
		`{"form":"subgraphs"}`,
		`{"form":"error"}`,
		`{"form":"sideways"}`,
		`{"form":"graph","graph":{"graph":"graph","kind":"style"}}`,
		`{"form":"graph","graph":{"graph":"graph","kind":"style","style":"tree","algorithm":{"name":"box"}}}`,
		`{"form":"graph","graph":{"graph":"graph","kind":"criteria","criteria":[]}}`,
		`{"form":"graph","graph":{"graph":"graph","kind":"criteria","criteria":[null]}}`,
		`{"form":"graph","graph":{"graph":"graph","kind":"expression","expression":{"terms":null}}}`,
		`{"form":"graph","graph":{"graph":"graph","kind":"expression","expression":{"terms":[{"factors":[]}]}}}`,
		`{"form":"graph","graph":{"graph":"graph","kind":"expression","expression":{"terms":[{"factors":[{"negated":true}]}]}}}`,
		`{"form":"graph","graph":{"graph":"graph","kind":"expression","expression":{"terms":[{"factors":[{"expression":{"terms":[]}}]}]}}}`,
	} {
		_, err := UnmarshalResult([]byte(data))
		require.Error(t, err, data)
	}
}
