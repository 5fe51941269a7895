package stock

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordMarshalJSON_SingleElementArrays(t *testing.T) {
	b, err := json.Marshal([]Record{NewRecord("title", "Apple", "value", "170")})
	require.NoError(t, err)
	require.JSONEq(t, `[{"title":["Apple"],"value":["170"]}]`, string(b))
	// field order survives
	require.Equal(t, `[{"title":["Apple"],"value":["170"]}]`, string(b))
}

func TestRecordUnmarshalJSON_AcceptsBothShapes(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Tesla","value":800,"img":["a.png"],"hot":true,"gone":null}`), &r))
	require.Equal(t, NewRecord("title", "Tesla", "value", "800", "img", "a.png", "hot", "true"), r)
}

func TestRecordUnmarshalJSON_RepeatedKeyLastWins(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"title":"a","img":"x","title":"b"}`), &r))
	require.Equal(t, NewRecord("title", "b", "img", "x"), r)
}

func TestRecordUnmarshalJSON_FalsyTitleIsAbsent(t *testing.T) {
	for _, body := range []string{`{"title":false}`, `{"title":0}`, `{"title":-0.0}`, `{"title":0e3}`, `{"title":"a","title":0}`} {
		var r Record
		require.NoError(t, json.Unmarshal([]byte(body), &r), body)
		_, ok := r.Get(FieldTitle)
		require.False(t, ok, body)
	}

	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"title":"0","value":0,"hot":false}`), &r))
	require.Equal(t, NewRecord("title", "0", "value", "0", "hot", "false"), r)
}

func TestRecordUnmarshalJSON_Rejects(t *testing.T) {
	var r Record
	err := json.Unmarshal([]byte(`[{"title":"a"}]`), &r)
	require.True(t, errors.Is(err, ErrNotObject), "got %v", err)

	require.Error(t, json.Unmarshal([]byte(`{"title":{"x":1}}`), &r))
	require.Error(t, json.Unmarshal([]byte(`{"title":["a","b"]}`), &r))
	require.Error(t, json.Unmarshal([]byte(`{"title":[]}`), &r))
}

func TestRecordValidate(t *testing.T) {
	require.NoError(t, NewRecord("title", "x", "release_date", "2024").Validate())
	require.Error(t, NewRecord("bad name", "x").Validate())
	require.Error(t, NewRecord("xmlish", "x").Validate())
	require.Error(t, NewRecord("p:title", "x").Validate())
	require.Error(t, NewRecord("-lead", "x").Validate())
	require.NoError(t, NewRecord("цена", "x", "prix_été", "y", "a.b-c1", "z").Validate())
	dup := Record{Fields: []Field{{Name: "a"}, {Name: "a"}}}
	require.Error(t, dup.Validate())
}

func TestStoreErrorKinds(t *testing.T) {
	cause := errors.New("disk on fire")
	err := WriteError("append", cause)
	require.True(t, errors.Is(err, ErrStorageWrite))
	require.False(t, errors.Is(err, ErrStorageRead))
	require.True(t, errors.Is(err, cause))
	require.Equal(t, "write", KindOf(err))
	require.Equal(t, "format", KindOf(FormatError("list", cause)))
	require.Equal(t, "read", KindOf(ReadError("list", cause)))
}

func TestValidFieldName(t *testing.T) {
	for _, name := range []string{"title", "release_date", "цена", "_x", "a1", "a.b-c", "naïve"} {
		require.True(t, ValidFieldName(name), name)
	}
	for _, name := range []string{"", "1bad", "bad name", "a:b", "-x", ".x", "XMLdata", "xml"} {
		require.False(t, ValidFieldName(name), name)
	}
}
