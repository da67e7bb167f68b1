package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryUUID(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		query   string
		want    *uuid.UUID
		wantErr bool
	}{
		{name: "absent"},
		{name: "empty", query: "folder_id="},
		{name: "valid", query: "folder_id=" + id.String(), want: &id},
		{name: "padded", query: "folder_id=%20" + id.String() + "%20", want: &id},
		{name: "malformed", query: "folder_id=abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got, err := QueryUUID(r, "folder_id")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryUUIDs(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	r := httptest.NewRequest(http.MethodGet, "/?id="+a.String()+"&ids="+b.String()+",,"+c.String(), nil)
	ids, err := QueryUUIDs(r, "id", "ids")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b, c}, ids)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	ids, err = QueryUUIDs(r, "id")
	require.NoError(t, err)
	assert.Empty(t, ids)

	r = httptest.NewRequest(http.MethodGet, "/?id="+a.String()+",x", nil)
	_, err = QueryUUIDs(r, "id")
	assert.ErrorContains(t, err, `"x"`)
}

func TestParseJSON(t *testing.T) {
	var dest struct {
		Name string `json:"name"`
	}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"photos"}`))
	require.NoError(t, ParseJSON(rec, r, &dest))
	assert.Equal(t, "photos", dest.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.ErrorContains(t, ParseJSON(rec, r, &dest), "invalid JSON")
}

func TestRespondErrorWithExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusConflict, "child folder missing", map[string]any{
		"resource_type": "folder",
		"resource_id":   "42",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Conflict", body["title"])
	assert.EqualValues(t, 409, body["status"])
	assert.Equal(t, "child folder missing", body["detail"])
	assert.Equal(t, "folder", body["resource_type"])
	assert.Equal(t, "42", body["resource_id"])
	assert.Contains(t, body["type"], "rfc7231")
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]string{"status": "ok"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondJSON(rec, http.StatusOK, make(chan int))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestOwnerID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetOwnerID(r)
	assert.False(t, ok)

	_, ok = GetOwnerID(WithOwnerID(r, uuid.Nil))
	assert.False(t, ok)

	owner := uuid.New()
	got, ok := GetOwnerID(WithOwnerID(r, owner))
	assert.True(t, ok)
	assert.Equal(t, owner, got)
}
