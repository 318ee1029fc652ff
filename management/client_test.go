package management

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New("", "key")
	assert.ErrorIs(t, err, ErrMissingProjectID)

	_, err = New("project", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	c, err := New("project", "key")
	require.NoError(t, err)
	assert.Equal(t, "project", c.ProjectID())
}

func TestUpsertLanguageVariant_RequestShape(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		gotBody   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"elements":[{"element":{"id":"e1"},"value":"Fly Further."}],
			"item":{"id":"i1"},
			"language":{"id":"00000000-0000-0000-0000-000000000000"},
			"workflow_step":{"id":"w1"},
			"last_modified":"2026-10-19T10:00:00Z"
		}`)
	}))
	defer srv.Close()

	c, err := New("proj-1", "mgmt-key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	variant, err := c.UpsertLanguageVariant(context.Background(), UpsertRequest{
		ItemCodename:     "my_article",
		LanguageCodename: "default",
		Elements:         []ElementValue{TextElement("content", "Fly Further.")},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/projects/proj-1/items/codename/my_article/variants/codename/default", gotPath)
	assert.Equal(t, "Bearer mgmt-key", gotAuth)
	assert.JSONEq(t, `{"elements":[{"element":{"codename":"content"},"value":"Fly Further."}]}`, gotBody)

	assert.Equal(t, "i1", variant.Item.ID)
	assert.Equal(t, 2026, variant.LastModified.Year())
	el, ok := variant.Element("e1")
	require.True(t, ok)
	assert.Equal(t, "Fly Further.", el.Value)
}

func TestUpsertLanguageVariant_RequiresTarget(t *testing.T) {
	c, err := New("p", "k")
	require.NoError(t, err)

	_, err = c.UpsertLanguageVariant(context.Background(), UpsertRequest{ItemCodename: "x"})
	assert.ErrorIs(t, err, ErrMissingTarget)
}

func TestUpsertLanguageVariant_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"request_id": "req-9",
			"error_code": 5,
			"message":    "The provided request body is invalid.",
			"validation_errors": []map[string]string{
				{"message": "Element 'content' not found.", "path": "elements[0]"},
			},
		})
	}))
	defer srv.Close()

	c, err := New("p", "k", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.UpsertLanguageVariant(context.Background(), UpsertRequest{
		ItemCodename:     "a",
		LanguageCodename: "default",
		Elements:         []ElementValue{TextElement("content", "x")},
	})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "req-9", apiErr.RequestID)
	assert.Equal(t, 5, apiErr.ErrorCode)
	require.Len(t, apiErr.ValidationErrors, 1)
	assert.Contains(t, err.Error(), "elements[0]: Element 'content' not found.")
	assert.Contains(t, err.Error(), "(request req-9)")
	assert.False(t, IsNotFound(err))
}

func TestUpsertLanguageVariant_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "not here")
	}))
	defer srv.Close()

	c, err := New("p", "k", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.UpsertLanguageVariant(context.Background(), UpsertRequest{ItemCodename: "a", LanguageCodename: "b"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "404")
}

func TestUpsertLanguageVariant_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New("p", "k", WithBaseURL(url))
	require.NoError(t, err)

	_, err = c.UpsertLanguageVariant(context.Background(), UpsertRequest{ItemCodename: "a", LanguageCodename: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert language variant a/b")
}
