package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock searcher ---

type mockSearcher struct {
	places    []Place
	err       error
	calls     int
	lastQuery string
}

func (m *mockSearcher) SearchPlaces(_ context.Context, query string) ([]Place, error) {
	m.calls++
	m.lastQuery = query
	return m.places, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestSearchPlaces_NilSearcher(t *testing.T) {
	_, err := SearchPlaces(context.Background(), nil, "Cusco", discardLogger())

	assert.ErrorIs(t, err, ErrSearchDisabled)
}

func TestSearchPlaces_EmptyQuery(t *testing.T) {
	s := &mockSearcher{}

	_, err := SearchPlaces(context.Background(), s, "   ", discardLogger())

	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Zero(t, s.calls)
}

func TestSearchPlaces_Success(t *testing.T) {
	s := &mockSearcher{places: []Place{{Lat: -13.1631, Lon: -72.545, DisplayName: "Machu Picchu, Urubamba, Cusco, Perú"}}}

	got, err := SearchPlaces(context.Background(), s, "  Machu Picchu ", discardLogger())

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Machu Picchu", s.lastQuery)
}

func TestSearchPlaces_NoResults(t *testing.T) {
	s := &mockSearcher{}

	_, err := SearchPlaces(context.Background(), s, "Atlantis", discardLogger())

	assert.ErrorIs(t, err, ErrNoData)
	assert.Contains(t, err.Error(), "no results found in Peru")
}

func TestSearchPlaces_ProviderFailure(t *testing.T) {
	s := &mockSearcher{err: errors.New("connection refused")}

	_, err := SearchPlaces(context.Background(), s, "Cusco", discardLogger())

	require.Error(t, err)
	assert.True(t, IsExternalCallFailure(err))
	assert.Contains(t, err.Error(), "place search: connection refused")
}

func TestSearchPlaces_KeepsProviderExternalError(t *testing.T) {
	cause := errors.New("status 503")
	s := &mockSearcher{err: &ExternalCallError{Op: "nominatim search", Err: cause}}

	_, err := SearchPlaces(context.Background(), s, "Cusco", discardLogger())

	var ext *ExternalCallError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, "nominatim search", ext.Op)
	assert.ErrorIs(t, err, cause)
}
