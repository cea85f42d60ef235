package maps

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oyadrop/internal/types"
)

type stubGeocoder struct {
	results []Suggestion
	err     error
}

func (s stubGeocoder) Autocomplete(context.Context, string) ([]Suggestion, error) {
	return s.results, s.err
}

func TestResolve(t *testing.T) {
	ikeja := Suggestion{PlaceID: "a", DisplayName: "Ikeja", Position: types.Point{Lng: 3.35, Lat: 6.60}}

	got, err := Resolve(context.Background(), stubGeocoder{results: []Suggestion{ikeja, {PlaceID: "b"}}}, "Ikeja")
	require.NoError(t, err)
	assert.Equal(t, ikeja, got)

	_, err = Resolve(context.Background(), stubGeocoder{}, "Atlantis")
	assert.ErrorIs(t, err, ErrNoResults)

	boom := errors.New("boom")
	_, err = Resolve(context.Background(), stubGeocoder{err: boom}, "Ikeja")
	assert.ErrorIs(t, err, boom)
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"", "", false},
		{"  Ik ", "Ik", false},
		{"Ikeja", "Ikeja", true},
		{"12  Allen\tAvenue", "12 Allen Avenue", true},
		{"Ọ̀yọ́", "Ọ̀yọ́", true},
	}
	for _, tt := range tests {
		got, ok := normalizeQuery(tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
}
