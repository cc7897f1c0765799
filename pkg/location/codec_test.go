package location_test

import (
	"math"
	"testing"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/location"
	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		pos  domain.Position
		want string
	}{
		{domain.Position{Row: 0, Column: 0}, "/"},
		{domain.Position{Row: 2, Column: 0}, "/2"},
		{domain.Position{Row: 2, Column: 1}, "/2/1"},
		{domain.Position{Row: 0, Column: 3}, "/0/3"},
		{domain.Position{Row: 11, Column: 0}, "/11"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, location.Encode(tt.pos))
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want domain.Position
	}{
		{"origin", "/", domain.Position{}},
		{"empty", "", domain.Position{}},
		{"row only", "/2", domain.Position{Row: 2}},
		{"row and column", "/2/1", domain.Position{Row: 2, Column: 1}},
		{"zero row with column", "/0/3", domain.Position{Column: 3}},
		{"url fragment", "#/4/2", domain.Position{Row: 4, Column: 2}},
		{"no prefix", "3/1", domain.Position{Row: 3, Column: 1}},
		{"non numeric", "/abc/x", domain.Position{}},
		{"trailing junk", "/5px/2b", domain.Position{Row: 5, Column: 2}},
		{"missing column", "/7/", domain.Position{Row: 7}},
		{"leading space", "/ 3", domain.Position{Row: 3}},
		{"extra components", "/1/2/3", domain.Position{Row: 1, Column: 2}},
		{"out of range kept", "/99/99", domain.Position{Row: 99, Column: 99}},
		{"negative kept", "/-2", domain.Position{Row: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, location.Decode(tt.in))
		})
	}
}

func TestDecode_Saturates(t *testing.T) {
	pos := location.Decode("/99999999999999999999999999/-99999999999999999999999999")
	assert.Equal(t, math.MaxInt, pos.Row)
	assert.Equal(t, math.MinInt, pos.Column)
}

func TestEncodeDecode_Minimal(t *testing.T) {
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			pos := domain.Position{Row: row, Column: col}
			loc := location.Encode(pos)
			assert.Equal(t, pos, location.Decode(loc), loc)
		}
	}
}
