package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/animio/pkg/core"
)

func TestBuildFilter(t *testing.T) {
	loc0 := core.Key{DataPath: "location", ArrayIndex: 0}
	loc1 := core.Key{DataPath: "location", ArrayIndex: 1}
	hip := core.Key{DataPath: `pose.bones["Hip"].rotation_quaternion`, ArrayIndex: 3}

	tests := []struct {
		name       string
		only       []string
		include    []string
		configured []string
		allowed    []core.Key
		denied     []core.Key
	}{
		{
			name:    "only keys",
			only:    []string{"location:1"},
			allowed: []core.Key{loc1},
			denied:  []core.Key{loc0, hip},
		},
		{
			name:    "include pattern",
			include: []string{"pose.bones*"},
			allowed: []core.Key{hip},
			denied:  []core.Key{loc0},
		},
		{
			name:    "only and include combine",
			only:    []string{"location"},
			include: []string{"pose.bones*:3"},
			allowed: []core.Key{loc0, hip},
			denied:  []core.Key{loc1},
		},
		{
			name:       "configured patterns apply without flags",
			configured: []string{"location:0"},
			allowed:    []core.Key{loc0},
			denied:     []core.Key{loc1, hip},
		},
		{
			name:       "flags override configured patterns",
			only:       []string{"location:1"},
			configured: []string{"location:0"},
			allowed:    []core.Key{loc1},
			denied:     []core.Key{loc0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := buildFilter(tt.only, tt.include, tt.configured)
			require.NoError(t, err)
			require.NotNil(t, filter)
			for _, k := range tt.allowed {
				assert.True(t, filter.Allows(k), "%s should be allowed", k)
			}
			for _, k := range tt.denied {
				assert.False(t, filter.Allows(k), "%s should be denied", k)
			}
		})
	}
}

func TestBuildFilter_NoneMeansAll(t *testing.T) {
	filter, err := buildFilter(nil, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, filter)
}

func TestBuildFilter_Invalid(t *testing.T) {
	_, err := buildFilter([]string{"location:x"}, nil, nil)
	assert.Error(t, err)

	_, err = buildFilter(nil, []string{"[abc"}, nil)
	assert.ErrorIs(t, err, core.ErrMalformedDocument)
}
