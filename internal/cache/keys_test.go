package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name       string
		service    string
		objectType string
		identifier string
		params     []string
		want       string
	}{
		{
			name:       "without params",
			service:    "models",
			objectType: "free",
			identifier: "list",
			want:       "examgen:models:free:list",
		},
		{
			name:       "with one param",
			service:    "models",
			objectType: "free",
			identifier: "list",
			params:     []string{"v2"},
			want:       "examgen:models:free:list:v2",
		},
		{
			name:       "with multiple params",
			service:    "exams",
			objectType: "doc",
			identifier: "01ABC",
			params:     []string{"full", "json"},
			want:       "examgen:exams:doc:01ABC:full_json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateCacheKey(tt.service, tt.objectType, tt.identifier, tt.params...)
			assert.Equal(t, tt.want, got)
		})
	}
}
