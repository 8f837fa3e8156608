package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFileName(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want map[Kind]string
	}{
		{
			name: "unversioned",
			key:  Key{SourceID: "abc123"},
			want: map[Kind]string{
				KindMedia:    "abc123.mp4",
				KindAudio:    "abc123.wav",
				KindLoudness: "abc123.data",
				KindHero:     "abc123.hero",
				KindHeroJSON: "abc123.hero.json",
			},
		},
		{
			name: "versioned applies to derived kinds only",
			key:  Key{SourceID: "abc123", Version: "v2"},
			want: map[Kind]string{
				KindMedia:    "abc123.mp4",
				KindAudio:    "abc123.wav",
				KindLoudness: "abc123.v2.data",
				KindHero:     "abc123.v2.hero",
				KindHeroJSON: "abc123.v2.hero.json",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for kind, want := range tt.want {
				assert.Equal(t, want, tt.key.FileName(kind), kind.String())
			}
		})
	}
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []Kind{KindMedia, KindAudio, KindLoudness, KindHero, KindHeroJSON}, Kinds())

	for _, kind := range Kinds() {
		parsed, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseKind("thumbnail")
	assert.Error(t, err)
	assert.Equal(t, "kind(42)", Kind(42).String())
}
