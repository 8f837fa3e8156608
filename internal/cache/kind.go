package cache

import (
	"fmt"
	"strings"
)

// Kind identifies one artifact produced by the pipeline
type Kind int

const (
	KindMedia Kind = iota
	KindAudio
	KindLoudness
	KindHero
	KindHeroJSON
)

var kindNames = map[Kind]string{
	KindMedia:    "media",
	KindAudio:    "audio",
	KindLoudness: "loudness",
	KindHero:     "hero",
	KindHeroJSON: "hero_json",
}

var kindExtensions = map[Kind]string{
	KindMedia:    "mp4",
	KindAudio:    "wav",
	KindLoudness: "data",
	KindHero:     "hero",
	KindHeroJSON: "hero.json",
}

// Kinds returns every kind in production order
func Kinds() []Kind {
	return []Kind{KindMedia, KindAudio, KindLoudness, KindHero, KindHeroJSON}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Ext returns the file extension without the leading dot
func (k Kind) Ext() string {
	return kindExtensions[k]
}

// Derived reports whether the artifact is computed in-process rather than
// produced by an external tool. Only derived artifacts carry a version.
func (k Kind) Derived() bool {
	return k == KindLoudness || k == KindHero || k == KindHeroJSON
}

// ParseKind accepts the names returned by String
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown artifact kind %q", s)
}

// Key addresses the artifacts of one source
type Key struct {
	SourceID string
	Version  string
}

// FileName returns "<id>[.<version>].<ext>" for the given kind
func (k Key) FileName(kind Kind) string {
	parts := []string{k.SourceID}
	if k.Version != "" && kind.Derived() {
		parts = append(parts, k.Version)
	}
	parts = append(parts, kind.Ext())
	return strings.Join(parts, ".")
}
