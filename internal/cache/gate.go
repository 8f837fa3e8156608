// Package cache decides whether a pipeline stage can reuse an artifact from a
// previous run and persists derived artifacts.
//
// An artifact is reusable when its file exists. Contents are not validated
// and there is no locking; two processes working on the same id race.
package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/killallgit/herotrend/internal/hero"
	"github.com/killallgit/herotrend/internal/loudness"
)

// Decision is the outcome of checking the cache for one artifact
type Decision struct {
	Path  string
	Reuse bool
}

// Gate applies the naming convention on top of a Store
type Gate struct {
	store Store
}

func NewGate(store Store) *Gate {
	return &Gate{store: store}
}

// Store returns the backing store
func (g *Gate) Store() Store {
	return g.store
}

// Path returns the location of an artifact whether or not it exists
func (g *Gate) Path(key Key, kind Kind) string {
	return g.store.Path(key.FileName(kind))
}

// Check reports the artifact path and whether it already exists
func (g *Gate) Check(ctx context.Context, key Key, kind Kind) (Decision, error) {
	path := g.Path(key, kind)
	exists, err := g.store.Exists(ctx, path)
	if err != nil {
		return Decision{Path: path}, fmt.Errorf("failed to check %s artifact: %w", kind, err)
	}
	return Decision{Path: path, Reuse: exists}, nil
}

// Invalidate removes every derived artifact of key so the next run recomputes it
func (g *Gate) Invalidate(ctx context.Context, key Key, kinds ...Kind) error {
	for _, kind := range kinds {
		if err := g.store.Delete(ctx, g.Path(key, kind)); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gate) PutLoudness(ctx context.Context, key Key, series loudness.Series) (string, error) {
	return g.put(ctx, key, KindLoudness, func(w io.Writer) error { return WriteLoudness(w, series) })
}

func (g *Gate) GetLoudness(ctx context.Context, key Key) (loudness.Series, error) {
	rc, err := g.store.Open(ctx, g.Path(key, KindLoudness))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadLoudness(rc)
}

func (g *Gate) PutHero(ctx context.Context, key Key, series hero.Series) (string, error) {
	return g.put(ctx, key, KindHero, func(w io.Writer) error { return WriteHero(w, series) })
}

func (g *Gate) GetHero(ctx context.Context, key Key) (hero.Series, error) {
	rc, err := g.store.Open(ctx, g.Path(key, KindHero))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadHero(rc)
}

func (g *Gate) PutHeroJSON(ctx context.Context, key Key, series hero.Series) (string, error) {
	return g.put(ctx, key, KindHeroJSON, func(w io.Writer) error { return WriteHeroJSON(w, series) })
}

func (g *Gate) GetHeroJSON(ctx context.Context, key Key) (hero.Series, error) {
	rc, err := g.store.Open(ctx, g.Path(key, KindHeroJSON))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadHeroJSON(rc)
}

func (g *Gate) put(ctx context.Context, key Key, kind Kind, encode func(io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		return "", err
	}
	return g.store.Save(ctx, &buf, key.FileName(kind))
}
