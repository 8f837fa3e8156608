package cache

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/killallgit/herotrend/internal/hero"
	"github.com/killallgit/herotrend/internal/loudness"
	"github.com/tinylib/msgp/msgp"
)

// Loudness and hero series are stored as MessagePack arrays. The hero JSON
// artifact is a plain array of integers.

// maxPrealloc bounds the capacity taken on trust from an array header; a
// day of audio is 86400 values
const maxPrealloc = 1 << 17

func initialCap(size uint32) int {
	return int(min(size, maxPrealloc))
}

func WriteLoudness(w io.Writer, series loudness.Series) error {
	mw := msgp.NewWriter(w)
	if err := mw.WriteArrayHeader(uint32(len(series))); err != nil {
		return fmt.Errorf("failed to encode loudness header: %w", err)
	}
	for _, v := range series {
		if err := mw.WriteFloat64(v); err != nil {
			return fmt.Errorf("failed to encode loudness value: %w", err)
		}
	}
	return mw.Flush()
}

func ReadLoudness(r io.Reader) (loudness.Series, error) {
	mr := msgp.NewReader(r)
	size, err := mr.ReadArrayHeader()
	if err != nil {
		return nil, fmt.Errorf("failed to decode loudness header: %w", err)
	}
	series := make(loudness.Series, 0, initialCap(size))
	for i := uint32(0); i < size; i++ {
		v, err := mr.ReadFloat64()
		if err != nil {
			return nil, fmt.Errorf("failed to decode loudness value %d: %w", i, err)
		}
		series = append(series, v)
	}
	return series, nil
}

func WriteHero(w io.Writer, series hero.Series) error {
	mw := msgp.NewWriter(w)
	if err := mw.WriteArrayHeader(uint32(len(series))); err != nil {
		return fmt.Errorf("failed to encode hero header: %w", err)
	}
	for _, v := range series {
		if err := mw.WriteInt(v); err != nil {
			return fmt.Errorf("failed to encode hero value: %w", err)
		}
	}
	return mw.Flush()
}

func ReadHero(r io.Reader) (hero.Series, error) {
	mr := msgp.NewReader(r)
	size, err := mr.ReadArrayHeader()
	if err != nil {
		return nil, fmt.Errorf("failed to decode hero header: %w", err)
	}
	series := make(hero.Series, 0, initialCap(size))
	for i := uint32(0); i < size; i++ {
		v, err := mr.ReadInt()
		if err != nil {
			return nil, fmt.Errorf("failed to decode hero value %d: %w", i, err)
		}
		series = append(series, v)
	}
	return series, nil
}

// WriteHeroJSON writes the series as a JSON array, "[]" when empty
func WriteHeroJSON(w io.Writer, series hero.Series) error {
	if series == nil {
		series = hero.Series{}
	}
	data, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("failed to encode hero JSON: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func ReadHeroJSON(r io.Reader) (hero.Series, error) {
	var series hero.Series
	if err := json.NewDecoder(r).Decode(&series); err != nil {
		return nil, fmt.Errorf("failed to decode hero JSON: %w", err)
	}
	if series == nil {
		series = hero.Series{}
	}
	return series, nil
}
