package formula

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLookup(t *testing.T) {
	c, err := NewCatalog(Builtins()...)
	require.NoError(t, err)

	f, ok := c.Get("MAJOR")
	require.True(t, ok)
	assert.Equal(t, "major", f.Name)

	f, ok = c.Get("m")
	require.True(t, ok)
	assert.Equal(t, "minor", f.Name)

	_, ok = c.Get("M")
	assert.False(t, ok, "aliases match exactly")

	f, ok = c.Get("7")
	require.True(t, ok)
	assert.Equal(t, "dominant7", f.Name)

	_, ok = c.Get("nope")
	assert.False(t, ok)
}

func TestCatalogList(t *testing.T) {
	c, err := NewCatalog(Builtins()...)
	require.NoError(t, err)

	chords := c.List(KindChord)
	scales := c.List(KindScale)
	assert.Equal(t, c.Len(), len(chords)+len(scales))
	assert.Len(t, c.List(""), c.Len())
	for i := 1; i < len(chords); i++ {
		assert.Less(t, chords[i-1].Name, chords[i].Name)
	}
	for _, s := range scales {
		assert.Equal(t, KindScale, s.Kind)
	}
}

func TestCatalogOverride(t *testing.T) {
	formulas := append(Builtins(), Formula{Name: "major", Kind: KindChord, Steps: []int{4, 3, 5}})
	c, err := NewCatalog(formulas...)
	require.NoError(t, err)

	f, ok := c.Get("major")
	require.True(t, ok)
	assert.Equal(t, []int{4, 3, 5}, f.Steps)

	_, ok = c.Get("maj")
	assert.False(t, ok, "override dropped the builtin aliases")
}

func TestCatalogRejectsAliasClash(t *testing.T) {
	_, err := NewCatalog(
		Formula{Name: "one", Kind: KindChord, Aliases: []string{"x"}, Steps: []int{1}},
		Formula{Name: "two", Kind: KindChord, Aliases: []string{"x"}, Steps: []int{2}},
	)
	assert.Error(t, err)

	_, err = NewCatalog(
		Formula{Name: "one", Kind: KindChord, Steps: []int{1}},
		Formula{Name: "two", Kind: KindChord, Aliases: []string{"one"}, Steps: []int{2}},
	)
	assert.Error(t, err)
}

func TestCatalogReplaceKeepsOldOnError(t *testing.T) {
	c, err := NewCatalog(Builtins()...)
	require.NoError(t, err)
	before := c.Len()

	err = c.Replace([]Formula{{Name: "", Kind: KindChord, Steps: []int{1}}}, "fp")
	require.Error(t, err)
	assert.Equal(t, before, c.Len())
	assert.Equal(t, "", c.Fingerprint())
}

func TestCatalogConcurrentAccess(t *testing.T) {
	c, err := NewCatalog(Builtins()...)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Get("major")
				c.List(KindScale)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = c.Replace(Builtins(), "fp")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, len(Builtins()), c.Len())
}
