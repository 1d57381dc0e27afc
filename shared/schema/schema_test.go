package schema

import (
	"testing"

	"github.com/automoto/lawnmower-mp/shared/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

type sample struct {
	X     float64
	HP    int
	Name  string
	Alive bool
}

var (
	sampleType = donburi.NewComponentType[sample]()
	bareTag    = donburi.NewTag()
)

func newSampleSchema(t *testing.T) Component {
	t.Helper()
	c, err := NewComponent(1, "Sample", sampleType,
		Field[sample]{Name: "x", Type: Float32, Ref: func(s *sample) any { return &s.X }},
		Field[sample]{Name: "hp", Type: Uint16, Ref: func(s *sample) any { return &s.HP }},
		Field[sample]{Name: "name", Type: String, Ref: func(s *sample) any { return &s.Name }},
		Field[sample]{Name: "alive", Type: Bool, Ref: func(s *sample) any { return &s.Alive }},
	)
	require.NoError(t, err)
	return c
}

func TestNewComponentRejectsMismatchedAccessor(t *testing.T) {
	_, err := NewComponent(1, "Bad", sampleType,
		Field[sample]{Name: "x", Type: String, Ref: func(s *sample) any { return &s.X }},
	)
	require.Error(t, err)
}

func TestNewComponentRejectsDuplicateField(t *testing.T) {
	_, err := NewComponent(1, "Bad", sampleType,
		Field[sample]{Name: "x", Type: Float32, Ref: func(s *sample) any { return &s.X }},
		Field[sample]{Name: "x", Type: Float32, Ref: func(s *sample) any { return &s.X }},
	)
	require.Error(t, err)
}

func TestSparseDecodeKeepsPriorValues(t *testing.T) {
	c := newSampleSchema(t)
	world := donburi.NewWorld()
	entry := world.Entry(world.Create(sampleType))
	sampleType.SetValue(entry, sample{X: 1, HP: 80, Name: "mower", Alive: true})

	w := wire.NewWriter(16)
	require.NoError(t, c.Encode(w, sample{X: 42.5, HP: 10}, []string{"x"}))

	apply, err := c.Decode(wire.NewReader(w.Bytes()), entry)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sampleType.Get(entry).X, "nothing is written before apply")

	apply(entry)
	got := sampleType.Get(entry)
	assert.Equal(t, 42.5, got.X)
	assert.Equal(t, 80, got.HP)
	assert.Equal(t, "mower", got.Name)
	assert.True(t, got.Alive)
}

func TestDecodeAddsMissingComponent(t *testing.T) {
	c := newSampleSchema(t)
	world := donburi.NewWorld()
	entry := world.Entry(world.Create(bareTag))

	w := wire.NewWriter(16)
	require.NoError(t, c.Encode(w, &sample{X: 3, HP: 7, Name: "a", Alive: true}, nil))

	apply, err := c.Decode(wire.NewReader(w.Bytes()), nil)
	require.NoError(t, err)
	apply(entry)

	require.True(t, entry.HasComponent(sampleType))
	assert.Equal(t, sample{X: 3, HP: 7, Name: "a", Alive: true}, *sampleType.Get(entry))
}

func TestDecodeTruncated(t *testing.T) {
	c := newSampleSchema(t)

	w := wire.NewWriter(16)
	require.NoError(t, c.Encode(w, sample{Name: "truncated"}, nil))
	b := w.Bytes()

	_, err := c.Decode(wire.NewReader(b[:len(b)-3]), nil)
	require.ErrorIs(t, err, wire.ErrShortBuffer)
}

func TestDecodeUnknownFieldIndex(t *testing.T) {
	c := newSampleSchema(t)

	_, err := c.Decode(wire.NewReader([]byte{1, 9, 0}), nil)
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestEncodeUnknownField(t *testing.T) {
	c := newSampleSchema(t)
	err := c.Encode(wire.NewWriter(4), sample{}, []string{"speed"})
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	c := newSampleSchema(t)

	require.NoError(t, reg.Register(c))
	require.Error(t, reg.Register(c))

	require.ErrorIs(t, reg.RegisterPrefab("Ghost", 99), ErrUnknownComponent)
	require.NoError(t, reg.RegisterPrefab("Sample", 1))
	require.Error(t, reg.RegisterPrefab("Sample", 1))

	comps, ok := reg.Prefab("Sample")
	require.True(t, ok)
	require.Len(t, comps, 1)
	assert.Equal(t, "Sample", comps[0].Name())

	_, ok = reg.Prefab("Missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"Sample"}, reg.PrefabNames())
}
