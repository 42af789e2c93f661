package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Identity(t *testing.T) {
	env := newTestManager(t)
	reg := env.m.Registry()

	a := reg.GetLogger("x.y")
	b := reg.GetLogger("x.y")
	assert.Same(t, a, b)
}

func TestRegistry_MaterializesParents(t *testing.T) {
	env := newTestManager(t)
	reg := env.m.Registry()

	assert.Nil(t, reg.RootLogger())

	l := reg.GetLogger("x.y.z")

	require.True(t, reg.HasLogger("x"))
	require.True(t, reg.HasLogger("x.y"))
	require.True(t, reg.HasLogger(RootName))
	assert.Equal(t, 4, reg.Len())

	root := reg.RootLogger()
	x := reg.GetLogger("x")
	xy := reg.GetLogger("x.y")

	assert.Same(t, xy, l.Parent())
	assert.Same(t, x, xy.Parent())
	assert.Same(t, root, x.Parent())
	assert.Nil(t, root.Parent())

	assert.True(t, root.HasChild("x"))
	assert.True(t, x.HasChild("y"))
	assert.True(t, xy.HasChild("z"))
}

func TestRegistry_SingleSegmentAttachesToRoot(t *testing.T) {
	env := newTestManager(t)
	reg := env.m.Registry()

	svc := reg.GetLogger("svc")
	root := reg.RootLogger()

	require.NotNil(t, root)
	assert.Same(t, root, svc.Parent())
	assert.Same(t, root, reg.GetLogger(RootName))
}

func TestRegistry_AllLoggersSorted(t *testing.T) {
	env := newTestManager(t)
	reg := env.m.Registry()

	reg.GetLogger("b.c")
	reg.GetLogger("a")

	var names []string
	for _, l := range reg.AllLoggers() {
		names = append(names, l.Name())
	}
	assert.Equal(t, []string{"a", "b", "b.c", "root"}, names)
}

func TestRegistry_Clear(t *testing.T) {
	env := newTestManager(t)
	reg := env.m.Registry()

	old := reg.GetLogger("svc")
	reg.Clear()

	assert.Equal(t, 0, reg.Len())
	assert.Nil(t, reg.RootLogger())
	assert.False(t, reg.HasLogger("svc"))
	assert.NotSame(t, old, reg.GetLogger("svc"))
}

func TestLogger_GetChild(t *testing.T) {
	env := newTestManager(t)

	app := env.m.GetLogger("app")
	child := app.GetChild("http")

	assert.Equal(t, "app.http", child.Name())
	assert.Same(t, env.m.GetLogger("app.http"), child)
	assert.Same(t, app, child.Parent())

	children := app.Children()
	require.Len(t, children, 1)
	assert.Same(t, child, children[0])

	assert.Same(t, app, env.m.RootLogger().GetChild("app"))
	assert.False(t, env.m.Registry().HasLogger("root.app"))
}
