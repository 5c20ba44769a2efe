package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vango-dev/shadowtree/pkg/props"
	"github.com/vango-dev/shadowtree/pkg/shadow"
)

var viewKind = shadow.NewKind("View", shadow.DeriveFunc)

func leaf(tag shadow.Tag) *shadow.Node {
	return shadow.New(shadow.Fragment{Tag: tag, RootTag: 1, Props: props.New()}, viewKind)
}

func TestCollectorObservesTreeActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithNamespace("test"))
	restore := c.Install()
	defer restore()

	a, b := leaf(2), leaf(3)
	root := shadow.New(shadow.Fragment{
		Tag:      1,
		RootTag:  1,
		Props:    props.New(),
		Children: shadow.NewChildList(a, b),
	}, viewKind)
	root.SealRecursive()

	next := root.Clone(shadow.Fragment{})
	next.ReplaceChild(a, leaf(4), 0)
	next.ReplaceChild(b, leaf(5), 0)

	assert.Equal(t, 5.0, testutil.ToFloat64(c.freshCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.derivedCreated))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.nodesSealed))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.childrenCopied))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.replaceFallbacks))

	count, err := testutil.GatherAndCount(reg, "test_children_copied_length")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInstallRestoresPreviousObserver(t *testing.T) {
	first := New(WithRegistry(prometheus.NewRegistry()))
	second := New(WithRegistry(prometheus.NewRegistry()))

	restoreFirst := first.Install()
	defer restoreFirst()

	restoreSecond := second.Install()
	leaf(2)
	restoreSecond()
	leaf(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(first.freshCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(second.freshCreated))
}

func TestRecordCommit(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithSubsystem("tree"), WithConstLabels(prometheus.Labels{"app": "demo"}))

	c.RecordCommit(3, 42, 2*time.Millisecond)
	c.RecordCommitError()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.commitsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commitsTotal.WithLabelValues("error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.generation))
	assert.Equal(t, 42.0, testutil.ToFloat64(c.generationNodes))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["shadowtree_tree_commit_duration_seconds"])
	assert.True(t, names["shadowtree_tree_generation"])
}

func TestNewPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(WithRegistry(reg))
	assert.Panics(t, func() { New(WithRegistry(reg)) })
}
