package inspect

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/shadowtree/pkg/component"
	"github.com/vango-dev/shadowtree/pkg/props"
	"github.com/vango-dev/shadowtree/pkg/shadow"
)

// sampleTree builds:
//
//	Root#1
//	  View#3 (testID=header)
//	    Text#2 (text=hi)
//	  Image#4 (source=a.png)
func sampleTree() *shadow.Node {
	b := component.NewBuilder(1)
	root := b.Root(
		b.View(props.TestID("header"), b.Text("hi")),
		b.Image("a.png"),
	)
	root.SealRecursive()
	return root
}

func TestCapture(t *testing.T) {
	snap := Capture(sampleTree())

	assert.Equal(t, int32(1), snap.Tag)
	assert.Equal(t, "Root", snap.Component)
	assert.True(t, snap.Sealed)
	require.Len(t, snap.Children, 2)

	view := snap.Children[0]
	assert.Equal(t, "View", view.Component)
	assert.Equal(t, []shadow.DebugProp{{Name: "testID", Value: "header"}}, view.Props)
	require.Len(t, view.Children, 1)
	assert.Equal(t, int32(2), view.Children[0].Tag)
}

func TestEncodeText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Capture(sampleTree()), FormatText))

	want := `<Root=r1/sealed tag=1>
  <View=r1/sealed testID=header tag=3>
    <Text=r1/sealed text=hi tag=2/>
  </View>
  <Image=r1/sealed source=a.png tag=4/>
</Root>
`
	assert.Equal(t, want, buf.String())
}

func TestEncodeJSONAndYAML(t *testing.T) {
	snap := Capture(sampleTree())

	var jsonBuf bytes.Buffer
	require.NoError(t, Encode(&jsonBuf, snap, FormatJSON))
	var fromJSON Snapshot
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &fromJSON))
	assert.Equal(t, snap, &fromJSON)

	var yamlBuf bytes.Buffer
	require.NoError(t, Encode(&yamlBuf, snap, FormatYAML))
	assert.Contains(t, yamlBuf.String(), "component: Root")
	var fromYAML Snapshot
	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML))
	assert.Equal(t, snap, &fromYAML)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWalkCountFind(t *testing.T) {
	root := sampleTree()

	var visited []string
	Walk(root, func(n *shadow.Node, depth int) bool {
		visited = append(visited, n.String())
		return n.ComponentName() != "View"
	})
	assert.Equal(t, []string{
		"Root#1 r1/sealed",
		"View#3 r1/sealed",
		"Image#4 r1/sealed",
	}, visited)

	assert.Equal(t, 4, Count(root))

	n, ok := Find(root, 2)
	require.True(t, ok)
	assert.Equal(t, "Text", n.ComponentName())

	_, ok = Find(root, 42)
	assert.False(t, ok)
}

func TestCountSharedSubtree(t *testing.T) {
	b := component.NewBuilder(1)
	shared := b.View(b.Text("x"))
	root := b.Root(shared, shared)
	assert.Equal(t, 5, Count(root))
}
