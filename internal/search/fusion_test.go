package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotelane/salesagent/internal/catalog"
)

func doc(id string) catalog.Document {
	return catalog.Document{ID: id, Name: "Product " + id}
}

func ids(docs []catalog.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestFuseOrdersByReciprocalRank(t *testing.T) {
	lexical := []catalog.Document{doc("A"), doc("B"), doc("C")}
	vector := []catalog.Document{doc("B"), doc("A"), doc("D")}

	fused := Fuse(lexical, vector, 60)

	// A and B tie on score (1/61 + 1/62 each); A wins on lexical rank.
	// C and D tie on 1/63; C appears in the lexical list, D only in the
	// vector list, so C sorts first.
	assert.Equal(t, []string{"A", "B", "C", "D"}, ids(fused))

	require.Len(t, fused, 4)
	assert.InDelta(t, 1.0/61+1.0/62, fused[0].Score, 1e-12)
	assert.InDelta(t, 1.0/61+1.0/62, fused[1].Score, 1e-12)
	assert.InDelta(t, 1.0/63, fused[2].Score, 1e-12)
	assert.InDelta(t, 1.0/63, fused[3].Score, 1e-12)
}

func TestFuseIsDeterministic(t *testing.T) {
	lexical := []catalog.Document{doc("X"), doc("Y"), doc("Z")}
	vector := []catalog.Document{doc("Z"), doc("W"), doc("X")}

	first := Fuse(lexical, vector, 60)
	second := Fuse(lexical, vector, 60)

	assert.Equal(t, first, second)
}

func TestFuseInputsUntouched(t *testing.T) {
	lexical := []catalog.Document{doc("A"), doc("B")}
	vector := []catalog.Document{doc("B"), doc("A")}

	Fuse(lexical, vector, 60)

	assert.Equal(t, []string{"A", "B"}, ids(lexical))
	assert.Equal(t, []string{"B", "A"}, ids(vector))
	assert.Zero(t, lexical[0].Score)
}

func TestFuseDualListOutranksSingleList(t *testing.T) {
	// Same rank in both lists must score at least as high as the same rank
	// in only one list.
	lexical := []catalog.Document{doc("both"), doc("lexonly")}
	vector := []catalog.Document{doc("both"), doc("veconly")}

	fused := Fuse(lexical, vector, 60)

	require.NotEmpty(t, fused)
	assert.Equal(t, "both", fused[0].ID)
	assert.Greater(t, fused[0].Score, fused[1].Score)
}

func TestFuseDegenerateCases(t *testing.T) {
	lexical := []catalog.Document{doc("A"), doc("B")}
	vector := []catalog.Document{doc("C")}

	assert.Equal(t, lexical, Fuse(lexical, nil, 60))
	assert.Equal(t, vector, Fuse(nil, vector, 60))
	assert.Empty(t, Fuse(nil, nil, 60))
}

func TestFuseKeepsMostRecentPayload(t *testing.T) {
	lexDoc := catalog.Document{ID: "A", Name: "Stale Name"}
	vecDoc := catalog.Document{ID: "A", Name: "Fresh Name", Price: 99}

	fused := Fuse([]catalog.Document{lexDoc}, []catalog.Document{vecDoc}, 60)

	require.Len(t, fused, 1)
	assert.Equal(t, "Fresh Name", fused[0].Name)
	assert.Equal(t, 99.0, fused[0].Price)
}

func TestFuseIdentityFallsBackToName(t *testing.T) {
	// Documents without ids dedup by name.
	lexical := []catalog.Document{{Name: "Gaming Mouse"}}
	vector := []catalog.Document{{Name: "Gaming Mouse"}, {Name: "Office Mouse"}}

	fused := Fuse(lexical, vector, 60)

	require.Len(t, fused, 2)
	assert.Equal(t, "Gaming Mouse", fused[0].Name)
}

func TestFuseDefaultsConstant(t *testing.T) {
	lexical := []catalog.Document{doc("A")}
	vector := []catalog.Document{doc("A")}

	fused := Fuse(lexical, vector, 0)

	require.Len(t, fused, 1)
	assert.InDelta(t, 2.0/61, fused[0].Score, 1e-12)
}
