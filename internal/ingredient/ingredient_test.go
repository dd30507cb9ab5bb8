package ingredient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/cookr/internal/ingredient"
)

func TestSplitItems(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Pomidory (400g) Cebula 200 g", "Pomidory (400g)\nCebula 200 g"},
		{"Mąka (500g) Śmietana 200 g", "Mąka (500g)\nŚmietana 200 g"},
		{"Pomidory (400g) pokrojone", "Pomidory (400g) pokrojone"},
		{"Cebula 200 g", "Cebula 200 g"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ingredient.SplitItems(tt.input), "SplitItems(%q)", tt.input)
	}
}

func TestRemoveUnits(t *testing.T) {
	assert.Equal(t, "Pomidory ", ingredient.RemoveUnits("Pomidory (400g)"))
	assert.Equal(t, "Jajka   duże", ingredient.RemoveUnits("Jajka (3 szt.) (M) duże"))
	assert.Equal(t, "Bez nawiasów", ingredient.RemoveUnits("Bez nawiasów"))
}

func TestCleanUp(t *testing.T) {
	input := "*Pomidory (400g) Cebula 200 g,\nSól, pieprz*"
	got := ingredient.CleanUp(input)

	assert.Equal(t, "Pomidory\nCebula 200 g\nSól pieprz", got)
}

func TestCleanUp_Idempotent(t *testing.T) {
	inputs := []string{
		"*Pomidory (400g) Cebula 200 g,\nSól, pieprz*",
		"Masło (200g), Mleko (1l) Jajka",
		"",
		"a,,b**c",
	}
	for _, input := range inputs {
		once := ingredient.CleanUp(input)
		assert.Equal(t, once, ingredient.CleanUp(once), "CleanUp(%q) not idempotent", input)
	}
}

func TestSortLines(t *testing.T) {
	assert.Equal(t, "Cebula\nMarchew\nPomidory", ingredient.SortLines("Pomidory\nCebula\nMarchew"))
	assert.Equal(t, "", ingredient.SortLines(""))
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		input      string
		wantName   string
		wantAmount int
	}{
		{"Cebula 200 g", "Cebula", 200},
		{"Cebula 200g", "Cebula", 200},
		{"Pomidory (400g)", "Pomidory", 400},
		{"Cebula 200 g (2 szt.)", "Cebula", 200},
		{"Sól do smaku", "Sól do smaku", 0},
		{"Pomidory 400g 200g", "Pomidory 200g", 400},
		{"*Masło* 50 g", "Masło", 50},
		{"Mąka , 300 g", "Mąka", 300},
		{"2 gruszki", "2 gruszki", 0},
	}
	for _, tt := range tests {
		got := ingredient.ParseLine(tt.input)
		assert.Equal(t, tt.wantName, got.Name, "ParseLine(%q).Name", tt.input)
		assert.Equal(t, tt.wantAmount, got.Amount, "ParseLine(%q).Amount", tt.input)
		assert.Empty(t, got.Merged)
	}
}

func TestParseText_SplitsGluedItems(t *testing.T) {
	products := ingredient.ParseText("Pomidory (400g) Cebula 200 g")

	require.Len(t, products, 2)
	assert.Equal(t, ingredient.Product{Name: "Pomidory", Amount: 400}, products[0])
	assert.Equal(t, ingredient.Product{Name: "Cebula", Amount: 200}, products[1])
}

func TestParseText_DropsEmptyLines(t *testing.T) {
	products := ingredient.ParseText("\n  \nCebula 200 g\r\n(100g)\n***\n")

	require.Len(t, products, 1)
	assert.Equal(t, "Cebula", products[0].Name)
}

func TestParseText_Empty(t *testing.T) {
	assert.Empty(t, ingredient.ParseText(""))
	assert.Empty(t, ingredient.ParseText("   \n\t"))
}

func TestParseText_NFCNames(t *testing.T) {
	// "ó" written as o + combining acute accent.
	products := ingredient.ParseText("So\u0301l 5 g")

	require.Len(t, products, 1)
	assert.Equal(t, "Sól", products[0].Name)
}

func TestProductLeaves(t *testing.T) {
	single := ingredient.Product{Name: "Cebula", Amount: 200}
	assert.Equal(t, []ingredient.Product{single}, single.Leaves())

	merged := ingredient.Product{
		Name:   "Cebula",
		Amount: 300,
		Merged: []ingredient.Product{{Name: "Cebula", Amount: 200}, {Name: "Cebule", Amount: 100}},
	}
	assert.Len(t, merged.Leaves(), 2)
	assert.Equal(t, 300, ingredient.TotalAmount(merged.Leaves()))
}
