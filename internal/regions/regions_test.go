package regions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableShape(t *testing.T) {
	tbl := Default()

	assert.Equal(t, 36, tbl.Len())
	assert.Equal(t, 28, tbl.Count(KindState))
	assert.Equal(t, 8, tbl.Count(KindUnionTerritory))

	names := tbl.Names()
	assert.Equal(t, "Andhra Pradesh", names[0])
	assert.Equal(t, "West Bengal", names[27])
	assert.Equal(t, "Andaman and Nicobar Islands", names[28])
	assert.Equal(t, "Puducherry", names[35])
}

func TestDefaultEveryNameHasUniqueCode(t *testing.T) {
	tbl := Default()
	seen := map[string]string{}
	for _, name := range tbl.Names() {
		code, ok := tbl.CodeFor(name)
		require.True(t, ok, "no code for %s", name)
		require.NotEmpty(t, code)
		if other, dup := seen[code]; dup {
			t.Fatalf("code %s shared by %s and %s", code, other, name)
		}
		seen[code] = name
	}
}

func TestLookupByNameAndAlias(t *testing.T) {
	tbl := Default()

	tests := []struct {
		input string
		want  string
	}{
		{"Andhra Pradesh", "Andhra Pradesh"},
		{"  andhra PRADESH ", "Andhra Pradesh"},
		{"ap", "Andhra Pradesh"},
		{"AP", "Andhra Pradesh"},
		{"orissa", "Odisha"},
		{"Pondicherry", "Puducherry"},
		{"j&k", "Jammu and Kashmir"},
		{"NCT", "Delhi"},
		{"daman and diu", "Dadra and Nagar Haveli and Daman and Diu"},
		{"Dadra and Nagar Haveli and Daman and Diu", "Dadra and Nagar Haveli and Daman and Diu"},
		{"andaman", "Andaman and Nicobar Islands"},
		{"tamilnadu", "Tamil Nadu"},
		{"bengal", "West Bengal"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, ok := tbl.Lookup(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, r.Name)
		})
	}
}

func TestLookupMisses(t *testing.T) {
	tbl := Default()
	for _, in := range []string{"", "   ", "atlantis", "tamil  nadu", "andhra"} {
		_, ok := tbl.Lookup(in)
		assert.False(t, ok, "expected no match for %q", in)
	}
}

func TestCodeForOdishaUsesCanonicalName(t *testing.T) {
	tbl := Default()

	code, ok := tbl.CodeFor("Odisha")
	require.True(t, ok)
	assert.Equal(t, "OR", code)

	_, ok = tbl.CodeFor("orissa")
	assert.False(t, ok)
}

func TestNewNormalizesAliases(t *testing.T) {
	tbl, err := New([]Region{
		{Name: "Goa", Code: "GA", Kind: KindState, Aliases: []string{" GOA ", "goa", ""}},
	})
	require.NoError(t, err)

	got := tbl.All()[0].Aliases
	if diff := cmp.Diff([]string{"goa"}, got); diff != "" {
		t.Fatalf("aliases mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name string
		list []Region
		want error
	}{
		{"empty", nil, ErrEmptyTable},
		{"blank name", []Region{{Name: " ", Code: "X"}}, ErrEmptyName},
		{"missing code", []Region{{Name: "Goa"}}, ErrMissingCode},
		{
			"duplicate name any case",
			[]Region{{Name: "Goa", Code: "GA"}, {Name: "GOA", Code: "GB"}},
			ErrDuplicateName,
		},
		{
			"duplicate code",
			[]Region{{Name: "Goa", Code: "GA"}, {Name: "Kerala", Code: "GA"}},
			ErrDuplicateCode,
		},
		{
			"alias shared by two regions",
			[]Region{
				{Name: "Madhya Pradesh", Code: "MP", Aliases: []string{"mp"}},
				{Name: "Meghalaya", Code: "ML", Aliases: []string{"MP"}},
			},
			ErrAliasCollision,
		},
		{
			"alias equals another name",
			[]Region{
				{Name: "Goa", Code: "GA", Aliases: []string{"kerala"}},
				{Name: "Kerala", Code: "KL"},
			},
			ErrAliasCollision,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.list)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), tbl)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.json")
	body := `[{"name":"Goa","code":"GA","kind":"state","aliases":["goa"]},
	          {"name":"Delhi","code":"DL","kind":"union_territory","aliases":["nct"]}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	r, ok := tbl.Lookup("NCT")
	require.True(t, ok)
	assert.Equal(t, "Delhi", r.Name)
}

func TestLoadReportsBadFiles(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "read regions file:"))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"}`), 0o644))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode regions")
}

func TestAllReturnsCopies(t *testing.T) {
	tbl := Default()
	all := tbl.All()
	all[0].Name = "changed"
	all[0].Aliases[0] = "changed"

	assert.Equal(t, "Andhra Pradesh", tbl.Names()[0])
	r, ok := tbl.Lookup("andhra pradesh")
	require.True(t, ok)
	assert.Equal(t, "andhra pradesh", r.Aliases[0])
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(" \t\n"))
	assert.Equal(t, "west bengal", Normalize("  West BENGAL\t"))
	assert.Equal(t, "j&k", Normalize("J&K"))
}
