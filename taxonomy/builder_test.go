package taxonomy

import (
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"testing"
)

func feedRows(rows ...Row) <-chan Row {
	out := make(chan Row, len(rows))
	for _, row := range rows {
		out <- row
	}
	close(out)
	return out
}

func TestBuildKeepsOnlyCategories(t *testing.T) {
	spec := DefaultSourceSpec()
	table, stats := Build(feedRows(
		Row{"Code": "01", "Title": "Certain infectious diseases", "ClassKind": "chapter"},
		Row{"Code": "1A00", "Title": "Cholera", "ClassKind": "category"},
		Row{"Code": "1A0", "Title": "Gastroenteritis block", "ClassKind": "block"},
	), spec)

	require.Equal(t, 1, stats.Accepted)
	require.Equal(t, 2, stats.Skipped)

	expected := Table{
		"cholera": {Code: "1A00", Description: "Cholera"},
	}
	if diff := cmp.Diff(expected, table); diff != "" {
		t.Errorf("unexpected table (-want +got):\n%s", diff)
	}
}

func TestBuildSkipsIncompleteRows(t *testing.T) {
	spec := DefaultSourceSpec()
	table, stats := Build(feedRows(
		Row{"Code": "", "Title": "Cholera", "ClassKind": "category"},
		Row{"Code": "1A00", "Title": "", "ClassKind": "category"},
		Row{"Code": "1A00", "Title": "\"---\"", "ClassKind": "category"},
		Row{"ClassKind": "category"},
	), spec)

	require.Empty(t, table)
	require.Equal(t, 0, stats.Accepted)
	require.Equal(t, 4, stats.Skipped)
}

func TestBuildKeyNormalization(t *testing.T) {
	spec := DefaultSourceSpec()
	table, _ := Build(feedRows(
		Row{"Code": "CA22", "Title": `  "Chronic obstructive pulmonary-disease"  `, "ClassKind": "category"},
	), spec)

	entry, ok := table["chronic obstructive pulmonarydisease"]
	require.True(t, ok, "table key must be the case-folded, quote- and hyphen-stripped title")
	require.Equal(t, "CA22", entry.Code)
	require.Equal(t, "Chronic obstructive pulmonarydisease", entry.Description)

	for key, entry := range table {
		require.Equal(t, Normalize(entry.Description), key)
		require.NotEmpty(t, entry.Code)
		require.NotEmpty(t, entry.Description)
	}
}

func TestBuildCollisionLastWins(t *testing.T) {
	spec := DefaultSourceSpec()
	table, stats := Build(feedRows(
		Row{"Code": "FA01", "Title": "Fracture", "ClassKind": "category"},
		Row{"Code": "FA02", "Title": "FRACTURE", "ClassKind": "category"},
	), spec)

	require.Len(t, table, 1)
	require.Equal(t, 2, stats.Accepted)
	require.Equal(t, "FA02", table["fracture"].Code)
}

func TestCleanTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"Cholera"`, "Cholera"},
		{"  Multi-drug resistance  ", "Multidrug resistance"},
		{`" - "`, ""},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, CleanTitle(tc.in))
	}
}
