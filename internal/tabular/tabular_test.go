package tabular_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalextract/internal/tabular"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "  \n\t ", want: ""},
		{name: "plain csv", in: "a,b\n1,2", want: "a,b\n1,2"},
		{name: "surrounding whitespace", in: "\n  a,b\n1,2  \n", want: "a,b\n1,2"},
		{name: "fenced with tag", in: "```csv\na,b\n1,2\n```", want: "a,b\n1,2"},
		{name: "fenced upper tag", in: "```CSV\na,b\n```", want: "a,b"},
		{name: "fenced without tag", in: "```\na,b\n1,2\n```", want: "a,b\n1,2"},
		{name: "fenced no newline", in: "```a,b```", want: "a,b"},
		{name: "bare csv token", in: "csv\na,b\n1,2", want: "a,b\n1,2"},
		{name: "bare csv token mixed case", in: "Csv a,b", want: "a,b"},
		{name: "csv prefix of a word kept", in: "csvfile,b\n1,2", want: "csvfile,b\n1,2"},
		{name: "nested fences", in: "```csv\n```csv\na,b\n```\n```", want: "a,b"},
		{name: "no csv at all", in: "I could not find any data.", want: "I could not find any data."},
		{name: "only a fence", in: "```csv\n```", want: ""},
		{name: "leading byte order mark", in: "\ufeffa,b\n1,2", want: "a,b\n1,2"},
		{name: "byte order mark inside fence", in: "```csv\n\ufeffcsv\na,b\n```", want: "a,b"},
		{name: "csv followed by invalid byte", in: "csv\xa0a,b", want: "csv\xa0a,b"},
		{name: "csv followed by unicode space", in: "csv\u00a0a,b", want: "a,b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tabular.Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"```csv\na,b\n1,2\n```",
		"``` csv csv\n```a,b``` ```",
		"csv\ncsv\nCase No,County\n1,Harris",
		"  `a`  ",
		"Case No,County\n\"12,3\",Harris\n",
	}
	for _, in := range inputs {
		once := tabular.Normalize(in)
		assert.Equal(t, once, tabular.Normalize(once), "input %q", in)
	}
}

func TestParse_WellFormedRow(t *testing.T) {
	table, err := tabular.Parse("a,b,c\n1,2,3\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"1", "2", "3"}, table.Rows[0])
}

func TestParse_ShortRowSkipped(t *testing.T) {
	table, stats, err := tabular.ParseWithStats("a,b,c\n1,2\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, table.Columns)
	assert.Empty(t, table.Rows)
	assert.Equal(t, 1, stats.SkippedRows)
}

func TestParse_MalformedRowDoesNotStopParsing(t *testing.T) {
	text := "Case No,County,Tax Amount\n" +
		"2023-1,Harris,100.00\n" +
		"2023-2,Dallas,1,200.00\n" +
		"2023-3,Travis,300.00\n"

	table, stats, err := tabular.ParseWithStats(text)
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2023-1", table.Rows[0][0])
	assert.Equal(t, "2023-3", table.Rows[1][0])
	assert.Equal(t, 1, stats.SkippedRows)
}

func TestParse_HeaderOnly(t *testing.T) {
	table, err := tabular.Parse("Case No,County")
	require.NoError(t, err)

	assert.Equal(t, []string{"Case No", "County"}, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestParse_Empty(t *testing.T) {
	_, err := tabular.Parse("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tabular.ErrMalformedTable))
}

func TestParse_BlankHeader(t *testing.T) {
	_, err := tabular.Parse(" , \n1,2\n")
	assert.ErrorIs(t, err, tabular.ErrMalformedTable)
}

func TestParse_NoTypeCoercion(t *testing.T) {
	table, err := tabular.Parse("Zip Code,Tax Amount\n00501,$6385.50\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"00501", "$6385.50"}, table.Rows[0])
}

func TestParse_QuotedFields(t *testing.T) {
	table, err := tabular.Parse("Name, Address\n\"Doe, John\", \"12 Main St\nApt 4\"\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Address"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Doe, John", table.Rows[0][0])
	assert.Equal(t, "12 Main St\nApt 4", table.Rows[0][1])
}

func TestTable_RoundTrip(t *testing.T) {
	original := &tabular.Table{
		Columns: []string{"Case No", "First Name", "Tax Amount", "Notes"},
		Rows: [][]string{
			{"2023-TX-1", "Jane", "6385.56", "has, comma"},
			{"2023-TX-2", " leading space", "", "quote \"inside\""},
			{"2023-TX-3", "Ann", "12.00", "multi\nline"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, original.WriteCSV(&buf))

	parsed, err := tabular.Parse(buf.String())
	require.NoError(t, err)

	assert.True(t, original.Equal(parsed))
	assert.Equal(t, original, parsed)
}

func TestTable_RoundTrip_SingleEmptyCell(t *testing.T) {
	parsed, err := tabular.Parse("a\n\"\"\n")
	require.NoError(t, err)
	require.Equal(t, [][]string{{""}}, parsed.Rows)

	var buf bytes.Buffer
	require.NoError(t, parsed.WriteCSV(&buf))
	assert.Equal(t, "a\n\"\"\n", buf.String())

	again, err := tabular.Parse(buf.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equal(again))
}

func TestParse_UnterminatedQuoteSkipsOneLine(t *testing.T) {
	table, stats, err := tabular.ParseWithStats("a,b\n1,\"x\n2,3\n4,5\n")
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"2", "3"}, {"4", "5"}}, table.Rows)
	assert.Equal(t, 1, stats.SkippedRows)
}

func TestParse_UnterminatedQuoteAtFieldStart(t *testing.T) {
	table, stats, err := tabular.ParseWithStats("a,b\n\"x,1\n2,3\n")
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"2", "3"}}, table.Rows)
	assert.Equal(t, 1, stats.SkippedRows)
}

func TestParse_UnterminatedQuoteInHeader(t *testing.T) {
	_, err := tabular.Parse("\"a,b\n1,2\n")
	assert.ErrorIs(t, err, tabular.ErrMalformedTable)
}

func TestParse_ByteOrderMarkAfterNormalize(t *testing.T) {
	table, err := tabular.Parse(tabular.Normalize("\ufeffa,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Columns)
}

func TestTable_EqualAndClone(t *testing.T) {
	a := &tabular.Table{Columns: []string{"x"}, Rows: [][]string{{"1"}}}
	b := a.Clone()

	assert.True(t, a.Equal(b))
	b.Rows[0][0] = "2"
	assert.False(t, a.Equal(b))
	assert.Equal(t, "1", a.Rows[0][0])

	var nilTable *tabular.Table
	assert.True(t, nilTable.Equal(nil))
	assert.False(t, a.Equal(nil))
}

func table(cols []string, rows ...[]string) *tabular.Table {
	if rows == nil {
		rows = [][]string{}
	}
	return &tabular.Table{Columns: cols, Rows: rows}
}

func TestCombine_NoSources(t *testing.T) {
	combined, rejected := tabular.Combine(tabular.HeaderPolicyUnion, nil)

	assert.Nil(t, combined)
	assert.Empty(t, rejected)
}

func TestCombine_PreservesSubmissionOrder(t *testing.T) {
	cols := []string{"Case No", "County"}
	sources := []tabular.Source{
		{Label: "doc1.pdf", Table: table(cols, []string{"1", "Harris"})},
		{Label: "doc2.pdf", Table: nil},
		{Label: "doc3.pdf", Table: table(cols, []string{"3", "Travis"}, []string{"4", "Bexar"})},
	}

	for _, policy := range []tabular.HeaderPolicy{tabular.HeaderPolicyFirst, tabular.HeaderPolicyStrict, tabular.HeaderPolicyUnion} {
		t.Run(string(policy), func(t *testing.T) {
			combined, rejected := tabular.Combine(policy, sources)

			require.NotNil(t, combined)
			assert.Empty(t, rejected)
			assert.Equal(t, cols, combined.Columns)
			assert.Equal(t, [][]string{{"1", "Harris"}, {"3", "Travis"}, {"4", "Bexar"}}, combined.Rows)
		})
	}
}

func TestCombine_FirstPolicyFitsRows(t *testing.T) {
	sources := []tabular.Source{
		{Label: "a", Table: table([]string{"x", "y"}, []string{"1", "2"})},
		{Label: "b", Table: table([]string{"x", "y", "z"}, []string{"3", "4", "5"})},
		{Label: "c", Table: table([]string{"x"}, []string{"6"})},
	}

	combined, rejected := tabular.Combine(tabular.HeaderPolicyFirst, sources)

	assert.Empty(t, rejected)
	assert.Equal(t, []string{"x", "y"}, combined.Columns)
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}, {"6", ""}}, combined.Rows)
}

func TestCombine_StrictRejectsMismatch(t *testing.T) {
	sources := []tabular.Source{
		{Label: "a.pdf", Table: table([]string{"x", "y"}, []string{"1", "2"})},
		{Label: "b.pdf", Table: table([]string{"y", "x"}, []string{"3", "4"})},
		{Label: "c.pdf", Table: table([]string{"x", "y"}, []string{"5", "6"})},
	}

	combined, rejected := tabular.Combine(tabular.HeaderPolicyStrict, sources)

	assert.Equal(t, [][]string{{"1", "2"}, {"5", "6"}}, combined.Rows)
	require.Len(t, rejected, 1)
	assert.Equal(t, "b.pdf", rejected[0].Label)
	assert.ErrorIs(t, rejected[0].Err, tabular.ErrHeaderMismatch)
}

func TestCombine_UnionAlignsByName(t *testing.T) {
	sources := []tabular.Source{
		{Label: "a", Table: table([]string{"Case No", "County"}, []string{"1", "Harris"})},
		{Label: "b", Table: table([]string{"county", "Case No", "Zip Code"}, []string{"Travis", "2", "78701"})},
	}

	combined, rejected := tabular.Combine(tabular.HeaderPolicyUnion, sources)

	assert.Empty(t, rejected)
	assert.Equal(t, []string{"Case No", "County", "Zip Code"}, combined.Columns)
	assert.Equal(t, [][]string{{"1", "Harris", ""}, {"2", "Travis", "78701"}}, combined.Rows)
}

func TestCombine_UnionKeepsDuplicateColumns(t *testing.T) {
	sources := []tabular.Source{
		{Label: "a", Table: table([]string{"Name", "Name"}, []string{"Jane", "Doe"})},
		{Label: "b", Table: table([]string{"Name"}, []string{"Ann"})},
	}

	combined, _ := tabular.Combine(tabular.HeaderPolicyUnion, sources)

	assert.Equal(t, []string{"Name", "Name"}, combined.Columns)
	assert.Equal(t, [][]string{{"Jane", "Doe"}, {"Ann", ""}}, combined.Rows)
}

func TestParseHeaderPolicy(t *testing.T) {
	p, err := tabular.ParseHeaderPolicy(" Union ")
	require.NoError(t, err)
	assert.Equal(t, tabular.HeaderPolicyUnion, p)

	_, err = tabular.ParseHeaderPolicy("merge")
	assert.Error(t, err)
}

func TestStripNumericCommas(t *testing.T) {
	tbl := table([]string{"Case No", "Tax Amount"},
		[]string{"1,2", "$6,385.56"},
		[]string{"3", "1,000"},
		[]string{"4", "12,5"},
		[]string{"5", "700.10"},
	)

	changed := tabular.StripNumericCommas(tbl, "tax amount", "Missing")

	assert.Equal(t, 2, changed)
	assert.Equal(t, "1,2", tbl.Rows[0][0])
	assert.Equal(t, "$6385.56", tbl.Rows[0][1])
	assert.Equal(t, "1000", tbl.Rows[1][1])
	assert.Equal(t, "12,5", tbl.Rows[2][1])
	assert.Equal(t, "700.10", tbl.Rows[3][1])
}
