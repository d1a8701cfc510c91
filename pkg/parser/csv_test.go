package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamParse_SemicolonRoster(t *testing.T) {
	data := "\ufeff\"NO\";EMPLOYEE NAME;JOIN DATE\n1;Budi Santoso;01-Jan-20\n2;Siti Aminah;15/03/2021\n"

	table, err := StreamParse([]byte(data), ';')
	require.NoError(t, err)

	assert.Equal(t, []string{"NO", "EMPLOYEE NAME", "JOIN DATE"}, table.Headers)
	assert.Equal(t, EncodingUTF8BOM, table.Encoding)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "Budi Santoso", table.Records[0]["EMPLOYEE NAME"])
	assert.Equal(t, "15/03/2021", table.Records[1]["JOIN DATE"])
	assert.Empty(t, table.Warnings)
}

func TestStreamParse_DefaultDelimiter(t *testing.T) {
	table, err := StreamParse([]byte("A;B\nx;y\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, "y", table.Records[0]["B"])
}

func TestStreamParse_RaggedRows(t *testing.T) {
	data := "A;B;C\n1;2\n1;2;3;4\n"

	table, err := StreamParse([]byte(data), ';')
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	require.Len(t, table.Warnings, 2)

	assert.Equal(t, "", table.Records[0]["C"])
	assert.Equal(t, "3", table.Records[1]["C"])
	assert.Equal(t, 2, table.Warnings[0].Row)
	assert.Contains(t, table.Warnings[0].Message, "padding")
	assert.Contains(t, table.Warnings[1].Message, "truncating")
}

func TestStreamParse_Errors(t *testing.T) {
	_, err := StreamParse(nil, ';')
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = StreamParse([]byte("A;B\n"), ';')
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestStreamParse_DuplicateHeaders(t *testing.T) {
	table, err := StreamParse([]byte("ROLE;ROLE;ROLE\na;b;c\n"), ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE", "ROLE.1", "ROLE.2"}, table.Headers)
	assert.Equal(t, "c", table.Records[0]["ROLE.2"])
}

func TestStreamParse_SuffixCollidesWithHeader(t *testing.T) {
	table, err := StreamParse([]byte("A;A;A.1\nx;y;z\n"), ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A.1", "A.1.1"}, table.Headers)
	assert.Equal(t, map[string]string{"A": "x", "A.1": "y", "A.1.1": "z"}, table.Records[0])
}

func TestCleanHeader(t *testing.T) {
	assert.Equal(t, "EMPLOYEE NAME", CleanHeader("\ufeff\"EMPLOYEE NAME\" "))
	assert.Equal(t, "MAJOR", CleanHeader("MAJOR\ufffd"))
	assert.Equal(t, "JOIN DATE", CleanHeader(" JOIN DATE "))
}

func TestTableColumn(t *testing.T) {
	table := &Table{
		Headers: []string{"A"},
		Records: []map[string]string{{"A": "1"}, {"A": "2"}},
	}
	assert.Equal(t, []string{"1", "2"}, table.Column("A"))
}
