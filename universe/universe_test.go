package universe

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

func TestReadUTF8(t *testing.T) {
	u, err := Read(bytes.NewReader([]byte("code,name\n600519,贵州茅台\n600036,招商银行\n")))
	require.NoError(t, err)

	assert.Equal(t, 2, u.Len())
	assert.Equal(t, []string{"600519", "600036"}, u.Codes())
	assert.Equal(t, "贵州茅台", u.Name("600519"))
	assert.True(t, u.Contains("600036"))
	assert.False(t, u.Contains("000001"))
}

func TestReadGBK(t *testing.T) {
	utf8CSV := "600519,贵州茅台\n601318,中国平安\n"
	gbk, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(), []byte(utf8CSV))
	require.NoError(t, err)

	u, err := Read(bytes.NewReader(gbk))
	require.NoError(t, err)
	assert.Equal(t, 2, u.Len())
	assert.Equal(t, "贵州茅台", u.Name("600519"))
	assert.Equal(t, "中国平安", u.Name("601318"))
}

func TestReadSkipsBlankAndDuplicate(t *testing.T) {
	u, err := Read(bytes.NewReader([]byte("600519,first\n\n600519,second\n,noname\n")))
	require.NoError(t, err)
	assert.Equal(t, 1, u.Len())
	assert.Equal(t, "first", u.Name("600519"))
}

func TestNameFallsBackToCode(t *testing.T) {
	u := New([]Instrument{{Code: "600519"}})
	assert.Equal(t, "600519", u.Name("600519"))
	assert.Equal(t, "999999", u.Name("999999"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.csv")
	require.NoError(t, os.WriteFile(path, []byte("600036,招商银行\n"), 0644))

	u, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestDefaultUniverse(t *testing.T) {
	u := Default()
	assert.Greater(t, u.Len(), 0)
	assert.True(t, u.Contains("600519"))
}
