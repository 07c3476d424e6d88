package port

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringPortReadWrite(t *testing.T) {
	f := NewFactory()
	defer f.Shutdown()

	in := f.OpenInputString("in", "ab")
	b, err := in.Reader.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b)

	out, buf := f.OpenOutputString("out")
	_, err = out.Writer.WriteString("hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", buf.String())
}

func TestFilePortRoundTrip(t *testing.T) {
	f := NewFactory()
	defer f.Shutdown()

	path := filepath.Join(t.TempDir(), "out.txt")

	out, err := f.OpenOutputFile(path)
	require.NoError(t, err)
	_, err = out.Writer.WriteString("hello")
	require.NoError(t, err)
	require.NoError(t, f.Close(out))
	assert.True(t, out.Closed())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got), "fileWriter must flush on close")

	in, err := f.OpenInputFile(path)
	require.NoError(t, err)
	b, err := in.Reader.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('h'), b)
}

func TestFactoryCloseAllClosesEveryTrackedPort(t *testing.T) {
	f := NewFactory()
	a := f.OpenInputString("a", "")
	b := f.OpenInputString("b", "")

	require.NoError(t, f.CloseAll())
	assert.True(t, a.Closed())
	assert.True(t, b.Closed())
	f.Shutdown()
}

func TestFactoryCloseIsIdempotent(t *testing.T) {
	f := NewFactory()
	defer f.Shutdown()

	p := f.OpenInputString("p", "")
	require.NoError(t, f.Close(p))
	assert.NoError(t, f.Close(p), "second Close should be a no-op, not an error")
}
