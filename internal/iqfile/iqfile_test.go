package iqfile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	samples := []complex64{1 + 2i, -3.5 + 0.25i, 0, 100 - 50i}
	var buf bytes.Buffer
	require.NoError(t, WriteComplex64(&buf, samples))

	got, err := ReadComplex64(&buf)
	require.NoError(t, err)
	assert.Equal(t, samples, got)
}

func TestReadRejectsBadLength(t *testing.T) {
	_, err := ReadComplex64(bytes.NewReader(make([]byte, 7)))
	assert.Error(t, err)
}
