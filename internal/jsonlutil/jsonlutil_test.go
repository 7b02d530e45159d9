package jsonlutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartEncodesLines(t *testing.T) {
	var buf bytes.Buffer
	in, done := Start[int](&buf, 2, func(enc *json.Encoder, v int) error { return enc.Encode(v) }, func(error) bool { return false })
	for i := 0; i < 3; i++ {
		in <- i
	}
	close(in)
	assert.NoError(t, <-done)
	assert.Equal(t, "0\n1\n2\n", buf.String())
}

func TestStartDrainsAfterError(t *testing.T) {
	boom := errors.New("boom")
	in, done := Start[int](&bytes.Buffer{}, 1, func(*json.Encoder, int) error { return boom }, func(error) bool { return false })
	for i := 0; i < 10; i++ {
		in <- i
	}
	close(in)
	assert.ErrorIs(t, <-done, boom)
}
