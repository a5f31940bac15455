package backoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConstant(t *testing.T) {
	s := Constant(5 * time.Second)

	for i := uint(1); i < 10; i++ {
		assert.Equal(t, 5*time.Second, s(i))
	}
}

func TestLinear(t *testing.T) {
	s := Linear(2 * time.Second)

	for i := uint(1); i < 10; i++ {
		assert.Equal(t, time.Duration(i)*2*time.Second, s(i))
	}
}

func TestExponential(t *testing.T) {
	s := Exponential(time.Second, 3)

	assert.Equal(t, 1*time.Second, s(1))
	assert.Equal(t, 3*time.Second, s(2))
	assert.Equal(t, 9*time.Second, s(3))
	assert.Equal(t, 27*time.Second, s(4))
}

func TestBinaryExponential(t *testing.T) {
	s := BinaryExponential(time.Second)

	for i := uint(1); i < 10; i++ {
		assert.Equal(t, time.Duration(1<<(i-1))*time.Second, s(i))
	}
}
