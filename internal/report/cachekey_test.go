package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKeyDeterministic(t *testing.T) {
	a := CacheKey([]string{"headache", "fever"}, "unwell", 34)
	b := CacheKey([]string{"headache", "fever"}, "unwell", 34)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestCacheKeyIgnoresOrderCaseAndDuplicates(t *testing.T) {
	a := CacheKey([]string{"Fever", "headache"}, "unwell", 34)
	b := CacheKey([]string{"headache", " fever ", "FEVER"}, "Unwell", 34)
	assert.Equal(t, a, b)
}

func TestCacheKeySharesAgeBucket(t *testing.T) {
	// 30-34 share a bucket; 35 starts a new one.
	assert.Equal(t,
		CacheKey([]string{"cough"}, "tired", 30),
		CacheKey([]string{"cough"}, "tired", 34))
	assert.NotEqual(t,
		CacheKey([]string{"cough"}, "tired", 34),
		CacheKey([]string{"cough"}, "tired", 35))
}

func TestCacheKeyDistinguishesInputs(t *testing.T) {
	base := CacheKey([]string{"cough"}, "tired", 30)
	assert.NotEqual(t, base, CacheKey([]string{"fever"}, "tired", 30))
	assert.NotEqual(t, base, CacheKey([]string{"cough"}, "unwell", 30))
}

func TestAgeBucket(t *testing.T) {
	assert.Equal(t, 0, AgeBucket(-1))
	assert.Equal(t, 0, AgeBucket(4))
	assert.Equal(t, 5, AgeBucket(5))
	assert.Equal(t, 30, AgeBucket(34))
	assert.Equal(t, 35, AgeBucket(35))
	assert.Equal(t, 120, AgeBucket(120))
}
