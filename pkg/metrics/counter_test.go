package metrics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterMostCommonKeepsFirstSeenOrderOnTies(t *testing.T) {
	c := NewCounter()
	for _, tok := range []string{"b", "a", "a", "c", "b"} {
		c.Add(tok)
	}

	assert.Equal(t, []TokenCount{{"b", 2}, {"a", 2}, {"c", 1}}, c.MostCommon(0))
	assert.Equal(t, []TokenCount{{"b", 2}}, c.MostCommon(1))
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 5, c.Total())
}

func TestBreakdownOtherBucket(t *testing.T) {
	c := NewCounter()
	for i := 0; i < 12; i++ {
		for j := 0; j <= i; j++ {
			c.Add(fmt.Sprintf("t%02d", i))
		}
	}

	b := NewBreakdown("test", c, 10)
	assert.Len(t, b.Top, 10)
	assert.Equal(t, "t11", b.Top[0].Token)
	// t00 (1) + t01 (2) 不在前十
	assert.Equal(t, 3, b.Other)
	assert.Equal(t, 78, b.Total)

	buckets := b.Buckets()
	assert.Len(t, buckets, 11)
	assert.Equal(t, TokenCount{Token: OtherLabel, Count: 3}, buckets[10])
	assert.False(t, b.Empty())
}
