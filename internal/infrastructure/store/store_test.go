package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextBackoffDoublesAndCaps(t *testing.T) {
	d := backoffInitial
	assert.Equal(t, time.Second, d)

	d = nextBackoff(d)
	assert.Equal(t, 2*time.Second, d)
	d = nextBackoff(d)
	assert.Equal(t, 4*time.Second, d)

	for i := 0; i < 10; i++ {
		d = nextBackoff(d)
	}
	assert.Equal(t, backoffMax, d)
}

func TestXDSTypeOf(t *testing.T) {
	assert.Equal(t, "TDS", xdsTypeOf(TDSPrefix+"T1"))
	assert.Equal(t, "IDS", xdsTypeOf(IDSPrefix+"I1"))
}
