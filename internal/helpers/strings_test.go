package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitAndTrim(" a , ,b,", ","))
	assert.Empty(t, SplitAndTrim("", ","))
}
