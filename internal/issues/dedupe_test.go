package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	list := []Issue{
		Errorf(CodeExpectedTypeDifferent, "value[0].id", "expected String"),
		Errorf(CodeExpectedTypeDifferent, "value[1].id", "expected String").WithValue("42"),
		Warningf(CodeExpectedTypeDifferent, "value[2].id", "expected String"),
		Errorf(CodeExpectedTypeDifferent, "value[2].name", "expected String"),
	}

	got := Dedupe(list)
	assert.Len(t, got, 3)
	assert.Equal(t, "value[0].id", got[0].Path, "first occurrence is kept")
	assert.Equal(t, "value[2].id", got[1].Path)
	assert.Equal(t, "value[2].name", got[2].Path)

	assert.Nil(t, Dedupe(nil))
}
