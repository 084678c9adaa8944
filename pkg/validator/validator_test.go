package validator

import (
	"net/http"
	"strings"
	"testing"

	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/kindnest/kindnest-api/pkg/wordfilter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLength(t *testing.T) {
	assert.NoError(t, CheckLength("post", "hello", MaxPostLength))

	err := CheckLength("post", "", MaxPostLength)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
	assert.Contains(t, err.Error(), "post cannot be empty")

	err = CheckLength("post", "   ", MaxPostLength)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	err = CheckLength("post", strings.Repeat("x", MaxPostLength+1), MaxPostLength)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
	assert.Contains(t, err.Error(), "cannot be longer than 480 characters")
}

func TestCheckFilteredNamesTheWord(t *testing.T) {
	filter := wordfilter.New([]string{"villain"})

	assert.NoError(t, CheckFiltered("post", "all good", filter))

	err := CheckFiltered("post", "what a Villain move", filter)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
	assert.Contains(t, err.Error(), "contains the word 'villain'")
}
