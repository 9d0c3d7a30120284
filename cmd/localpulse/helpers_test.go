package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/types"
)

func resetFeedFlags() {
	feedUrgency = nil
	feedMinLegitimacy = -1
}

func TestFeedCriteria_Defaults(t *testing.T) {
	resetFeedFlags()

	criteria, err := feedCriteria()
	require.NoError(t, err)

	assert.Equal(t, []types.UrgencyLevel{types.UrgencyImmediate, types.UrgencyWithin24h}, criteria.Urgency)
	assert.Equal(t, 80, criteria.MinLegitimacy)
}

func TestFeedCriteria_Overrides(t *testing.T) {
	resetFeedFlags()
	feedUrgency = []string{"Ongoing", "Flexible"}
	feedMinLegitimacy = 50

	criteria, err := feedCriteria()
	require.NoError(t, err)

	assert.Equal(t, []types.UrgencyLevel{types.UrgencyOngoing, types.UrgencyFlexible}, criteria.Urgency)
	assert.Equal(t, 50, criteria.MinLegitimacy)
}

func TestFeedCriteria_BadValues(t *testing.T) {
	resetFeedFlags()
	feedUrgency = []string{"Yesterday"}
	_, err := feedCriteria()
	assert.Error(t, err)

	resetFeedFlags()
	feedMinLegitimacy = 150
	_, err = feedCriteria()
	assert.Error(t, err)
}

func TestDetectImageMIME(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0, 0, 0, 0}

	mimeType, err := detectImageMIME(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)

	_, err = detectImageMIME([]byte("just some text, definitely not an image"))
	assert.Error(t, err)
}

func TestSplitDataURL(t *testing.T) {
	mimeType, data, err := splitDataURL("data:image/jpeg;base64,ZmFrZWpwZWc=")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)
	assert.Equal(t, []byte("fakejpeg"), data)
}

func TestSplitDataURL_Malformed(t *testing.T) {
	for _, url := range []string{
		"https://example.com/image.jpg",
		"data:image/jpeg;base64",
		"data:image/jpeg;base64,!!!",
	} {
		_, _, err := splitDataURL(url)
		assert.Error(t, err, url)
	}
}
