package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("  HARD ")
	require.NoError(t, err)
	assert.Equal(t, Hard, d)

	_, err = ParseDifficulty("extreme")
	assert.ErrorContains(t, err, "extreme")
}

func TestDifficultyNextWraps(t *testing.T) {
	assert.Equal(t, Normal, Easy.Next())
	assert.Equal(t, Hard, Normal.Next())
	assert.Equal(t, Easy, Hard.Next())
	assert.Equal(t, Normal, Difficulty("").Next())
}

func TestNextThemeWraps(t *testing.T) {
	assert.Equal(t, "ocean", NextTheme("sand"))
	assert.Equal(t, "sand", NextTheme("dusk"))
	assert.Equal(t, "sand", NextTheme("neon"))
}

func TestPreferencesWireNames(t *testing.T) {
	raw, err := json.Marshal(DefaultPreferences())
	require.NoError(t, err)
	assert.JSONEq(t, `{"difficulty":"normal","theme":"sand","soundEnabled":true}`, string(raw))
}
