// Package meditation implements the guided meditation timer.
package meditation

// Script is an immutable guided meditation.
type Script struct {
	ID          string
	Name        string
	Description string
	Prompts     []string
}

// Durations are the selectable session lengths in seconds.
var Durations = []int{60, 180, 300, 600}

// DefaultDuration is used when nothing else is selected.
const DefaultDuration = 180

// Scripts is the built-in catalog.
var Scripts = []Script{
	{
		ID:          "body-scan",
		Name:        "Body Scan",
		Description: "Move attention slowly from head to toe.",
		Prompts: []string{
			"Settle into a comfortable position and close your eyes.",
			"Bring your attention to the top of your head.",
			"Notice your forehead, your eyes and your jaw. Let them soften.",
			"Feel your shoulders drop away from your ears.",
			"Notice the rise and fall of your chest.",
			"Let your belly be soft as you breathe.",
			"Bring awareness to your hips and legs.",
			"Feel the weight of your feet resting on the ground.",
			"Hold your whole body in awareness, breathing gently.",
		},
	},
	{
		ID:          "breath-anchor",
		Name:        "Breath Anchor",
		Description: "Use the breath as a place to return to.",
		Prompts: []string{
			"Sit upright and let your hands rest.",
			"Notice the air moving in and out of your nose.",
			"Each time the mind wanders, gently return to the breath.",
			"Count ten breaths, then begin again at one.",
			"Let the breath breathe itself.",
		},
	},
	{
		ID:          "loving-kindness",
		Name:        "Loving Kindness",
		Description: "Offer warmth to yourself and others.",
		Prompts: []string{
			"Bring to mind someone who makes you smile.",
			"Silently wish them: may you be happy.",
			"Turn the same wish toward yourself.",
			"Think of someone you find difficult, and wish them ease.",
			"Extend the wish to everyone, everywhere.",
			"May all beings be peaceful.",
		},
	},
	{
		ID:          "grounding",
		Name:        "5-4-3-2-1 Grounding",
		Description: "Return to the present through the senses.",
		Prompts: []string{
			"Notice five things you can see.",
			"Notice four things you can feel.",
			"Notice three things you can hear.",
			"Notice two things you can smell.",
			"Notice one thing you can taste.",
			"Take a slow breath and rest here.",
		},
	},
}

// ScriptByID looks up a catalog entry.
func ScriptByID(id string) (Script, bool) {
	for _, s := range Scripts {
		if s.ID == id {
			return s, true
		}
	}
	return Script{}, false
}

// MinCadence is the shortest interval between prompts, in seconds.
const MinCadence = 5

// Cadence returns the seconds between prompt advances.
func Cadence(durationSeconds, prompts int) int {
	if prompts <= 0 {
		return MinCadence
	}
	c := durationSeconds / prompts
	if c < MinCadence {
		return MinCadence
	}
	return c
}

// PromptIndex derives the active prompt from elapsed time. It returns -1 for
// an empty script.
func PromptIndex(elapsed, durationSeconds, prompts int) int {
	if prompts <= 0 {
		return -1
	}
	if elapsed < 0 {
		elapsed = 0
	}
	idx := elapsed / Cadence(durationSeconds, prompts)
	if idx > prompts-1 {
		return prompts - 1
	}
	return idx
}
