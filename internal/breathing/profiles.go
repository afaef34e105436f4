// Package breathing implements the guided breathing cycle.
package breathing

// Profile is an immutable breathing exercise. Durations are whole seconds.
type Profile struct {
	Name        string
	Inhale      int
	Hold        int
	Exhale      int
	Hold2       int
	Description string
}

// CycleSeconds is the length of one full cycle.
func (p Profile) CycleSeconds() int {
	return p.Inhale + p.Hold + p.Exhale + p.Hold2
}

// Profiles is the built-in exercise catalog.
var Profiles = []Profile{
	{
		Name:        "Box Breathing (4-4-4-4)",
		Inhale:      4,
		Hold:        4,
		Exhale:      4,
		Hold2:       4,
		Description: "Equal counts in, hold, out, hold. Steadies attention under stress.",
	},
	{
		Name:        "4-7-8 Relaxing Breath",
		Inhale:      4,
		Hold:        7,
		Exhale:      8,
		Description: "Long hold and slow exhale. Helps the body wind down before sleep.",
	},
	{
		Name:        "Equal Breathing (5-5)",
		Inhale:      5,
		Exhale:      5,
		Description: "Matched inhale and exhale without pauses.",
	},
	{
		Name:        "Coherent Breathing (6-6)",
		Inhale:      6,
		Exhale:      6,
		Description: "About five breaths a minute, a pace linked to calmer heart rhythm.",
	},
	{
		Name:        "Triangle Breathing (4-4-4)",
		Inhale:      4,
		Hold:        4,
		Exhale:      4,
		Description: "Inhale, hold, exhale. A gentler variant of box breathing.",
	},
}

// ProfileByName looks up a catalog entry.
func ProfileByName(name string) (Profile, bool) {
	for _, p := range Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}
