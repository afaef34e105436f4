package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Jump       key.Binding
	Difficulty key.Binding
	Theme      key.Binding
	Sound      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next activity")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous activity")),
		Jump:       key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "jump")),
		Difficulty: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "difficulty")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Sound:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "sound")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Next, k.Help, k.Quit}
}

func (k keyMap) full() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Jump, k.Difficulty, k.Theme, k.Sound, k.Help, k.Quit}
}

// Keys shared by the activities. Space is reported as " " or "space"
// depending on the terminal input path.
var (
	toggleKey = key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "start/pause"))
	leftKey   = key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous"))
	rightKey  = key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next"))
	upKey     = key.NewBinding(key.WithKeys("up", "k", "+", "="), key.WithHelp("↑/+", "more"))
	downKey   = key.NewBinding(key.WithKeys("down", "j", "-"), key.WithHelp("↓/-", "less"))
	escKey    = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
)

func relabel(b key.Binding, keyLabel, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(b.Keys()...), key.WithHelp(keyLabel, desc))
}

// clickHint documents a mouse gesture in the help footer. It never matches a key.
func clickHint(desc string) key.Binding {
	return key.NewBinding(key.WithKeys("click"), key.WithHelp("click", desc))
}
