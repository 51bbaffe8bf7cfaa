package domain

import "strings"

// Command keywords
const (
	Define       = "define"
	Add          = "add"
	Remove       = "remove"
	Clone        = "clone"
	Ignore       = "ignore"
	PlusChannel  = "+channel"
	MinusChannel = "-channel"
	Cooldown     = "cooldown"
	Help         = "help"
	Test         = "test"
)

// Command describes one entry of the command surface
type Command struct {
	Name string
	// Usage is the argument syntax without the prefix, e.g. "add <term>: <definition>"
	Usage string
	Short string
	// Mutating commands change stored state and are subject to allowed_users
	Mutating bool
}

// Catalog lists the commands in the order help shows them
var Catalog = []Command{
	{Name: Define, Usage: "define <term>", Short: "Defines a term!"},
	{Name: Add, Usage: "add <term>: <definition>", Short: "To add a new term and definition, or to add a definition to a term", Mutating: true},
	{Name: Remove, Usage: "remove <term>[, <term>, ...]", Short: "To remove a term and all its definitions", Mutating: true},
	{Name: Clone, Usage: "clone <old term>, <new term>", Short: "To copy the definitions from one term to make a new term", Mutating: true},
	{Name: Ignore, Usage: "ignore <term>[, <term>, ...]", Short: "To stop (or resume) automatic definitions for a term", Mutating: true},
	{Name: PlusChannel, Usage: "+channel", Short: "To add this channel to active scanning", Mutating: true},
	{Name: MinusChannel, Usage: "-channel", Short: "To remove this channel from active scanning", Mutating: true},
	{Name: Cooldown, Usage: "cooldown [<minutes>]", Short: "To show or set the minutes between automatic definitions of a term"},
	{Name: Help, Usage: "help", Short: "To see these commands anytime"},
	{Name: Test, Usage: "test", Short: "To check the bot is alive"},
}

// Lookup finds a command by keyword
func Lookup(name string) (Command, bool) {
	for _, cmd := range Catalog {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return Command{}, false
}

// Parse splits a prefixed message into its keyword and the merged argument
// string, which is everything after the first space
func Parse(prefix, text string) (name, args string, ok bool) {
	rest, ok := strings.CutPrefix(text, prefix)
	if !ok {
		return "", "", false
	}
	name, args, _ = strings.Cut(rest, " ")
	return name, args, true
}

// SplitList splits a comma separated argument into trimmed, non-blank items
func SplitList(args string) []string {
	var items []string
	for _, item := range strings.Split(args, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
