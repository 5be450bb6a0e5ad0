package passages

import "math/rand"

// Bundled fallback passages, used whenever no passage store is reachable.
var static = []string{
	"The quick brown fox jumps over the lazy dog. This pangram contains every letter of the alphabet at least once.",
	"To be or not to be, that is the question: Whether 'tis nobler in the mind to suffer the slings and arrows of outrageous fortune.",
	"In the beginning was the Word, and the Word was with God, and the Word was God.",
	"It was the best of times, it was the worst of times, it was the age of wisdom, it was the age of foolishness.",
	"Call me Ishmael. Some years ago, never mind how long precisely, having little or no money in my purse.",
	"All happy families are alike; each unhappy family is unhappy in its own way.",
	"The only way to do great work is to love what you do. If you haven't found it yet, keep looking.",
	"Programming is not about typing, it's about thinking. The keyboard is just the interface between your thoughts and the computer.",
	"A distributed system is one in which the failure of a computer you didn't even know existed can render your own computer unusable.",
	"Simplicity is prerequisite for reliability. Controlling complexity is the essence of computer programming.",
}

// StaticCount is the number of bundled passages.
func StaticCount() int {
	return len(static)
}

// ByIndex returns a bundled passage, for deterministic tests.
func ByIndex(i int) (string, bool) {
	if i < 0 || i >= len(static) {
		return "", false
	}
	return static[i], true
}

func randomStatic() string {
	return static[rand.Intn(len(static))]
}
