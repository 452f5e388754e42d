package random

import "math/rand"

var lowerCaseLetters = []rune("abcdefghijklmnopqrstuvwxyz")

// LowerCaseLetterString returns a random string of lower case letters of
// length n. Used to give each cluster run a unique identifier.
func LowerCaseLetterString(n int) string {
	letters := make([]rune, n)
	for i := range letters {
		letters[i] = lowerCaseLetters[rand.Intn(len(lowerCaseLetters))]
	}
	return string(letters)
}
