package generate

import "math/rand"

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandomString returns a random alphabetical string of length n.
func RandomString(n int) string {
	bs := make([]byte, n)

	for i := range bs {
		bs[i] = letters[rand.Intn(len(letters))]
	}

	return string(bs)
}
