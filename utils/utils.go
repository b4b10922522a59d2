package utils

import (
	"math/rand"

	"github.com/Luismorlan/tunemux/utils/dotenv"
)

const letters = "abcdefghijklmnopqrstuvwxyz"

// RandomAlphabetString returns a lower case string of length n.
func RandomAlphabetString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

func IsProdEnv() bool {
	return dotenv.CurrentEnv() == dotenv.ProdEnv
}

// DatadogEnv maps the runtime environment to the env tag used by Datadog.
func DatadogEnv() string {
	if IsProdEnv() {
		return "production"
	}
	return "development"
}
