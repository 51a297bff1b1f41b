// Package naming generates meeting identifiers for the random naming schemes.
package naming

import (
	"crypto/rand"
	_ "embed"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const letters = "abcdefghijklmnopqrstuvwxyz"

const (
	personalSuffixLength = 20
	channelSuffixLength  = 10
)

//go:embed words.yaml
var wordsYAML []byte

type wordList struct {
	Adjectives []string `yaml:"adjectives"`
	Nouns      []string `yaml:"nouns"`
}

var words = mustLoadWords(wordsYAML)

func mustLoadWords(data []byte) wordList {
	var w wordList
	if err := yaml.Unmarshal(data, &w); err != nil {
		panic(fmt.Sprintf("parse words.yaml: %v", err))
	}
	if len(w.Adjectives) == 0 || len(w.Nouns) == 0 {
		panic("words.yaml: adjectives and nouns are required")
	}
	return w
}

func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("read random: %v", err))
	}
	return int(v.Int64())
}

func randomLetters(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(letters[randomInt(len(letters))])
	}
	return b.String()
}

func pick(list []string) string {
	return list[randomInt(len(list))]
}

// Words returns "adjective-adjective-noun".
func Words() string {
	return pick(words.Adjectives) + "-" + pick(words.Adjectives) + "-" + pick(words.Nouns)
}

func UUID() string {
	return uuid.NewString()
}

// Personal returns the user's personal meeting name.
func Personal(username string) string {
	return username + "-" + randomLetters(personalSuffixLength)
}

// TeamChannel returns "{team}-{channel}-{suffix}". An empty team is omitted.
func TeamChannel(teamName, channelName string) string {
	name := teamName
	if name != "" {
		name += "-"
	}
	return name + channelName + "-" + randomLetters(channelSuffixLength)
}
