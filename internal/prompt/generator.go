package prompt

import (
	"context"
	"math/rand"
	"strings"
	"unicode"

	"github.com/Shamsear/typevelocity/internal/model"
)

// Generator builds word prompts from a word list, optionally biased toward
// keys the player often mistypes.
type Generator struct {
	rnd   *rand.Rand
	words []string
	cfg   model.Config
	weak  func() map[rune]struct{}
}

// NewGenerator returns a generator over words. weak may be nil; it is only
// consulted when cfg.FocusWeak is set.
func NewGenerator(rnd *rand.Rand, words []string, cfg model.Config, weak func() map[rune]struct{}) *Generator {
	return &Generator{rnd: rnd, words: words, cfg: cfg, weak: weak}
}

// Name implements Source.
func (g *Generator) Name() string { return "words" }

// Prompt implements Source.
func (g *Generator) Prompt(context.Context, int) (string, error) {
	return strings.Join(g.Words(), " "), nil
}

// Words returns one prompt's worth of words.
func (g *Generator) Words() []string {
	if len(g.words) == 0 || g.cfg.Words <= 0 {
		return nil
	}
	punctSet := []rune(g.cfg.PunctSet)
	if g.cfg.FocusWeak && g.weak != nil {
		if weakSet := g.weak(); len(weakSet) > 0 {
			return g.generateWeighted(punctSet, weakSet)
		}
	}
	return g.generate(punctSet)
}

func (g *Generator) generate(punctSet []rune) []string {
	result := make([]string, 0, g.cfg.Words)
	for i := 0; i < g.cfg.Words; i++ {
		result = append(result, g.decorate(g.words[g.rnd.Intn(len(g.words))], punctSet))
	}
	return result
}

func (g *Generator) generateWeighted(punctSet []rune, weakSet map[rune]struct{}) []string {
	weights := make([]float64, len(g.words))
	total := 0.0
	for i, word := range g.words {
		weakCount := 0
		for _, r := range word {
			if _, ok := weakSet[unicode.ToLower(r)]; ok {
				weakCount++
			}
		}
		w := 1.0 + float64(weakCount)*g.cfg.WeakFactor
		weights[i] = w
		total += w
	}

	result := make([]string, 0, g.cfg.Words)
	for i := 0; i < g.cfg.Words; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(g.words) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, g.decorate(g.words[idx], punctSet))
	}
	return result
}

func (g *Generator) decorate(word string, punctSet []rune) string {
	word = applyCaps(g.rnd, word, g.cfg.CapsPct)
	return applyPunct(g.rnd, word, g.cfg.PunctPct, punctSet)
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 || rnd.Float64() > punctPct {
		return word
	}
	return word + string(punctSet[rnd.Intn(len(punctSet))])
}
