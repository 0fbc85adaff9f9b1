package search

import (
	"regexp"
	"sort"
	"strings"
)

// Rank orders products by Jaccard similarity between the term's token set
// and each product name's token set: score = |Q ∩ P| / |Q ∪ P|. Ties keep
// the retailer's original order. The input slice is reordered in place and
// returned.
func Rank(term string, products []Product) []Product {
	q := tokenize(term)
	if len(q) == 0 || len(products) < 2 {
		return products
	}
	scores := make(map[int]float64, len(products))
	for i, p := range products {
		scores[i] = jaccard(q, tokenize(p.Name))
	}
	idx := make([]int, len(products))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	ranked := make([]Product, len(products))
	for i, j := range idx {
		ranked[i] = products[j]
	}
	copy(products, ranked)
	return products
}

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*|\p{N}+\p{L}*`)

func tokenize(s string) map[string]struct{} {
	words := wordRE.FindAllString(strings.ToLower(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

func jaccard(a, b map[string]struct{}) float64 {
	over := overlap(a, b)
	if over == 0 {
		return 0
	}
	return float64(over) / float64(len(a)+len(b)-over)
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
