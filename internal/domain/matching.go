package domain

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Matching thresholds. Amount comparison always uses absolute values: the
// sign of a statement line encodes deposit/withdrawal, not a different
// amount.
var amountTolerance = decimal.NewFromFloat(0.01)

const (
	exactDateWindowDays = 1.0
	fuzzyDateWindowDays = 3.0
	minFuzzyScore       = 0.3
)

// NormalizeReference reduces a reference number to uppercase alphanumerics
// so "chk-1234" and "CHK 1234" compare equal.
func NormalizeReference(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}

	return b.String()
}

// NormalizeDescription lowercases and collapses whitespace.
func NormalizeDescription(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// DescriptionSimilarity scores two descriptions in [0, 1]: 1.0 for
// normalized equality, 0.8 for substring containment either way, otherwise
// the Jaccard overlap of their character sets.
func DescriptionSimilarity(a, b string) float64 {
	na, nb := NormalizeDescription(a), NormalizeDescription(b)

	switch {
	case na == nb && na != "":
		return 1.0
	case na != "" && nb != "" && (strings.Contains(na, nb) || strings.Contains(nb, na)):
		return 0.8
	default:
		return charSetJaccard(na, nb)
	}
}

func charSetJaccard(a, b string) float64 {
	setA := make(map[rune]struct{})
	for _, r := range a {
		setA[r] = struct{}{}
	}

	setB := make(map[rune]struct{})
	for _, r := range b {
		setB[r] = struct{}{}
	}

	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for r := range setA {
		if _, ok := setB[r]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// AmountsMatch compares a signed line amount against a non-negative
// transaction amount with the matching tolerance.
func AmountsMatch(lineAmount, txnAmount decimal.Decimal) bool {
	return lineAmount.Abs().Sub(txnAmount.Abs()).Abs().LessThan(amountTolerance)
}

func dateDiffDays(a, b time.Time) float64 {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}

	return d.Hours() / 24
}

// IsExactMatch implements the first matching pass: amounts within
// tolerance, dates within one day, and equal non-empty normalized
// references.
func IsExactMatch(line *StatementLine, txn *Transaction) bool {
	if !AmountsMatch(line.Amount, txn.Amount) {
		return false
	}
	if dateDiffDays(line.TransactionDate, txn.TransactionDate) >= exactDateWindowDays {
		return false
	}

	ref := NormalizeReference(line.ReferenceNumber)

	return ref != "" && ref == NormalizeReference(txn.ReferenceNumber)
}

// FuzzyScore implements the second matching pass. It returns the candidate
// score, or -1 when the pair is ineligible (amount or date out of window).
// A line only matches when the best score exceeds MinFuzzyScore.
func FuzzyScore(line *StatementLine, txn *Transaction) float64 {
	if !AmountsMatch(line.Amount, txn.Amount) {
		return -1
	}

	dd := dateDiffDays(line.TransactionDate, txn.TransactionDate)
	if dd > fuzzyDateWindowDays {
		return -1
	}

	descSim := DescriptionSimilarity(line.Description, txn.Description)

	return 0.6*(1-dd/fuzzyDateWindowDays) + 0.4*descSim
}

// MinFuzzyScore is the acceptance floor for the fuzzy pass.
func MinFuzzyScore() float64 { return minFuzzyScore }

// FuzzyDateWindowDays is the candidate date window for the fuzzy pass.
func FuzzyDateWindowDays() float64 { return fuzzyDateWindowDays }
