// Package classify holds the category and description lookup tables that
// route transactions into buckets, fixed lines and utility lines.
//
// Each table is an ordered list of rules; the first match wins and every
// table ends in an explicit default.
package classify

import (
	"slices"
	"strings"

	"github.com/theirongolddev/hbudget/internal/model"
)

type bucketRule struct {
	categories []string
	bucket     model.Bucket
}

// Matched against the trimmed category, case-sensitive.
var bucketRules = []bucketRule{
	{[]string{"Transfers"}, model.BucketIgnore},
	{[]string{"Restaurants/Dining"}, model.BucketFood},
	{[]string{"Other Discretionary"}, model.BucketGas},
	{[]string{"Travel", "Gifts", "Home Improvement", "Automotive Expenses"}, model.BucketOther},
	{[]string{"General Merchandise", "Clothing/Shoes", "Entertainment", "Repairs & Maintenance", "Uncategorized"}, model.BucketGeneral},
}

const defaultBucket = model.BucketGeneral

// Bucket maps a source category to its discretionary bucket.
func Bucket(category string) model.Bucket {
	cat := strings.TrimSpace(category)
	for _, r := range bucketRules {
		if slices.Contains(r.categories, cat) {
			return r.bucket
		}
	}
	return defaultBucket
}

type lineRule struct {
	exact    []string
	contains []string
	line     model.FixedLine
}

func (r lineRule) match(low string) bool {
	if slices.Contains(r.exact, low) {
		return true
	}
	for _, sub := range r.contains {
		if strings.Contains(low, sub) {
			return true
		}
	}
	return false
}

// Matched against the trimmed, lowercased category.
var fixedRules = []lineRule{
	{exact: []string{"interest"}, line: model.LineIgnore},
	{exact: []string{"education"}, line: model.LineStudentLoans},
	{exact: []string{"healthcare/medical", "chiropractors"}, contains: []string{"doctors and physicians"}, line: model.LineMedical},
	{exact: []string{"retirement contributions"}, line: model.LineNorthWest},
	{exact: []string{"mortgages"}, line: model.LineMortgage},
	{exact: []string{"savings"}, line: model.LineSavings},
	{
		exact: []string{
			"utilities",
			"dues and subscriptions",
			"telephone services",
			"cable/satellite services",
			"taxes",
			"insurance",
			"other fixed",
			"child/dependent expenses",
			"pets/pet care",
			"services",
		},
		contains: []string{"bridge and road fees", "membership clubs"},
		line:     model.LineUtilities,
	},
}

const defaultFixedLine = model.LineUtilities

// FixedLine maps a fixed-type transaction's category to its fixed line, or to
// the Savings / Ignore sentinels.
func FixedLine(category string) model.FixedLine {
	low := lower(category)
	for _, r := range fixedRules {
		if r.match(low) {
			return r.line
		}
	}
	return defaultFixedLine
}

var forcedDiscretionary = []string{"restaurants/dining", "gifts", "home improvement", "rent"}

// ForceDiscretionary reports whether a category always counts as
// discretionary regardless of the row's type. Every aggregation path checks
// this before fixed routing.
func ForceDiscretionary(category string) bool {
	return slices.Contains(forcedDiscretionary, lower(category))
}

type utilityRule struct {
	contains []string
	exact    []string
	line     string
}

// Matched against the trimmed, lowercased description.
var utilityRules = []utilityRule{
	{contains: []string{"national grid"}, line: model.UtilNationalGrid},
	{contains: []string{"spectrum"}, line: model.UtilSpectrum},
	{contains: []string{"venmo inc", "transfer to venmo"}, line: model.UtilJoannPhone},
	{contains: []string{"netflix"}, line: model.UtilNetflix},
	{contains: []string{"peacock", "hulu"}, line: model.UtilPeacock},
	{contains: []string{"liverpoolclub", "elevate fitn"}, line: model.UtilGym},
	{contains: []string{"onondaga county water", "water authority"}, line: model.UtilWater},
	{exact: []string{"apple"}, contains: []string{"apple.com"}, line: model.UtilApple},
}

const defaultUtilityLine = model.UtilOther

// UtilityLine resolves a Utiities transaction to its sub-line from the
// description.
func UtilityLine(description string) string {
	d := lower(description)
	for _, r := range utilityRules {
		if slices.Contains(r.exact, d) {
			return r.line
		}
		for _, sub := range r.contains {
			if strings.Contains(d, sub) {
				return r.line
			}
		}
	}
	return defaultUtilityLine
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
