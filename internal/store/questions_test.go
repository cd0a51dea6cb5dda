package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCompanyFilterAnchorsAndIgnoresCase(t *testing.T) {
	filter := companyFilter("Google", "")

	re, ok := filter["company"].(primitive.Regex)
	require.True(t, ok, "company filter should be a regex")
	assert.Equal(t, "^Google$", re.Pattern, "match must cover the whole string, so \"Google LLC\" stays out")
	assert.Equal(t, "i", re.Options)
	assert.NotContains(t, filter, "role")
}

func TestCompanyFilterQuotesMetacharacters(t *testing.T) {
	filter := companyFilter("C++ (Inc.)", "")

	re := filter["company"].(primitive.Regex)
	assert.Equal(t, `^C\+\+ \(Inc\.\)$`, re.Pattern)
}

func TestCompanyFilterIncludesExactRole(t *testing.T) {
	filter := companyFilter("Google", "SWE")

	assert.Equal(t, "SWE", filter["role"])
}
