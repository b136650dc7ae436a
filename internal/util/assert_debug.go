//go:build debugassert

package util

const debugAsserts = true
