//go:build !debugassert

package util

const debugAsserts = false
