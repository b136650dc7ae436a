//go:build !debugassert

package tilemap

func assertionsAreSoft() bool { return true }
