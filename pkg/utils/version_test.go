package utils

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("VersionString", func() {
	It("renders the development defaults", func() {
		Expect(VersionString()).To(Equal("dev (HEAD, built dev)"))
	})

	It("renders values set at link time", func() {
		defer func(v, s, b string) { Version, Sha, Buildtime = v, s, b }(Version, Sha, Buildtime)
		Version, Sha, Buildtime = "v1.2.0", "3f2c1ab", "2026-01-02T15:04:05Z"

		Expect(VersionString()).To(Equal("v1.2.0 (3f2c1ab, built 2026-01-02T15:04:05Z)"))
	})
})
