package version_test

import (
	"strings"

	"github.com/nabbar/gowsgi/version"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("License rendering", func() {
	var (
		testPackage     = "TestApp"
		testDescription = "Test Application"
		testBuild       = "abc123def"
		testRelease     = "v1.2.3"
		testAuthor      = "Test Author"
		testPrefix      = "test"
	)

	build := func(l version.License) version.Version {
		return version.NewVersion(l, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
	}

	Describe("GetLicenseName", func() {
		It("names every supported license", func() {
			Expect(build(version.License_MIT).GetLicenseName()).To(Equal("MIT License"))

			name := build(version.License_GNU_GPL_v3).GetLicenseName()
			Expect(name).To(ContainSubstring("GNU GENERAL PUBLIC LICENSE"))
			Expect(name).To(ContainSubstring("Version 3"))

			name = build(version.License_GNU_Affero_GPL_v3).GetLicenseName()
			Expect(name).To(ContainSubstring("GNU AFFERO GENERAL PUBLIC LICENSE"))

			name = build(version.License_GNU_Lesser_GPL_v3).GetLicenseName()
			Expect(name).To(ContainSubstring("GNU LESSER GENERAL PUBLIC LICENSE"))

			name = build(version.License_Mozilla_PL_v2).GetLicenseName()
			Expect(name).To(ContainSubstring("Mozilla Public License"))
			Expect(name).To(ContainSubstring("Version 2.0"))

			name = build(version.License_Apache_v2).GetLicenseName()
			Expect(name).To(ContainSubstring("Apache License"))
			Expect(name).To(ContainSubstring("Version 2.0"))

			Expect(build(version.License_Unlicense).GetLicenseName()).To(Equal("Free and unencumbered software"))

			name = build(version.License_Creative_Common_Zero_v1).GetLicenseName()
			Expect(name).To(ContainSubstring("Creative Commons"))
			Expect(name).To(ContainSubstring("CC0 1.0 Universal"))

			name = build(version.License_Creative_Common_Attribution_v4_int).GetLicenseName()
			Expect(name).To(ContainSubstring("Creative Commons"))
			Expect(name).To(ContainSubstring("Attribution 4.0 International"))

			name = build(version.License_Creative_Common_Attribution_Share_Alike_v4_int).GetLicenseName()
			Expect(name).To(ContainSubstring("Creative Commons"))
			Expect(name).To(ContainSubstring("Attribution-ShareAlike 4.0 International"))

			name = build(version.License_SIL_Open_Font_1_1).GetLicenseName()
			Expect(name).To(ContainSubstring("SIL OPEN FONT LICENSE"))
			Expect(name).To(ContainSubstring("Version 1.1"))
		})
	})

	Describe("GetLicenseLegal", func() {
		It("returns non-empty legal text per license", func() {
			Expect(build(version.License_MIT).GetLicenseLegal()).To(ContainSubstring("Permission is hereby granted"))
			Expect(build(version.License_Apache_v2).GetLicenseLegal()).To(ContainSubstring("Apache License"))
			Expect(build(version.License_GNU_GPL_v3).GetLicenseLegal()).To(ContainSubstring("GNU GENERAL PUBLIC LICENSE"))
		})

		It("wraps additional licenses with rule-line separators", func() {
			legal := build(version.License_MIT).GetLicenseLegal(version.License_Apache_v2)
			Expect(legal).To(ContainSubstring("MIT License"))
			Expect(legal).To(ContainSubstring("Apache License"))
			Expect(strings.Count(legal, strings.Repeat("*", 80))).To(Equal(2))

			legal = build(version.License_MIT).GetLicenseLegal(version.License_Apache_v2, version.License_Mozilla_PL_v2)
			Expect(legal).To(ContainSubstring("Mozilla Public License"))
			Expect(strings.Count(legal, strings.Repeat("*", 80))).To(Equal(4))
		})
	})

	Describe("GetLicenseBoiler", func() {
		It("carries package info and year", func() {
			boiler := build(version.License_MIT).GetLicenseBoiler()
			Expect(boiler).To(ContainSubstring("MIT License"))
			Expect(boiler).To(ContainSubstring("2024"))
			Expect(boiler).To(ContainSubstring(testAuthor))

			boiler = build(version.License_GNU_GPL_v3).GetLicenseBoiler()
			Expect(boiler).To(ContainSubstring(testPackage))
			Expect(boiler).To(ContainSubstring(testDescription))

			boiler = build(version.License_GNU_Affero_GPL_v3).GetLicenseBoiler()
			Expect(boiler).To(ContainSubstring("GNU Affero General Public License"))

			boiler = build(version.License_GNU_Lesser_GPL_v3).GetLicenseBoiler()
			Expect(boiler).To(ContainSubstring("GNU Lesser General Public License"))

			boiler = build(version.License_Unlicense).GetLicenseBoiler()
			Expect(boiler).To(ContainSubstring("free and unencumbered software"))

			boiler = build(version.License_Creative_Common_Attribution_Share_Alike_v4_int).GetLicenseBoiler()
			Expect(boiler).To(ContainSubstring("Creative Commons"))
			Expect(boiler).To(ContainSubstring("Share Alike"))

			boiler = build(version.License_SIL_Open_Font_1_1).GetLicenseBoiler()
			Expect(boiler).To(ContainSubstring("SIL Open Font License"))
		})

		It("concatenates multiple boilerplates with a shared year", func() {
			boiler := build(version.License_MIT).GetLicenseBoiler(version.License_Apache_v2, version.License_GNU_GPL_v3)
			Expect(boiler).To(ContainSubstring("MIT License"))
			Expect(boiler).To(ContainSubstring("Apache License"))
			Expect(strings.Count(boiler, "2024")).To(BeNumerically(">=", 3))
		})
	})

	Describe("GetLicenseFull", func() {
		It("includes both boilerplate and legal text", func() {
			full := build(version.License_MIT).GetLicenseFull()
			Expect(full).To(ContainSubstring("2024"))
			Expect(full).To(ContainSubstring(testAuthor))
			Expect(full).To(ContainSubstring("Permission is hereby granted"))
			Expect(full).To(ContainSubstring(strings.Repeat("*", 80)))
		})

		It("is longer than either part alone", func() {
			v := build(version.License_Creative_Common_Zero_v1)
			boiler, legal, full := v.GetLicenseBoiler(), v.GetLicenseLegal(), v.GetLicenseFull()
			Expect(len(full)).To(BeNumerically(">", len(boiler)))
			Expect(len(full)).To(BeNumerically(">", len(legal)))
		})
	})

	Describe("consistency", func() {
		It("keeps the boilerplate shorter than the full legal text", func() {
			v := build(version.License_Apache_v2)
			Expect(len(v.GetLicenseBoiler())).To(BeNumerically("<=", len(v.GetLicenseLegal())))
		})
	})
})
