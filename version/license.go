package version

import (
	"fmt"
	"strings"
)

// License identifies one of the license texts this package can render as
// boilerplate header or full legal text, grounded on the name/boilerplate
// contract exercised by the license test suite this package carries.
type License uint8

const (
	License_MIT License = iota
	License_GNU_GPL_v3
	License_GNU_Affero_GPL_v3
	License_GNU_Lesser_GPL_v3
	License_Mozilla_PL_v2
	License_Apache_v2
	License_Unlicense
	License_Creative_Common_Zero_v1
	License_Creative_Common_Attribution_v4_int
	License_Creative_Common_Attribution_Share_Alike_v4_int
	License_SIL_Open_Font_1_1
)

type licenseText struct {
	// name is the canonical, often all-caps header as the license itself
	// prints it.
	name string
	// title is the human mixed-case form used in per-file boilerplate.
	title string
	legal string
}

var licenseTable = map[License]licenseText{
	License_MIT: {
		name:  "MIT License",
		title: "MIT License",
		legal: "MIT License\n\n" +
			"Permission is hereby granted, free of charge, to any person obtaining a copy\n" +
			"of this software and associated documentation files, to deal in the Software\n" +
			"without restriction, including without limitation the rights to use, copy,\n" +
			"modify, merge, publish, distribute, sublicense, and/or sell copies of the\n" +
			"Software, subject to the following conditions: the above copyright notice\n" +
			"and this permission notice shall be included in all copies or substantial\n" +
			"portions of the Software. THE SOFTWARE IS PROVIDED \"AS IS\", WITHOUT WARRANTY\n" +
			"OF ANY KIND.",
	},
	License_GNU_GPL_v3: {
		name:  "GNU GENERAL PUBLIC LICENSE Version 3, 29 June 2007",
		title: "GNU General Public License",
		legal: "GNU GENERAL PUBLIC LICENSE\nVersion 3, 29 June 2007\n\n" +
			"This program is free software: you can redistribute it and/or modify it\n" +
			"under the terms of the GNU General Public License as published by the Free\n" +
			"Software Foundation, either version 3 of the License, or any later version.",
	},
	License_GNU_Affero_GPL_v3: {
		name:  "GNU AFFERO GENERAL PUBLIC LICENSE Version 3, 19 November 2007",
		title: "GNU Affero General Public License",
		legal: "GNU AFFERO GENERAL PUBLIC LICENSE\nVersion 3, 19 November 2007\n\n" +
			"The GNU Affero General Public License is a free, copyleft license for\n" +
			"software and other kinds of works, specifically designed to ensure\n" +
			"cooperation with the community in the case of network server software.",
	},
	License_GNU_Lesser_GPL_v3: {
		name:  "GNU LESSER GENERAL PUBLIC LICENSE Version 3, 29 June 2007",
		title: "GNU Lesser General Public License",
		legal: "GNU LESSER GENERAL PUBLIC LICENSE\nVersion 3, 29 June 2007\n\n" +
			"This version of the GNU Lesser General Public License incorporates the\n" +
			"terms and conditions of version 3 of the GNU General Public License.",
	},
	License_Mozilla_PL_v2: {
		name:  "Mozilla Public License Version 2.0",
		title: "Mozilla Public License",
		legal: "Mozilla Public License Version 2.0\n\n" +
			"This Source Code Form is subject to the terms of the Mozilla Public\n" +
			"License, v. 2.0. If a copy of the MPL was not distributed with this file,\n" +
			"You can obtain one at https://mozilla.org/MPL/2.0/.",
	},
	License_Apache_v2: {
		name:  "Apache License Version 2.0, January 2004",
		title: "Apache License",
		legal: "Apache License\nVersion 2.0, January 2004\n\n" +
			"Licensed under the Apache License, Version 2.0 (the \"License\"); you may not\n" +
			"use this file except in compliance with the License. You may obtain a copy\n" +
			"of the License at http://www.apache.org/licenses/LICENSE-2.0.",
	},
	License_Unlicense: {
		name:  "Free and unencumbered software",
		title: "This is free and unencumbered software",
		legal: "This is free and unencumbered software released into the public domain.\n\n" +
			"Anyone is free to copy, modify, publish, use, compile, sell, or distribute\n" +
			"this software, either in source code form or as a compiled binary, for any\n" +
			"purpose, commercial or non-commercial, and by any means.",
	},
	License_Creative_Common_Zero_v1: {
		name:  "Creative Commons CC0 1.0 Universal",
		title: "Creative Commons CC0",
		legal: "Creative Commons CC0 1.0 Universal\n\n" +
			"CC0 enables scientists, educators, artists and other creators and owners\n" +
			"of copyright- or database-protected content to waive those interests and\n" +
			"thereby place their work in the public domain.",
	},
	License_Creative_Common_Attribution_v4_int: {
		name:  "Creative Commons Attribution 4.0 International",
		title: "Creative Commons Attribution License",
		legal: "Creative Commons Attribution 4.0 International\n\n" +
			"You are free to share and adapt the material for any purpose, even\n" +
			"commercially, as long as you give appropriate credit, provide a link to\n" +
			"the license, and indicate if changes were made.",
	},
	License_Creative_Common_Attribution_Share_Alike_v4_int: {
		name:  "Creative Commons Attribution-ShareAlike 4.0 International",
		title: "Creative Commons Attribution Share Alike License",
		legal: "Creative Commons Attribution-ShareAlike 4.0 International\n\n" +
			"You are free to share and adapt the material as long as you give\n" +
			"appropriate credit, and distribute your contributions under the Share\n" +
			"Alike same license as the original.",
	},
	License_SIL_Open_Font_1_1: {
		name:  "SIL OPEN FONT LICENSE Version 1.1 - 26 February 2007",
		title: "SIL Open Font License",
		legal: "SIL OPEN FONT LICENSE\nVersion 1.1 - 26 February 2007\n\n" +
			"The goals of the Open Font License are to stimulate worldwide development\n" +
			"of collaborative font projects, to support the font creation efforts of\n" +
			"academic and linguistic communities.",
	},
}

const licenseSeparator = "********************************************************************************"

// GetLicenseName returns the display name of the license this version was
// built with.
func (v *version) GetLicenseName() string {
	return licenseTable[v.license].name
}

// GetLicenseLegal returns the full legal text of this version's license,
// concatenated with any additional licenses passed in, each additional
// text wrapped in a pair of rule-line separators.
func (v *version) GetLicenseLegal(extra ...License) string {
	parts := []string{licenseTable[v.license].legal}
	for _, l := range extra {
		parts = append(parts, licenseSeparator, licenseTable[l].legal, licenseSeparator)
	}
	return strings.Join(parts, "\n\n")
}

// GetLicenseBoiler returns the short per-file header: license title,
// copyright year and author, and package description — the form dropped
// at the top of a source file.
func (v *version) GetLicenseBoiler(extra ...License) string {
	year := v.buildTime.Year()
	one := func(l License) string {
		t := licenseTable[l]
		return fmt.Sprintf(
			"%s\n\nCopyright (c) %d %s\n\n%s - %s",
			t.title, year, v.author, v.pkg, v.pkgDescription,
		)
	}

	parts := []string{one(v.license)}
	for _, l := range extra {
		parts = append(parts, licenseSeparator, one(l), licenseSeparator)
	}
	return strings.Join(parts, "\n\n")
}

// GetLicenseFull concatenates the boilerplate and the full legal text for
// this version's license and any additional ones.
func (v *version) GetLicenseFull(extra ...License) string {
	return v.GetLicenseBoiler(extra...) + "\n\n" + licenseSeparator + "\n\n" + v.GetLicenseLegal(extra...)
}
