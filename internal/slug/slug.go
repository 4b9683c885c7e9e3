// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and a uniqueness probe for slug collections.
package slug

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, whitespace, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespaceRun collapses consecutive whitespace into a single hyphen.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Fallback is substituted when normalization produces an empty slug.
const Fallback = "post"

// maxSuffixLen caps the random suffix appended on collision.
const maxSuffixLen = 8

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
// Empty or all-punctuation input yields an empty string.
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespaceRun.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(slug string) (bool, error)

// Unique returns a slug based on base that is not taken according to exists
// at the moment of the check. An empty base falls back to "post". On
// collision it probes up to six candidates with a short time+random base-36
// suffix, then gives up and appends the current timestamp without a final
// re-check. The read-then-write race with a concurrent creator is accepted;
// the posts table's unique index is the backstop.
func Unique(base string, exists ExistsFunc) (string, error) {
	if base == "" {
		base = Fallback
	}

	taken, err := exists(base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for i := 0; i < 6; i++ {
		candidate := base + "-" + suffix()
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return base + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10), nil
}

// suffix builds a short collision-avoidance token from the current time in
// base 36 plus random base-36 characters, at most maxSuffixLen long.
func suffix() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	s := ts + randBase36(3)
	if len(s) > maxSuffixLen {
		s = s[:maxSuffixLen]
	}
	return s
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}
