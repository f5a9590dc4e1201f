// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import "strconv"

// DefaultKeySuffix is appended to every localization accessor.
const DefaultKeySuffix = "ufind_v2"

// KeyRegistry hands out localization accessor names for one generation run.
// Accessors are injective over (source text, discriminator): a key is owned by the
// first pair that derived it. Another pair that sanitizes to the same key gets the
// discriminator appended, then the sheet row number.
type KeyRegistry struct {
	suffix string
	owners map[string]string
	byID   map[string]string

	constOwners map[string]string
	constants   map[string]string
}

// NewKeyRegistry creates a registry. An empty suffix leaves keys bare.
func NewKeyRegistry(suffix string) *KeyRegistry {
	return &KeyRegistry{
		suffix:      suffix,
		owners:      make(map[string]string),
		byID:        make(map[string]string),
		constOwners: make(map[string]string),
		constants:   make(map[string]string),
	}
}

// Text returns the accessor for a question or label text. The same text under
// another discriminator gets its own accessor.
func (r *KeyRegistry) Text(text, discriminator string, ordinal int) string {
	id := "t\x00" + text + "\x00" + discriminator
	return r.derive(id, Sanitize(text), discriminator, ordinal)
}

// Option returns the accessor for an option text. Option keys always carry the
// discriminator so equal option texts in different groups do not merge.
func (r *KeyRegistry) Option(text, discriminator string, ordinal int) string {
	id := "o\x00" + text + "\x00" + discriminator
	return r.derive(id, Sanitize(text)+"_"+Sanitize(discriminator), "", ordinal)
}

// Constant returns the setup constant name for a discriminator. Discriminators
// that sanitize alike are numbered in first-seen order: fruit, fruit_2, ...
func (r *KeyRegistry) Constant(discriminator string) string {
	if c, ok := r.constants[discriminator]; ok {
		return c
	}
	base := Sanitize(discriminator)
	key := base
	for n := 2; ; n++ {
		if _, taken := r.constOwners[key]; !taken {
			break
		}
		key = base + "_" + strconv.Itoa(n)
	}
	r.constOwners[key] = discriminator
	c := r.withSuffix(key)
	r.constants[discriminator] = c
	return c
}

func (r *KeyRegistry) derive(id, base, discriminator string, ordinal int) string {
	if key, ok := r.byID[id]; ok {
		return key
	}

	candidates := []string{base}
	if discriminator != "" {
		candidates = append(candidates, base+"_"+Sanitize(discriminator))
	}
	candidates = append(candidates, base+"_"+strconv.Itoa(ordinal+2))

	key := ""
	for _, c := range candidates {
		if _, taken := r.owners[c]; !taken {
			key = c
			break
		}
	}
	for n := 2; key == ""; n++ {
		c := base + "_" + strconv.Itoa(ordinal+2) + "_" + strconv.Itoa(n)
		if _, taken := r.owners[c]; !taken {
			key = c
		}
	}

	r.owners[key] = id
	key = r.withSuffix(key)
	r.byID[id] = key
	return key
}

func (r *KeyRegistry) withSuffix(key string) string {
	if r.suffix == "" {
		return key
	}
	return key + "_" + r.suffix
}
