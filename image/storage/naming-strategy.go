package storage

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	disallowedChars = regexp.MustCompile(`[^a-z0-9._-]+`)
	repeatedDashes  = regexp.MustCompile(`-{2,}`)
)

// NamingStrategy produces object keys of the form
// <prefix>/<year>/<month>/<uuid>[-<name>].<ext>. Keys never collide, so
// uploads need no existence check against the bucket.
type NamingStrategy struct {
	Prefix string
}

type GenerateOptions struct {
	PreferredName string
	Extension     string
}

func SanitizeFilename(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = disallowedChars.ReplaceAllString(name, "-")
	name = repeatedDashes.ReplaceAllString(name, "-")

	return strings.Trim(name, "-.")
}

func (s NamingStrategy) Generate(options GenerateOptions) string {
	now := time.Now()

	name := uuid.NewString()
	if preferred := SanitizeFilename(options.PreferredName); preferred != "" {
		name = name + "-" + preferred
	}

	ext := options.Extension
	if ext == "" {
		ext = "jpg"
	}

	return fmt.Sprintf("%s/%04d/%02d/%s.%s", s.Prefix, now.Year(), int(now.Month()), name, ext)
}
