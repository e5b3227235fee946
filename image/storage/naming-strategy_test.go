package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	require.Equal(t, "toyota-corolla", SanitizeFilename("Toyota Corolla"))
	require.Equal(t, "img-2019.photo", SanitizeFilename("IMG 2019.photo"))
	require.Equal(t, "a-b", SanitizeFilename("a///---b"))
	require.Equal(t, "", SanitizeFilename("...---"))
}

func TestGenerateKeyShape(t *testing.T) {
	t.Parallel()

	strategy := NamingStrategy{Prefix: "uploads"}

	key := strategy.Generate(GenerateOptions{PreferredName: "Front Left", Extension: "jpg"})

	now := time.Now()
	prefix := fmt.Sprintf("uploads/%04d/%02d/", now.Year(), int(now.Month()))
	require.True(t, len(key) > len(prefix))
	require.Equal(t, prefix, key[:len(prefix)])
	require.Contains(t, key, "-front-left.jpg")
}

func TestGenerateKeysAreUnique(t *testing.T) {
	t.Parallel()

	strategy := NamingStrategy{Prefix: "uploads"}

	first := strategy.Generate(GenerateOptions{Extension: "png"})
	second := strategy.Generate(GenerateOptions{Extension: "png"})
	require.NotEqual(t, first, second)
}
