package tui

import (
	"fmt"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormatLakh(t *testing.T) {
	assert.Equal(t, "₹0", formatLakh(0))
	assert.Equal(t, "₹500", formatLakh(500))
	assert.Equal(t, "₹2.50 L", formatLakh(250000))
	assert.Equal(t, "₹1.50 Cr", formatLakh(15000000))
}

func TestTimeAgo(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "30m ago", timeAgo(now.Add(-30*time.Minute).Format(time.RFC3339)))
	assert.Equal(t, "5h ago", timeAgo(now.Add(-5*time.Hour).Format(time.RFC3339)))
	assert.Equal(t, "3d ago", timeAgo(now.Add(-76*time.Hour).Format(time.RFC3339)))
	assert.Equal(t, "", timeAgo("not-a-date"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "very long…", truncate("very long name here", 10))
}

func TestTruncate_MultibyteNames(t *testing.T) {
	// Cutting on runes keeps multibyte names intact.
	assert.Equal(t, "₹₹₹₹…", truncate("₹₹₹₹₹₹₹₹", 5))
	assert.Equal(t, "प्रधान फ…", truncate("प्रधान फिनसर्व", 9))
	assert.True(t, utf8.ValidString(truncate("₹₹₹₹₹₹₹₹", 5)))
}

func TestByteSize(t *testing.T) {
	assert.Equal(t, "512 B", byteSize(512))
	assert.Equal(t, "2.0 KB", byteSize(2048))
	assert.Equal(t, fmt.Sprintf("%.1f MB", 1.5), byteSize(3<<20/2))
}

func TestMimeByExt(t *testing.T) {
	assert.Equal(t, "application/pdf", mimeByExt("/tmp/scan.PDF"))
	assert.Equal(t, "image/jpeg", mimeByExt("photo.jpg"))
	assert.Equal(t, "image/png", mimeByExt("aadhaar.png"))
	assert.Equal(t, "application/octet-stream", mimeByExt("statement.xlsx"))
}
