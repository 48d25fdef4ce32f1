package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	desktopChromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	iphoneSafariUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
)

func TestNewProfileDesktop(t *testing.T) {
	p := NewProfile("https://shop.example.com/checkout", desktopChromeUA, "fr-FR")

	assert.Equal(t, "https://shop.example.com/checkout", p.URL)
	assert.Equal(t, "fr-FR", p.Language)
	assert.Equal(t, "Netscape", p.AppName)
	assert.Equal(t, "Gecko", p.Product)
	assert.True(t, p.CookieEnabled)
	assert.Equal(t, "Chrome", p.Browser)
	assert.Equal(t, "desktop", p.DeviceType)
	assert.Equal(t, "Google Inc.", p.Vendor)
	assert.True(t, p.HasMouse)
	assert.False(t, p.HasTouch)
}

func TestNewProfileMobile(t *testing.T) {
	p := NewProfile("https://shop.example.com/", iphoneSafariUA, "en-US")

	assert.Equal(t, "mobile", p.DeviceType)
	assert.True(t, p.HasTouch)
	assert.False(t, p.HasMouse)
}

func TestNewProfileDefaultsLanguage(t *testing.T) {
	p := NewProfile("https://shop.example.com/", desktopChromeUA, "")
	assert.Equal(t, "en-US", p.Language)
}

func TestNewProfileEmptyUserAgent(t *testing.T) {
	p := NewProfile("https://shop.example.com/", "", "en-US")

	assert.Empty(t, p.Browser)
	assert.Equal(t, "desktop", p.DeviceType)
	assert.True(t, p.HasMouse)
}
