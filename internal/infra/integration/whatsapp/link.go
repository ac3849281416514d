package whatsapp

import (
	"net/url"
	"strings"
)

const chatBaseURL = "https://wa.me/"

// BuildChatLink returns a click-to-chat URI that opens a conversation with
// contact, pre-filled with text. contact is a phone number with country
// code and no leading '+'. Nothing is sent; the link is opened client side.
func BuildChatLink(contact, text string) string {
	contact = strings.TrimPrefix(strings.TrimSpace(contact), "+")
	link := chatBaseURL + url.PathEscape(contact)
	if text == "" {
		return link
	}
	return link + "?text=" + encodeComponent(text)
}

// encodeComponent escapes like a browser's encodeURIComponent: spaces
// become %20, not '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
